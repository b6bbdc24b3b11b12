package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection"
)

// rootConfiguration holds flags shared by every subcommand.
var rootConfiguration struct {
	// config is the path to an optional declarative YAML redirect set,
	// applied before any of the subcommand's own flags.
	config string
}

// buildManager constructs a Manager seeded from rootConfiguration.config (if
// set), enabled and ready for further mutation by the calling subcommand.
// It does not call Optimise; callers that need to query the result must do
// so themselves once they've finished mutating it.
func buildManager() (*redirection.Manager, error) {
	cfg, err := loadConfig(rootConfiguration.config)
	if err != nil {
		return nil, err
	}

	m := redirection.New()
	if err := cfg.apply(m); err != nil {
		return nil, err
	}
	return m, nil
}

// printTarget renders a resolved redirect target the way query and list
// print a hit, colorized when standard output is a terminal.
func printTarget(path string, directory, fileName string) {
	fmt.Printf("%s -> %s\n", path, color.GreenString(`%s\%s`, directory, fileName))
}

// printMiss renders a query miss.
func printMiss(path string) {
	fmt.Printf("%s -> %s\n", path, color.YellowString("(no redirect)"))
}
