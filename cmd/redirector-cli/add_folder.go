package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/cmd"
)

var addFolderCommand = &cobra.Command{
	Use:   "add-folder [source] [target]",
	Short: "Add a whole-directory overlay and print the resulting configuration",
	Args:  cobra.MaximumNArgs(2),
	Run: cmd.Mainify(func(_ *cobra.Command, arguments []string) error {
		source, target := resolveFolderArguments(arguments)

		m, err := buildManager()
		if err != nil {
			return err
		}

		if err := m.AddRedirectFolder(source, target); err != nil {
			return err
		}
		m.Optimise()

		if _, folders := m.ConfiguredRedirects(); len(folders) > 0 && folders[len(folders)-1].FileCount == 0 {
			cmd.Warning(fmt.Sprintf("%s contains no files; the overlay will never redirect anything", target))
		}

		return runList(m)
	}),
}

// resolveFolderArguments falls back to REDIRECTOR_BASE/REDIRECTOR_MOD (set
// directly or via the .env file in the working directory that main loads
// at startup, per SPEC_FULL.md §A.2) when
// source/target aren't given positionally, so the demo can be run with no
// arguments at all once those variables are exported.
func resolveFolderArguments(arguments []string) (source, target string) {
	source = os.Getenv("REDIRECTOR_BASE")
	target = os.Getenv("REDIRECTOR_MOD")
	if len(arguments) > 0 {
		source = arguments[0]
	}
	if len(arguments) > 1 {
		target = arguments[1]
	}
	return
}
