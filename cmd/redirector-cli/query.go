package main

import (
	"github.com/spf13/cobra"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/cmd"
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection"
)

var queryCommand = &cobra.Command{
	Use:   "query <path>",
	Short: "Resolve a single path against the configured redirect set",
	Args:  cobra.ExactArgs(1),
	Run: cmd.Mainify(func(_ *cobra.Command, arguments []string) error {
		m, err := buildManager()
		if err != nil {
			return err
		}
		m.Optimise()

		return runQueryIfSet(m, arguments[0])
	}),
}

// runQueryIfSet resolves path against m and prints the result, if path is
// non-empty. It's shared by query, enable, and disable, which all want
// "resolve this one path and print it" as their terminal action.
func runQueryIfSet(m *redirection.Manager, path string) error {
	if path == "" {
		return nil
	}
	target, ok := m.TryGetFile(path)
	if !ok {
		printMiss(path)
		return nil
	}
	printTarget(path, target.Directory, target.FileName)
	return nil
}
