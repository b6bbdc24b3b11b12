package main

import (
	"github.com/spf13/cobra"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/cmd"
)

var removeFolderCommand = &cobra.Command{
	Use:   "remove-folder <source>",
	Short: "Remove a whole-directory overlay and print the resulting configuration",
	Args:  cobra.ExactArgs(1),
	Run: cmd.Mainify(func(_ *cobra.Command, arguments []string) error {
		m, err := buildManager()
		if err != nil {
			return err
		}

		m.RemoveRedirectFolder(arguments[0])
		m.Optimise()

		return runList(m)
	}),
}
