package main

import (
	"github.com/spf13/cobra"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/cmd"
)

var removeFileCommand = &cobra.Command{
	Use:   "remove-file <old>",
	Short: "Remove a single file redirect and print the resulting configuration",
	Args:  cobra.ExactArgs(1),
	Run: cmd.Mainify(func(_ *cobra.Command, arguments []string) error {
		m, err := buildManager()
		if err != nil {
			return err
		}

		m.RemoveRedirect(arguments[0])
		m.Optimise()

		return runList(m)
	}),
}
