package main

import (
	"github.com/spf13/cobra"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/cmd"
)

var addFileCommand = &cobra.Command{
	Use:   "add-file <old> <new>",
	Short: "Add a single file redirect and print the resulting configuration",
	Args:  cobra.ExactArgs(2),
	Run: cmd.Mainify(func(_ *cobra.Command, arguments []string) error {
		m, err := buildManager()
		if err != nil {
			return err
		}

		m.AddRedirect(arguments[0], arguments[1])
		m.Optimise()

		return runList(m)
	}),
}
