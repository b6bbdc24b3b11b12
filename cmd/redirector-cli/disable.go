package main

import (
	"github.com/spf13/cobra"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/cmd"
)

var disableConfiguration struct {
	query string
}

var disableCommand = &cobra.Command{
	Use:   "disable",
	Short: "Disable redirection without discarding configuration, and optionally demonstrate it against --query",
	Args:  cmd.DisallowArguments,
	Run: cmd.Mainify(func(_ *cobra.Command, _ []string) error {
		m, err := buildManager()
		if err != nil {
			return err
		}

		m.Optimise()
		m.Disable()

		return runQueryIfSet(m, disableConfiguration.query)
	}),
}

func init() {
	disableCommand.Flags().StringVar(&disableConfiguration.query, "query", "", "a path to resolve after disabling, for demonstration")
}
