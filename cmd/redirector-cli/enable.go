package main

import (
	"github.com/spf13/cobra"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/cmd"
)

var enableConfiguration struct {
	query string
}

var enableCommand = &cobra.Command{
	Use:   "enable",
	Short: "Enable redirection (the default state) and optionally demonstrate it against --query",
	Args:  cmd.DisallowArguments,
	Run: cmd.Mainify(func(_ *cobra.Command, _ []string) error {
		m, err := buildManager()
		if err != nil {
			return err
		}

		m.Optimise()
		m.Enable()

		return runQueryIfSet(m, enableConfiguration.query)
	}),
}

func init() {
	enableCommand.Flags().StringVar(&enableConfiguration.query, "query", "", "a path to resolve after enabling, for demonstration")
}
