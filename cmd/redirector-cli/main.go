// Command redirector-cli is a demo harness over the redirection engine's
// control surface (spec.md §6): it builds a Manager in-process from an
// optional declarative config and/or explicit flags, applies one mutation
// or query, and exits (load instead keeps answering queries until told to
// quit). There is no daemon and no persisted state between
// invocations, matching spec.md's "Persisted state: none" (§6 Non-goals);
// use --config to carry a redirect set across separate invocations.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/cmd"
)

const version = "0.1.0"

var rootCommand = &cobra.Command{
	Use:   "redirector-cli",
	Short: "redirector-cli is a demo harness for the file redirection engine.",
	Run: func(command *cobra.Command, arguments []string) {
		command.Help()
	},
}

func init() {
	// Load an optional .env for the demo's default base/mod directories
	// (REDIRECTOR_BASE, REDIRECTOR_MOD); absence is not an error.
	_ = godotenv.Load()

	flags := rootCommand.PersistentFlags()
	flags.StringVar(&rootConfiguration.config, "config", "", "path to a declarative YAML redirect set")

	cobra.EnableCommandSorting = false

	rootCommand.AddCommand(
		addFileCommand,
		removeFileCommand,
		addFolderCommand,
		removeFolderCommand,
		enableCommand,
		disableCommand,
		queryCommand,
		listCommand,
		loadCommand,
		versionCommand,
	)
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cmd.DisallowArguments,
	Run: func(*cobra.Command, []string) {
		fmt.Println(version)
	},
}

func main() {
	cmd.HandleTerminalCompatibility()

	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
