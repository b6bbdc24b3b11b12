package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/cmd"
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection"
)

var listCommand = &cobra.Command{
	Use:   "list",
	Short: "List the configured redirects and folder overlays",
	Args:  cmd.DisallowArguments,
	Run: cmd.Mainify(func(_ *cobra.Command, _ []string) error {
		m, err := buildManager()
		if err != nil {
			return err
		}
		return runList(m)
	}),
}

// runList prints every configured file redirect and folder overlay, shared
// by list and by every mutating subcommand (add-file, remove-file,
// add-folder, remove-folder) to show the resulting configuration.
func runList(m *redirection.Manager) error {
	files, folders := m.ConfiguredRedirects()

	color.Cyan("File redirects (%d):", len(files))
	for _, f := range files {
		fmt.Printf("  %s -> %s\n", f.OldPath, f.NewPath)
	}

	color.Cyan("Folder overlays (%d):", len(folders))
	for _, f := range folders {
		fmt.Printf("  %s -> %s (%s files)\n", f.SourceFolder, f.TargetFolder, humanize.Comma(int64(f.FileCount)))
	}

	return nil
}
