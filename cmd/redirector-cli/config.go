package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection"
)

// fileRedirectEntry is one entry of a config's top-level "redirects" list.
type fileRedirectEntry struct {
	Old string `yaml:"old"`
	New string `yaml:"new"`
}

// folderRedirectEntry is one entry of a config's top-level "folders" list.
type folderRedirectEntry struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// config is the declarative redirect set the CLI demo harness accepts via
// --config (spec.md's engine itself has no notion of a config file; this
// is purely a CLI convenience for seeding a Manager in a single process
// run, matching SPEC_FULL.md §A.2).
type config struct {
	Redirects []fileRedirectEntry   `yaml:"redirects"`
	Folders   []folderRedirectEntry `yaml:"folders"`
}

// loadConfig reads and parses a YAML redirect set. An empty path is not an
// error: it yields a zero-value config, so commands can be run without
// --config at all.
func loadConfig(path string) (*config, error) {
	if path == "" {
		return &config{}, nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read configuration file")
	}

	var c config
	if err := yaml.Unmarshal(contents, &c); err != nil {
		return nil, errors.Wrap(err, "unable to parse configuration file")
	}
	return &c, nil
}

// apply registers every entry of c against m, folder overlays before file
// redirects, mirroring the order Manager.rebuildLocked uses
// internally so a config's effect matches what a rebuild would produce.
func (c *config) apply(m *redirection.Manager) error {
	for _, f := range c.Folders {
		if err := m.AddRedirectFolder(f.Source, f.Target); err != nil {
			return errors.Wrapf(err, "unable to add folder redirect %s -> %s", f.Source, f.Target)
		}
	}
	for _, r := range c.Redirects {
		m.AddRedirect(r.Old, r.New)
	}
	return nil
}
