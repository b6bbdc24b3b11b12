package cmd

import (
	// Imported for its init, which routes the standard logger (used by
	// logging.Logger under the hood) to stderr rather than the default
	// stdout, keeping it clear of command output written to stdout.
	_ "github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/logging"
)
