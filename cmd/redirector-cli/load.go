package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/golang/groupcache/lru"
	"github.com/spf13/cobra"

	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/cmd"
	"github.com/Reloaded-Project/Reloaded.Mod.Universal.Redirector/pkg/redirection"
)

// queryCacheSize bounds the REPL's query cache. It exists purely so the
// interactive demo doesn't keep growing memory across an unbounded
// session; the hot TryGetFile path inside the engine itself never uses
// this cache (spec.md §4.5's zero-allocation guarantee applies there, not
// here).
const queryCacheSize = 256

var loadCommand = &cobra.Command{
	Use:   "load",
	Short: "Load --config, compile it, and enter an interactive query REPL",
	Args:  cmd.DisallowArguments,
	Run: cmd.Mainify(func(_ *cobra.Command, _ []string) error {
		m, err := buildManager()
		if err != nil {
			return err
		}
		m.Optimise()

		files, folders := m.ConfiguredRedirects()
		status := &cmd.StatusLinePrinter{}
		status.Print(fmt.Sprintf("Loaded %d file redirect(s), %d folder overlay(s). Type a path, or 'quit'.", len(files), len(folders)))
		status.BreakIfNonEmpty()

		return runQueryREPL(m)
	}),
}

// runQueryREPL reads one path per line from standard input and prints its
// resolution, until EOF, "quit", or a termination signal. Repeated queries
// for the same path are served from a small LRU cache rather than
// re-walking the LookupTree, since the REPL — unlike the syscall hot
// path — has no allocation budget to respect.
func runQueryREPL(m *redirection.Manager) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, cmd.TerminationSignals...)
	defer signal.Stop(signals)

	cache := lru.New(queryCacheSize)
	scanner := bufio.NewScanner(os.Stdin)

	go func() {
		<-signals
		os.Exit(0)
	}()

	for {
		fmt.Print("query> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		if cached, ok := cache.Get(line); ok {
			printCachedResult(line, cached)
			continue
		}

		target, ok := m.TryGetFile(line)
		if !ok {
			cache.Add(line, miss{})
			printMiss(line)
			continue
		}
		cache.Add(line, hit{directory: target.Directory, fileName: target.FileName})
		printTarget(line, target.Directory, target.FileName)
	}

	return scanner.Err()
}

type hit struct {
	directory string
	fileName  string
}

type miss struct{}

func printCachedResult(path string, cached interface{}) {
	switch v := cached.(type) {
	case hit:
		printTarget(path, v.directory, v.fileName)
	case miss:
		printMiss(path)
	}
}
