package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leengari/larex/internal/config"
	"github.com/leengari/larex/internal/logging"
	"github.com/leengari/larex/internal/network"
	"github.com/leengari/larex/internal/repl"
	"github.com/leengari/larex/internal/session"
)

type equationList []string

func (e *equationList) String() string { return strings.Join(*e, "; ") }

func (e *equationList) Set(v string) error {
	*e = append(*e, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("larex", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "larex.yaml", "Path to YAML config file")
	csvPath := fs.String("csv", "", "CSV file to import")
	outPath := fs.String("out", "", "Write the resulting dataset to this CSV file")
	checkOnly := fs.Bool("check", false, "Only report missing channels, do not evaluate")
	highlightOnly := fs.Bool("highlight", false, "Print display markup for each equation and exit")
	replMode := fs.Bool("repl", false, "Start interactive mode")
	serverMode := fs.Bool("server", false, "Run in server mode")
	port := fs.Int("port", 0, "Port to listen on (overrides config)")
	logLevel := fs.String("log-level", "", "Log level (overrides config)")
	var equations equationList
	fs.Var(&equations, "eq", "Equation to evaluate, e.g. '{c} = {a} + {b}' (repeatable)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 1
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger, closeFn := logging.SetupLogger(cfg.Log, stderr)
	defer closeFn()
	slog.SetDefault(logger)

	if *highlightOnly {
		sess := session.New(logger)
		for _, eq := range equations {
			fmt.Fprintln(stdout, sess.Highlight(eq))
		}
		return 0
	}

	if *serverMode {
		slog.Info("Starting Server mode...")
		if err := network.Start(cfg.Server.Port, logger); err != nil {
			slog.Error("server failed", "error", err)
			return 1
		}
		return 0
	}

	sess := session.New(logger)
	if *csvPath != "" {
		if err := sess.LoadFile(*csvPath); err != nil {
			slog.Error("failed to load dataset", "error", err)
			return 1
		}
	}

	if *replMode {
		slog.Info("Starting REPL mode...")
		repl.Start(sess, stdin, stdout)
		return 0
	}

	if sess.Dataset() == nil {
		fmt.Fprintln(stderr, "no dataset: pass -csv <file> or use -repl")
		fs.Usage()
		return 2
	}

	for _, eq := range equations {
		if *checkOnly {
			if missing := sess.Check(eq); len(missing) > 0 {
				fmt.Fprintf(stdout, "%s: missing %s\n", eq, strings.Join(missing, ", "))
			}
			continue
		}
		if _, err := sess.Evaluate(eq); err != nil {
			slog.Error("equation failed", "equation", eq, "error", err)
			return 1
		}
	}

	if *outPath != "" {
		if err := sess.Save(*outPath); err != nil {
			slog.Error("failed to save dataset", "error", err)
			return 1
		}
		return 0
	}

	repl.PrintDataset(stdout, sess.Dataset())
	return 0
}
