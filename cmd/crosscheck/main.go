package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// version is set by goreleaser at build time.
var version = "dev"

const usage = `usage: crosscheck <command> [flags]

Commands:
  review     review a source file with the full analyzer panel
  feedback   record a reaction to a resolution from an exported report
  insights   summarize the accumulated feedback record
  diagram    print a Mermaid diagram of an exported report
  agents     list the analyzer roles
  serve-mcp  run the review tools as an MCP server
  version    print version and exit

Run 'crosscheck <command> -h' for command flags.`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Println(usage)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "review":
		return runReview(rest)
	case "feedback":
		return runFeedback(rest)
	case "insights":
		return runInsights(rest)
	case "diagram":
		return runDiagram(rest)
	case "agents":
		return runAgents(rest)
	case "serve-mcp":
		return runServeMCP(rest)
	case "version", "-version", "--version":
		fmt.Println(version)
		return nil
	case "-h", "-help", "--help", "help":
		fmt.Println(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

// newLogger builds the CLI logger. Quiet by default; -verbose switches on
// debug-level console output.
func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	return cfg.Build()
}
