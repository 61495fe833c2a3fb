// Command gta3scfront is a thin driver over the parser front-end: it loads
// configuration, initializes logging, reads a .sc source file (or falls
// back to a built-in sample when none is given), and prints the resulting
// IR sequence and any diagnostics. It never generates code or writes an SCM
// binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/amykhaylyshyn/gta3sc/internal/ast"
	"github.com/amykhaylyshyn/gta3sc/internal/config"
	"github.com/amykhaylyshyn/gta3sc/internal/diag"
	"github.com/amykhaylyshyn/gta3sc/internal/frontend"
	"github.com/amykhaylyshyn/gta3sc/internal/logger"
	"github.com/amykhaylyshyn/gta3sc/internal/source"
)

const sampleProgram = `{
  VAR_INT total
  total = 0
  REPEAT 5 i
    total += 1
  ENDREPEAT
  IF total = 5
    WAIT 0
  ENDIF
}
`

func main() {
	configPath := flag.String("config", "", "path to a gta3scfront.yaml config file")
	inPath := flag.String("in", "", "input .sc source file path (default: built-in sample program)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *inPath != "" {
		cfg.Input = *inPath
	}

	if err := logger.Init(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Logger.Sync()

	src := sampleProgram
	name := "<sample>"
	if cfg.Input != "" {
		data, err := os.ReadFile(cfg.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", cfg.Input, err)
			os.Exit(1)
		}
		src = string(data)
		name = cfg.Input
	}

	file := source.New(name, []byte(src))
	writer := &diag.WriterReporter{File: file, Out: os.Stderr}
	reporter := &logger.DiagReporter{Next: writer}

	pc := frontend.NewParseContext(file, reporter, cfg.MaxDiagnostics)
	nodes, err := pc.Run(context.Background())
	if err != nil {
		logger.Error("parse aborted", zap.Error(err))
	}

	fmt.Printf("IR (%d nodes)\n", len(nodes))
	for _, n := range nodes {
		printNode(n)
	}

	fmt.Printf("\nwarnings=%d errors=%d fatals=%d\n", pc.Counter.Warnings, pc.Counter.Errors, pc.Counter.Fatals)

	exitErrors := pc.Counter.Errors + pc.Counter.Fatals
	if cfg.WarningsAsErrors {
		exitErrors += pc.Counter.Warnings
	}
	if exitErrors > 0 {
		os.Exit(1)
	}
}

func printNode(n *ast.Node) {
	switch {
	case n.Label != nil && n.Command != nil:
		fmt.Printf("  %s: %s\n", n.Label.Name, formatCommand(n.Command))
	case n.Label != nil:
		fmt.Printf("  %s:\n", n.Label.Name)
	case n.Command != nil:
		fmt.Printf("  %s\n", formatCommand(n.Command))
	}
}

func formatCommand(c *ast.Command) string {
	s := c.Name
	if c.NotFlag {
		s = "NOT " + s
	}
	for _, a := range c.Args {
		s += " " + formatArg(a)
	}
	return s
}

func formatArg(a ast.Argument) string {
	switch a.Kind {
	case ast.Integer:
		return fmt.Sprintf("%d", a.Int)
	case ast.Float:
		return fmt.Sprintf("%g", a.Float)
	case ast.StringLit:
		return fmt.Sprintf("%q", a.Str)
	default:
		return a.Str
	}
}
