/*
Garedit is an interactive demo shell for the gartree incremental parser
core.

It reads arithmetic expression lines from stdin (line editing via
github.com/chzyer/readline) and feeds each one through a fresh incremental parse, printing
the resulting parse tree or the syntax error reported by the driver.

Usage:

	garedit [flags]

The flags are:

	-c, --config FILE
		Load driver settings (cache directory, indentation mode, comment
		tokens) from the given TOML file. If omitted, built-in defaults are
		used and table caching is disabled.

	-t, --trace
		Print driver trace lines (stack pushes/pops, actions taken) as
		parsing proceeds.

Once started, each line typed is parsed independently against the
built-in arithmetic grammar. Type "QUIT" to exit.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/dekarrin/gartree/internal/compile"
	"github.com/dekarrin/gartree/internal/config"
	"github.com/dekarrin/gartree/internal/incparser"
	"github.com/dekarrin/gartree/internal/lex"
	"github.com/dekarrin/gartree/internal/synerr"
	"github.com/dekarrin/gartree/internal/table"
	"github.com/dekarrin/gartree/internal/tree"
)

const (
	ExitSuccess = iota
	ExitInitError
	ExitRuntimeError
)

var (
	returnCode int = ExitSuccess

	configFile *string = pflag.StringP("config", "c", "", "TOML file of driver settings")
	traceFlag  *bool   = pflag.BoolP("trace", "t", false, "Print driver trace lines while parsing")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()
	initDisplay()

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			pterm.Error.Println(err.Error())
			returnCode = ExitInitError
			return
		}
		cfg = loaded
	}

	tbl, warns, err := buildTable(cfg)
	if err != nil {
		pterm.Error.Println(err.Error())
		returnCode = ExitInitError
		return
	}
	for _, w := range warns {
		pterm.Warning.Println(w)
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "garedit> "})
	if err != nil {
		pterm.Error.Println(fmt.Errorf("start readline: %w", err).Error())
		returnCode = ExitInitError
		return
	}
	defer rl.Close()

	pterm.Info.Println("gartree incremental parser demo. Quit with QUIT or <ctrl>D")

	shell := &shell{tbl: tbl, cfg: cfg, rl: rl, lx: demoLexer()}
	if err := shell.run(); err != nil {
		pterm.Error.Println(err.Error())
		returnCode = ExitRuntimeError
	}
}

func buildTable(cfg config.Config) (table.Table, []string, error) {
	g := demoGrammar()

	if cfg.CacheDir != "" {
		key := compile.CacheKey(demoGrammarSource(), cfg.Whitespaces)
		path := compile.CachePath(cfg.CacheDir, key)
		if tbl, err := compile.LoadCache(path, g); err == nil {
			return tbl, nil, nil
		}
		tbl, warns, err := compile.Build(g, false)
		if err != nil {
			return nil, nil, err
		}
		if saveErr := compile.SaveCache(path, tbl); saveErr != nil {
			warns = append(warns, fmt.Sprintf("could not write table cache: %s", saveErr.Error()))
		}
		return tbl, warns, nil
	}

	return compile.Build(g, false)
}

// demoGrammarSource is a stable text representation of demoGrammar's
// productions, used only as the hash input for compile.CacheKey: the demo
// grammar is built programmatically rather than parsed from a file, so
// there is no on-disk grammar source to hash directly.
func demoGrammarSource() string {
	var sb strings.Builder
	for _, p := range demoGrammar().Productions() {
		sb.WriteString(p.String())
		sb.WriteRune('\n')
	}
	return sb.String()
}

// shell drives the readline loop: each line is lexed and parsed from
// scratch, a fresh version id is minted for SaveStatus/LoadStatus, and the
// result is rendered with pterm.
type shell struct {
	tbl table.Table
	cfg config.Config
	rl  *readline.Instance
	lx  *lex.Lexer
}

func (s *shell) run() error {
	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "QUIT") {
			return nil
		}

		s.parseLine(line)
	}
}

func (s *shell) parseLine(line string) {
	arena := tree.New()
	terms, err := lexLine(s.lx, arena, line)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	root, bos, eos := tree.BuildFlat(arena, terms)

	d := incparser.New(arena, s.tbl, incparser.Config{
		IndentationBased: s.cfg.IndentationBased,
		CommentTokens:    s.cfg.CommentTokens,
	})
	if *traceFlag {
		d.RegisterTraceListener(func(msg string) { pterm.Debug.Println(msg) })
	}
	d.Attach(root, bos, eos)

	version := uuid.New().String()
	err = d.IncParse(true)
	d.SaveStatus(version)

	if err != nil {
		if synerr.IsParseError(err) {
			pterm.Error.Println(err.Error())
		} else {
			pterm.Error.Println(fmt.Errorf("internal: %w", err).Error())
		}
		return
	}

	pterm.Info.Println("accepted")
	pterm.Println(tree.String(arena, root))
}

func initDisplay() {
	if *traceFlag {
		pterm.EnableDebugMessages()
	}
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  OK",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
	pterm.Warning.Prefix = pterm.Prefix{
		Text:  "WARN",
		Style: pterm.NewStyle(pterm.BgYellow, pterm.FgBlack),
	}
}
