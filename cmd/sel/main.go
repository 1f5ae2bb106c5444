// Command sel is the CLI front-end over the type checker: parse and
// typecheck a file, run an inline script through the same pipeline, or
// dump lexer tokens / inferred types for inspection (ORIGINAL §6).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/funvibe/sel/internal/config"
	"github.com/funvibe/sel/internal/diag"
	"github.com/funvibe/sel/internal/lexer"
	"github.com/funvibe/sel/internal/modules"
	"github.com/funvibe/sel/internal/token"
)

func usage() {
	fmt.Fprintf(os.Stderr, `sel %s — a type-directed front-end for the sel language

Usage:
  sel check <file>     parse and typecheck a file, reporting any errors
  sel run <script>     typecheck an inline script passed as an argument
  sel tokens <file>    dump the lexer's token stream
  sel types <file>     dump the inferred type of the trailing script
  sel --help           show this message

Environment:
  SEL_FATAL=1   print each error as plain text (title and causes) instead of source spans
`, config.Version)
}

func main() { os.Exit(run()) }

// run is main's body, split out so testscript (see main_test.go) can
// register it as the `sel` command; each invocation runs in a subprocess
// of the test binary.
func run() int {
	if len(os.Args) < 2 || os.Args[1] == "--help" || os.Args[1] == "-help" || os.Args[1] == "help" {
		usage()
		if len(os.Args) < 2 {
			return 1
		}
		return 0
	}

	cmd := os.Args[1]
	rest := os.Args[2:]

	var err error
	switch cmd {
	case "check":
		err = runCheck(rest)
	case "run":
		err = runInline(rest)
	case "tokens":
		err = runTokens(rest)
	case "types":
		err = runTypes(rest)
	default:
		fmt.Fprintf(os.Stderr, "sel: unknown subcommand %q\n", cmd)
		usage()
		return 1
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "sel: %s\n", err)
		return 1
	}
	return 0
}

func loadProjectConfig(dir string) config.Project {
	p, err := config.LoadProject(filepath.Join(dir, ".sel.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "sel: warning: could not read project config: %s\n", err)
	}
	return p
}

func runCheck(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: sel check <file>")
	}
	path := args[0]
	loadProjectConfig(filepath.Dir(path))

	reg := modules.NewRegistry(modules.FileLoader{})
	mod, err := reg.Load(path)
	if err != nil {
		return err
	}
	mod.CheckAll()
	reg.CheckScript(mod)

	return reportAll(reg, mod)
}

func runInline(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: sel run <script>")
	}
	reg := modules.NewRegistry(modules.FileLoader{})
	mod := reg.LoadInline([]byte(args[0]))
	reg.CheckScript(mod)
	return reportAll(reg, mod)
}

func runTokens(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: sel tokens <file>")
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	sources := diag.NewSources()
	id := sources.AddBytes(args[0], b)
	lx := lexer.New(id, b)
	for {
		t := lx.Next()
		fmt.Printf("%-12s %v\n", t.Kind, t.Loc)
		if t.Kind == token.End {
			break
		}
	}
	return nil
}

func runTypes(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: sel types <file>")
	}
	path := args[0]
	reg := modules.NewRegistry(modules.FileLoader{})
	mod, err := reg.Load(path)
	if err != nil {
		return err
	}
	c, tree, ok := reg.CheckScript(mod)
	if !ok {
		fmt.Println("(no trailing script)")
		return nil
	}
	if err := reportAll(reg, mod); err != nil {
		return err
	}
	fmt.Println(c.Types.Frozen(tree.Ty))
	return nil
}

func reportAll(reg *modules.Registry, mod *modules.Module) error {
	reporter := diag.NewReporter(reg.Sources, os.Stderr)

	all := append(append([]diag.Error{}, mod.ParseErrors.All()...), mod.CheckErrors.All()...)
	if len(all) == 0 {
		return nil
	}
	for _, e := range all {
		if config.Fatal() {
			fmt.Fprintln(os.Stderr, e.Plain())
		} else {
			reporter.Render(os.Stderr, e)
		}
	}
	os.Exit(1)
	return nil
}
