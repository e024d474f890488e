package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"caliper/internal/formula"
	"caliper/internal/formula/functions"
	"caliper/internal/value"
)

const version = "0.1.0"

const historyFile = ".caliper_history"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	switch cmd {
	case "eval":
		if err := cmdEval(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	case "repl":
		if err := cmdRepl(); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	case "functions":
		cmdFunctions()
	case "help", "-h", "--help":
		usage()
	case "version", "-v", "--version":
		fmt.Println("caliper", version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`Caliper formula engine

Usage:
  caliper eval [-var name=value ...] <formula>
  caliper repl
  caliper functions

Commands:
  version    Caliper version
  eval       Evaluate a formula and print the result
  repl       Interactive formula prompt with history
  functions  List the registered function names

Flags (eval):
  -var       Bind a variable, repeatable (e.g. -var x=3 -var name=Ada)`)
}

// varBindings collects repeated -var name=value flags.
type varBindings map[string]value.Value

func (b varBindings) String() string { return "" }

func (b varBindings) Set(s string) error {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	b[name] = parseValue(raw)
	return nil
}

// parseValue interprets a binding literal: number, boolean, or string.
func parseValue(raw string) value.Value {
	switch raw {
	case "true":
		return value.Bool(true)
	case "false":
		return value.Bool(false)
	}
	if n, err := value.ToNumber(value.Str(raw)); err == nil && strings.TrimSpace(raw) != "" {
		return value.Num(n)
	}
	return value.Str(raw)
}

// -------------- EVAL --------------

func cmdEval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	vars := make(varBindings)
	fs.Var(vars, "var", "bind a variable as name=value (repeatable)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("eval: missing formula")
	}
	src := strings.Join(fs.Args(), " ")

	ctx := formula.NewContext(functions.NewRegistry(), nil)
	ctx.Vars = vars

	f, err := formula.New(src)
	if err != nil {
		return err
	}
	if err := f.Compile(ctx); err != nil {
		return err
	}
	result, err := f.Evaluate(ctx, nil)
	if err != nil {
		return err
	}
	fmt.Println(result.String())
	return nil
}

// -------------- FUNCTIONS --------------

func cmdFunctions() {
	reg := functions.NewRegistry()
	for _, name := range reg.Names() {
		spec, _ := reg.Spec(name)
		argRange := fmt.Sprintf("%d", spec.MinArgs)
		if spec.MaxArgs == functions.Unbounded {
			argRange += "+"
		} else if spec.MaxArgs != spec.MinArgs {
			argRange = fmt.Sprintf("%d-%d", spec.MinArgs, spec.MaxArgs)
		}
		fmt.Printf("%-22s args: %-5s %s\n", name, argRange, spec.Category)
	}
}

// -------------- REPL --------------

func cmdRepl() error {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	ctx := formula.NewContext(functions.NewRegistry(), nil)
	ctx.Vars = make(map[string]value.Value)

	fmt.Printf("caliper %s\nCtrl+D exits. Type :help for commands.\n", version)

	for {
		line, err := ln.Prompt("=> ")
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(line, ":") {
			if done := replCommand(ctx, line); done {
				return nil
			}
			continue
		}

		result, err := evalLine(ctx, line)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(result.String())
	}
}

// replCommand handles ':' meta commands, reporting true on :quit.
func replCommand(ctx *formula.Context, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Println(`REPL commands:
  :quit             Exit
  :set <name> <formula>  Evaluate and bind a variable
  :vars             Show bound variables
  :functions        List function names`)
	case ":set":
		if len(fields) < 3 {
			fmt.Println("usage: :set <name> <formula>")
			return false
		}
		name := fields[1]
		src := strings.Join(fields[2:], " ")
		result, err := evalLine(ctx, src)
		if err != nil {
			fmt.Println("error:", err)
			return false
		}
		ctx.Vars[name] = result
		// the resolvable-name space changed
		ctx.InvalidateNamespace()
		fmt.Printf("%s = %s\n", name, result.String())
	case ":vars":
		for name, v := range ctx.Vars {
			fmt.Printf("%s = %s\n", name, v.String())
		}
	case ":functions":
		cmdFunctions()
	default:
		fmt.Println("unknown command:", fields[0])
	}
	return false
}

func evalLine(ctx *formula.Context, src string) (value.Value, error) {
	f, err := formula.New(src)
	if err != nil {
		return value.Value{}, err
	}
	if err := f.Compile(ctx); err != nil {
		return value.Value{}, err
	}
	return f.Evaluate(ctx, nil)
}
