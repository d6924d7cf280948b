// Package maincmd implements the command-line surface of the nenuphar
// smoke-test binary: a thin driver that runs one of a handful of built-in
// demonstration forms through the compiler and interpreter and prints the
// result. There is no text reader (see SPEC_FULL.md's Non-goals), so the
// forms it runs are built as cons-object graphs in Go, not parsed from
// source files.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "nenuphar"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<name>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<name>...]
       %[1]s -h|--help
       %[1]s -v|--version

Smoke-test driver for the %[1]s Emacs-Lisp-compatible bytecode core.

The <command> can be one of:
       list                      List the names of the built-in demo forms.
       eval                      Compile and run the named demo forms,
                                 printing each result.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

Valid flag options for the <eval> command are:
       --disassemble             Also print the disassembly of each form.
       --max-steps               Abort a demo after this many opcodes (0: no limit).
       --max-call-stack-depth    Abort a demo past this call nesting depth (0: no limit).

More information on the %[1]s repository:
       https://github.com/nenuphar/elisp
`, binName)
)

type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Disassemble bool `flag:"disassemble"`

	// MaxSteps and MaxCallStackDepth bound the execution of each demo form.
	// Besides the --max-steps/--max-call-stack-depth flags, mainer.Parser's
	// EnvPrefix lets them be set as NENUPHAR_MAX_STEPS / NENUPHAR_MAX_CALL_STACK_DEPTH,
	// continuing the teacher's caarlos0/env-backed flag binding.
	MaxSteps          int `flag:"max-steps"`
	MaxCallStackDepth int `flag:"max-call-stack-depth"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]

	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", c.args[0])
	}

	if cmdName == "eval" && len(c.args[1:]) == 0 {
		return fmt.Errorf("%s: at least one demo name must be provided", cmdName)
	}

	if c.flags["disassemble"] && cmdName != "eval" {
		return fmt.Errorf("%s: invalid flag 'disassemble'", cmdName)
	}

	return nil
}

func printError(stdio mainer.Stdio, err error) error {
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return err
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   true,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		// each command takes care of printing its errors, just return with an error code
		return mainer.Failure
	}
	return mainer.Success
}

// valid commands are those that take a mainer.Stdio and a slice of strings as
// input, and return an error as output.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		// must take 4 parameters (including receiver) and return 1
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}

		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
