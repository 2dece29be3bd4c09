package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/vito/binder/pkg/binder"
	"github.com/vito/binder/pkg/ioctx"
	"github.com/vito/binder/pkg/notation"
	"github.com/vito/binder/pkg/script"
)

const (
	promptMain = "binder> "
	promptCont = "   ...> "
)

type replCommand struct {
	name string
	desc string
}

var replCommandDefs = []replCommand{
	{"help", "Show this help"},
	{"doc [name]", "Document the builtin functions"},
	{"env", "List your bindings"},
	{"mode [mode]", "Show or set the binding mode"},
	{"reset", "Drop every binding except the builtins"},
	{"quit", "Exit the REPL"},
}

type repl struct {
	session *script.Session
	out     io.Writer
}

func runREPL(ctx context.Context, cfg Config) error {
	config, err := loadConfig(cfg)
	if err != nil {
		return err
	}

	r := &repl{
		session: script.NewSession(config.Mode),
		out:     ioctx.StdoutFromContext(ctx),
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyFilePath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if err := os.MkdirAll(filepath.Dir(histPath), 0755); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(r.out, dimStyle.Render(fmt.Sprintf("binder (%s mode). Type :help for commands.", r.session.Mode)))

	for {
		src, ok := readByParseProbe(ln)
		if !ok {
			fmt.Fprintln(r.out)
			return nil
		}
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if cmd, isCmd := strings.CutPrefix(src, ":"); isCmd {
			if quit := r.command(cmd); quit {
				return nil
			}
			continue
		}

		r.exec(ctx, src)
	}
}

func (r *repl) exec(ctx context.Context, src string) {
	out, err := r.session.Exec(ctx, src)
	if err != nil {
		fmt.Fprintln(r.out, formatError(err))
		return
	}
	if out.Value != nil && binder.IsAbsent(out.Value) {
		return
	}
	for _, line := range out.Lines() {
		fmt.Fprintln(r.out, resultStyle.Render(line))
	}
}

func (r *repl) command(cmdLine string) (quit bool) {
	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		fmt.Fprintln(r.out, errorStyle.Render("empty command"))
		return false
	}

	switch parts[0] {
	case "help":
		fmt.Fprintln(r.out, "Available commands:")
		maxName := 0
		for _, cmd := range replCommandDefs {
			maxName = max(maxName, len(cmd.name))
		}
		for _, cmd := range replCommandDefs {
			fmt.Fprintln(r.out, dimStyle.Render(fmt.Sprintf("  :%-*s - %s", maxName, cmd.name, cmd.desc)))
		}
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, dimStyle.Render("Type statements like `let [a, ...rest] = [1, 2, 3]` or expressions like `greet('Ann')`."))

	case "doc":
		r.doc(parts[1:])

	case "quit", "exit":
		return true

	case "reset":
		r.session.Reset()
		fmt.Fprintln(r.out, resultStyle.Render("Environment reset."))

	case "env":
		bindings := r.session.Scope.Bindings()
		if len(bindings) == 0 {
			fmt.Fprintln(r.out, dimStyle.Render("No bindings yet."))
		}
		for _, kv := range bindings {
			fmt.Fprintln(r.out, resultStyle.Render(kv.Key+" = "+binder.Inspect(kv.Value)))
		}

	case "mode":
		if len(parts) > 1 {
			mode, err := binder.ParseMode(parts[1])
			if err != nil {
				fmt.Fprintln(r.out, errorStyle.Render(err.Error()))
				return false
			}
			r.session.Mode = mode
		}
		fmt.Fprintln(r.out, resultStyle.Render(fmt.Sprintf("Binding mode: %s", r.session.Mode)))

	default:
		fmt.Fprintln(r.out, errorStyle.Render(fmt.Sprintf("unknown command :%s (try :help)", parts[0])))
	}
	return false
}

func (r *repl) doc(names []string) {
	builtins := binder.Builtins()
	if len(names) > 0 {
		for _, fn := range builtins {
			if fn.Name == names[0] {
				fmt.Fprintln(r.out, resultStyle.Render(fn.String()))
				fmt.Fprintln(r.out, dimStyle.Render("  "+fn.Doc))
				return
			}
		}
		fmt.Fprintln(r.out, errorStyle.Render(fmt.Sprintf("no builtin named %s", names[0])))
		return
	}
	for _, fn := range builtins {
		fmt.Fprintln(r.out, resultStyle.Render(fn.String()))
		fmt.Fprintln(r.out, dimStyle.Render("  "+fn.Doc))
	}
}

// readByParseProbe keeps prompting for continuation lines while the input
// parses as incomplete, e.g. an unclosed bracket.
func readByParseProbe(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, perr := notation.ParseStatement(src); perr != nil && notation.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
