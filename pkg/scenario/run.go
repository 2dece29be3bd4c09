package scenario

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vito/binder/pkg/binder"
	"github.com/vito/binder/pkg/ioctx"
	"github.com/vito/binder/pkg/script"
)

// StepResult is the outcome of one statement.
type StepResult struct {
	Source string

	// Output is the rendered outcome, lines joined by "; ".
	Output string

	// Printed is anything the step wrote to stdout.
	Printed string

	Err error

	// Failure describes why the step didn't meet its expectation.
	Failure string
}

// Result is the outcome of one scenario.
type Result struct {
	File     string
	Scenario Scenario
	Mode     binder.Mode
	Steps    []StepResult

	// Skipped counts steps not run after an unexpected error.
	Skipped int
}

// Passed reports whether every step met its expectation.
func (r Result) Passed() bool {
	if r.Skipped > 0 {
		return false
	}
	for _, step := range r.Steps {
		if step.Failure != "" {
			return false
		}
	}
	return true
}

// Runner runs scenarios concurrently, each in its own session.
type Runner struct {
	// Mode is used by scenarios that don't set their own.
	Mode binder.Mode

	// Parallelism bounds concurrent scenarios; zero or less means one per
	// CPU.
	Parallelism int
}

// Run runs every scenario of every file. Results are in file order
// regardless of completion order. The only error is the context's.
func (r *Runner) Run(ctx context.Context, files []*File) ([]Result, error) {
	type job struct {
		file     string
		scenario Scenario
	}
	var jobs []job
	for _, f := range files {
		for _, sc := range f.Scenarios {
			jobs = append(jobs, job{file: f.Path, scenario: sc})
		}
	}

	limit := r.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]Result, len(jobs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, j := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.runScenario(ctx, j.file, j.scenario)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) runScenario(ctx context.Context, file string, sc Scenario) Result {
	mode := r.Mode
	if sc.Mode != nil {
		mode = *sc.Mode
	}

	logger := ioctx.LoggerFromContext(ctx).With("scenario", sc.Name, "file", file)
	logger.Debug("running scenario", "mode", mode, "steps", len(sc.Steps))

	res := Result{File: file, Scenario: sc, Mode: mode}
	session := script.NewSession(mode)
	if err := bindInputs(session, sc.Inputs); err != nil {
		res.Steps = []StepResult{{Source: "inputs", Err: err, Failure: "invalid inputs"}}
		res.Skipped = len(sc.Steps)
		return res
	}
	for i, src := range sc.Steps {
		var printed bytes.Buffer
		stepCtx := ioctx.StdoutToContext(ctx, &printed)
		stepCtx = ioctx.LoggerToContext(stepCtx, logger)

		step := StepResult{Source: src}
		out, err := session.Exec(stepCtx, src)
		step.Printed = printed.String()
		if err != nil {
			step.Err = err
		} else {
			step.Output = strings.Join(out.Lines(), "; ")
		}

		want, checked := sc.Expectation(i)
		switch {
		case checked:
			step.Failure = check(step, want)
		case err != nil:
			step.Failure = "unexpected error"
		}
		res.Steps = append(res.Steps, step)

		if err != nil && step.Failure != "" {
			res.Skipped = len(sc.Steps) - i - 1
			break
		}
	}

	logger.Debug("scenario done", "passed", res.Passed())
	return res
}

func bindInputs(session *script.Session, inputs map[string]any) error {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		val, err := binder.ToValue(inputs[name])
		if err != nil {
			return fmt.Errorf("input %s: %w", name, err)
		}
		session.Scope.Set(name, val)
	}
	return nil
}

func check(step StepResult, want string) string {
	if sub, ok := strings.CutPrefix(want, ErrorPrefix); ok {
		sub = strings.TrimSpace(sub)
		if step.Err == nil {
			return fmt.Sprintf("expected error containing %q", sub)
		}
		if !strings.Contains(step.Err.Error(), sub) {
			return fmt.Sprintf("expected error containing %q", sub)
		}
		return ""
	}
	if step.Err != nil {
		return "unexpected error"
	}
	if step.Output != want {
		return fmt.Sprintf("expected %s", want)
	}
	return ""
}

// Failed counts the results that didn't pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed() {
			n++
		}
	}
	return n
}
