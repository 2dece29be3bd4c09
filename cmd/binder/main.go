package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/vito/binder/pkg/binder"
	"github.com/vito/binder/pkg/ioctx"
	"github.com/vito/binder/pkg/notation"
	"github.com/vito/binder/pkg/scenario"
	"github.com/vito/binder/pkg/script"
)

// Config holds the application configuration
type Config struct {
	Debug      bool
	Mode       string
	ConfigFile string
}

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "binder",
		Short: "Destructuring bindings, defaults and spread",
		Long: `binder binds values against destructuring patterns with defaults,
holes, aliases, nested patterns and rest collection, and spreads sequences
and mappings into lists, records and calls.`,
		Example: `  # Start interactive REPL
  binder

  # Bind a value against a pattern
  binder bind '[first, , , fourth]' "['a', 'b', 'c', 'd']"

  # Evaluate statements in one session
  binder eval "let colors = ['red', 'green']" "giveMeFour(...colors)"

  # Run scenario files, re-running when they change
  binder run --watch scenarios/*.toml`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd.Context(), cfg)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfg.Mode, "mode", "", "Binding mode: omitted-only or omitted-or-nullish")
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Path to binder.toml (searched for from the working directory if not specified)")

	rootCmd.AddCommand(
		replCmd(&cfg),
		runCmd(&cfg),
		bindCmd(&cfg),
		evalCmd(&cfg),
	)

	ctx := context.Background()
	ctx = ioctx.StdoutToContext(ctx, os.Stdout)
	ctx = ioctx.StderrToContext(ctx, os.Stderr)
	if err := fang.Execute(ctx, rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, formatError(err))
		}),
	); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cfg Config) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// loadConfig finds binder.toml (or loads --config), applies environment
// overrides, then the --mode flag.
func loadConfig(cfg Config) (*scenario.Config, error) {
	var (
		config *scenario.Config
		err    error
	)
	if cfg.ConfigFile != "" {
		config, err = scenario.LoadConfig(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		var path string
		path, config, err = scenario.FindConfig(cwd)
		if err != nil {
			return nil, err
		}
		if config == nil {
			config = &scenario.Config{Dir: cwd}
		} else {
			slog.Debug("loaded config", "path", path)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	if cfg.Mode != "" {
		mode, err := binder.ParseMode(cfg.Mode)
		if err != nil {
			return nil, err
		}
		config.Mode = mode
	}
	return config, nil
}

func replCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd.Context(), *cfg)
		},
	}
}

func runCmd(cfg *Config) *cobra.Command {
	var (
		watch       bool
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "run [flags] [file...]",
		Short: "Run scenario files",
		Long: `Run scenario files and report which scenarios passed.

Files ending in .yaml or .yml are read as YAML, anything else as TOML.
With no files, the scenarios globs from binder.toml are used.`,
		Example: `  # Run scenarios listed in binder.toml
  binder run

  # Run specific files, four at a time
  binder run --parallel 4 arrays.toml objects.yaml

  # Re-run whenever a file changes
  binder run -w arrays.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(*cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("parallel") {
				config.Parallelism = parallelism
			}

			paths := args
			if len(paths) == 0 {
				paths, err = config.Files()
				if err != nil {
					return err
				}
			}
			if len(paths) == 0 {
				return fmt.Errorf("no scenario files given and none configured in %s", scenario.ConfigFile)
			}

			runner := &scenario.Runner{
				Mode:        config.Mode,
				Parallelism: config.Parallelism,
			}

			if watch {
				return scenario.Watch(cmd.Context(), paths, func(ctx context.Context) error {
					_, err := runScenarios(ctx, runner, paths)
					return err
				})
			}

			failed, err := runScenarios(cmd.Context(), runner, paths)
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d scenario(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-run when scenario files change")
	cmd.Flags().IntVarP(&parallelism, "parallel", "p", 0, "Scenarios to run at once (default: config, then one per CPU)")

	return cmd
}

func runScenarios(ctx context.Context, runner *scenario.Runner, paths []string) (int, error) {
	files, err := scenario.LoadAll(paths)
	if err != nil {
		return 0, err
	}
	results, err := runner.Run(ctx, files)
	if err != nil {
		return 0, err
	}
	if err := renderStyled(ioctx.StdoutFromContext(ctx), results); err != nil {
		return 0, err
	}
	return scenario.Failed(results), nil
}

func bindCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "bind PATTERN INPUT",
		Short: "Bind an input value against a pattern",
		Example: `  binder bind '{first, last, ...other}' "{first: 'Eliud', last: 'Kipchoge', country: 'Kenya'}"
  binder --mode omitted-or-nullish bind '[x, y = 2]' '[1, null]'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			config, err := loadConfig(*cfg)
			if err != nil {
				return err
			}

			pat, err := notation.ParsePattern(args[0])
			if err != nil {
				return err
			}
			slog.Debug("parsed pattern", "pattern", pretty.Sprint(pat))

			input, err := notation.ParseExpr(args[1])
			if err != nil {
				return err
			}

			scope := binder.NewRootScope()
			val, err := input.Eval(ctx, scope)
			if err != nil {
				return err
			}

			res, err := pat.WithMode(config.Mode).Bind(ctx, scope, val)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(ioctx.StdoutFromContext(ctx), res.String())
			return err
		},
	}
}

func evalCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "eval STATEMENT...",
		Short: "Evaluate statements in one session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			config, err := loadConfig(*cfg)
			if err != nil {
				return err
			}

			session := script.NewSession(config.Mode)
			stdout := ioctx.StdoutFromContext(ctx)
			for _, src := range args {
				out, err := session.Exec(ctx, src)
				if err != nil {
					return err
				}
				if len(out.Lines()) > 0 {
					fmt.Fprintln(stdout, out.String())
				}
			}
			return nil
		},
	}
}

// historyFilePath returns the path to the REPL history file, respecting
// XDG_DATA_HOME (default ~/.local/share/binder/history).
func historyFilePath() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "binder_history")
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "binder", "history")
}
