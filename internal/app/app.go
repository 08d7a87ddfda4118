// Package app wires the command tree of fermatbench: configuration
// resolution, lifecycle (signals, deadlines), the correctness gate, the
// benchmark session and its presentation.
package app

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agbru/fermatbench/internal/cli"
	"github.com/agbru/fermatbench/internal/config"
	apperrors "github.com/agbru/fermatbench/internal/errors"
	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/harness"
	"github.com/agbru/fermatbench/internal/logging"
	"github.com/agbru/fermatbench/internal/ui"
	"github.com/agbru/fermatbench/internal/worker"
)

// Application represents the fermatbench application instance.
type Application struct {
	Registry *fermat.Registry
	Out      io.Writer
	ErrOut   io.Writer
	In       io.Reader

	// spawner overrides the process-pool spawner chosen by --isolation.
	spawner worker.Spawner
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRegistry sets the variant registry.
func WithRegistry(r *fermat.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// WithSpawner forces the process-pool spawner, ignoring --isolation.
func WithSpawner(s worker.Spawner) AppOption {
	return func(a *Application) { a.spawner = s }
}

// WithInput sets the reader of the interactive shell.
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.In = in }
}

// New creates an application writing results to out and diagnostics to
// errOut.
func New(out, errOut io.Writer, opts ...AppOption) *Application {
	a := &Application{Out: out, ErrOut: errOut, In: os.Stdin}
	for _, opt := range opts {
		opt(a)
	}
	if a.Registry == nil {
		a.Registry = fermat.NewDefaultRegistry()
	}
	return a
}

// Run executes the command line args (without the program name) and returns
// the process exit code.
func (a *Application) Run(ctx context.Context, args []string) int {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := a.newRootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return apperrors.HandleRunError(err, a.ErrOut, cli.CLIColorProvider{})
}

// setup applies the presentation settings of cfg and returns the logger of
// the command.
func (a *Application) setup(cfg config.AppConfig) logging.Logger {
	ui.InitTheme(cfg.NoColor)
	return logging.NewConsoleLogger(a.ErrOut, cfg.LogLevel)
}

// newHarness builds the harness for cfg. Worker logs go to the command
// logger for in-process workers and to ErrOut for child processes.
func (a *Application) newHarness(cfg config.AppConfig, logger logging.Logger) *harness.Harness {
	spawner := a.spawner
	if spawner == nil {
		if cfg.Isolation == config.IsolationPipe {
			spawner = worker.PipeSpawner{Registry: a.Registry, Logger: logger}
		} else {
			spawner = worker.ExecSpawner{
				Env:    []string{config.EnvPrefix + "LOG_LEVEL=" + cfg.LogLevel},
				Stderr: a.ErrOut,
			}
		}
	}
	return harness.New(a.Registry,
		harness.WithSpawner(spawner),
		harness.WithLogger(logger.With(logging.String("component", "harness"))))
}

// checkVariants reports unknown variant names as a configuration error.
func (a *Application) checkVariants(names ...string) error {
	for _, name := range names {
		if _, err := a.Registry.Get(name); err != nil {
			return apperrors.NewConfigError("%v", err)
		}
	}
	return nil
}

// configFlagError turns cobra flag parsing failures into configuration
// errors so they map to the configuration exit code.
func configFlagError(_ *cobra.Command, err error) error {
	return apperrors.NewConfigError("%v", err)
}
