// Package commands implements CLI command handlers for devlog.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/devlog/pkg/config"
	"github.com/Sumatoshi-tech/devlog/pkg/ledger"
	"github.com/Sumatoshi-tech/devlog/pkg/observability"
	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
	"github.com/Sumatoshi-tech/devlog/pkg/vault"
	"github.com/Sumatoshi-tech/devlog/pkg/version"
)

// Option customises the root command.
type Option func(*App)

// WithClock replaces the wall clock used for "today" and summary timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// App holds the persistent flags and dependencies shared by subcommands.
type App struct {
	configPath string
	verbose    bool
	noColor    bool
	now        func() time.Time
}

// runEnv is everything one command invocation works with.
type runEnv struct {
	cfg     *config.Config
	vault   *vault.Vault
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.REDMetrics
	out     io.Writer
	now     func() time.Time
}

// run loads configuration, starts observability, and executes fn inside a
// root span with RED metrics for op. Providers are always shut down.
func (a *App) run(
	cmd *cobra.Command,
	op string,
	mode observability.AppMode,
	fn func(ctx context.Context, env *runEnv) error,
) (err error) {
	if a.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	providers, err := observability.Init(a.observabilityConfig(cmd, cfg, mode))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return err
	}

	v, err := vault.New(vault.Layout{
		Root:          cfg.VaultRoot(),
		Folder:        cfg.Vault.Folder,
		LogFile:       cfg.Vault.ReportFile,
		SummaryFolder: cfg.Vault.SummaryFolder,
	})
	if err != nil {
		return err
	}

	env := &runEnv{
		cfg:     cfg,
		vault:   v,
		logger:  providers.Logger.With(observability.AttrRunID, uuid.NewString(), "command", op),
		tracer:  providers.Tracer,
		metrics: red,
		out:     cmd.OutOrStdout(),
		now:     a.now,
	}

	ctx, span := env.tracer.Start(cmd.Context(), "devlog."+op, trace.WithAttributes(
		attribute.String("devlog.command", op),
	))
	defer span.End()

	err = red.Observe(ctx, op, func() error {
		return fn(ctx, env)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

func (a *App) observabilityConfig(cmd *cobra.Command, cfg *config.Config, mode observability.AppMode) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.LogJSON = cfg.Logging.JSON || mode == observability.ModeMCP
	obsCfg.LogWriter = cmd.ErrOrStderr()

	// Validate already rejected unknown level names.
	obsCfg.LogLevel, _ = cfg.Logging.SlogLevel()
	if a.verbose {
		obsCfg.LogLevel = slog.LevelDebug
	}

	return obsCfg
}

// controller builds a rollover controller over the vault and the ledger.
func (e *runEnv) controller() (*rollup.Controller, error) {
	deps := rollup.Deps{
		Log:       e.vault,
		Summaries: e.vault,
		Recorder:  e.ledger(),
		Logger:    e.logger,
		Tracer:    e.tracer,
		Now:       e.now,
	}

	if e.cfg.Rollover.Archive {
		deps.Archiver = e.vault.NewArchiver()
	}

	return rollup.NewController(deps, rollup.Options{
		UniquePolicy: e.cfg.UniquePolicy(),
		KeepPreamble: e.cfg.Rollover.KeepPreamble,
	})
}

func (e *runEnv) ledger() *ledger.Ledger {
	return ledger.New(e.vault.StatePath(), e.now)
}

// countRolled feeds removed entries into the rollover counter. Dry runs leave
// the log alone and are not counted.
func (e *runEnv) countRolled(ctx context.Context, outcome rollup.Outcome) {
	if outcome.DryRun {
		return
	}

	e.metrics.RecordRollover(ctx, string(outcome.Status), outcome.Removed)
}

// errWriter reports the first failed write of a sequence.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) colorf(c *color.Color, format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = c.Fprintf(ew.w, format, args...)
}
