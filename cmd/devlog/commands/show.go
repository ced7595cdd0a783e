package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/devlog/pkg/observability"
)

const (
	defaultShowStyle = "auto"
	defaultShowWidth = 100
)

// ErrNoSummary is returned by show when the month has no summary document.
var ErrNoSummary = errors.New("no summary for month")

type showOptions struct {
	period periodFlags
	log    bool
	style  string
	width  int
}

func newShowCommand(app *App) *cobra.Command {
	var opts showOptions

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render a monthly summary or the daily log in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.run(cmd, "show", observability.ModeCLI, func(ctx context.Context, env *runEnv) error {
				return runShow(ctx, env, opts)
			})
		},
	}

	opts.period.register(cmd.Flags(), false)
	cmd.Flags().BoolVar(&opts.log, "log", false, "show the daily log instead of a summary")
	cmd.Flags().StringVar(&opts.style, "style", defaultShowStyle, "glamour style: auto, dark, light, notty, ...")
	cmd.Flags().IntVar(&opts.width, "width", defaultShowWidth, "word wrap width")

	return cmd
}

func runShow(ctx context.Context, env *runEnv, opts showOptions) error {
	text, err := showSource(ctx, env, opts)
	if err != nil {
		return err
	}

	styleOpt := glamour.WithStandardStyle(opts.style)
	if opts.style == defaultShowStyle {
		styleOpt = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(opts.width))
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(text)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	_, err = fmt.Fprint(env.out, rendered)

	return err
}

func showSource(ctx context.Context, env *runEnv, opts showOptions) (string, error) {
	if opts.log {
		return env.vault.ReadLog(ctx)
	}

	period, err := opts.period.resolve(env.now())
	if err != nil {
		return "", err
	}

	text, ok, err := env.vault.ReadSummary(ctx, period)
	if err != nil {
		return "", err
	}

	if !ok {
		return "", fmt.Errorf("%w: %s (%s)", ErrNoSummary, period, env.vault.SummaryPath(period))
	}

	return text, nil
}
