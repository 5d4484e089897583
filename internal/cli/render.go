package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"routereel/internal/anim"
	"routereel/internal/config"
	"routereel/internal/reel"
	"routereel/internal/tui"
)

type renderOptions struct {
	output  string
	step    time.Duration
	width   int
	height  int
	useTUI  bool
	noTUI   bool
	offline bool
}

func newRenderCommand() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [data-dir]",
		Short: "Render the animation",
		Long: `Load every track under the data directory and write the animated map.

An interactive terminal shows a live preview while frames are produced;
otherwise a progress bar is printed.

Examples:
  routereel render data/
  routereel render --offline --output out.gif data/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runRender(ctx, cmd, cfg, opts.interactive())
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output GIF path")
	cmd.Flags().DurationVar(&opts.step, "step", 0, "duration of each frame (e.g. 500ms)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "output width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "output height in pixels")
	cmd.Flags().BoolVar(&opts.useTUI, "tui", false, "force the terminal preview")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "disable the terminal preview")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "use a plain background instead of map tiles")
	cmd.MarkFlagsMutuallyExclusive("tui", "no-tui")

	return cmd
}

// apply overrides configuration with flags that were set, then validates.
func (o *renderOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	if o.output != "" {
		cfg.Output.Path = o.output
	}
	if cmd.Flags().Changed("step") {
		cfg.Animation.StepDuration = o.step
	}
	if o.width > 0 {
		cfg.Output.Width = o.width
	}
	if o.height > 0 {
		cfg.Output.Height = o.height
	}
	if o.offline {
		cfg.Basemap.Provider = "plain"
	}
	return cfg.Validate()
}

func (o *renderOptions) interactive() bool {
	if o.useTUI {
		return true
	}
	if o.noTUI {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
}

func runRender(ctx context.Context, cmd *cobra.Command, cfg *config.Config, interactive bool) error {
	log := newLogger()
	if interactive {
		// the preview owns the terminal; warnings are repeated afterwards
		log = log.WithWriter(io.Discard)
	}
	s, err := reel.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	if interactive {
		return renderInteractive(ctx, cmd, s)
	}
	return renderHeadless(ctx, cmd, s)
}

func renderHeadless(ctx context.Context, cmd *cobra.Command, s *reel.Session) error {
	bar := progressbar.NewOptions(s.Total(),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Rendering"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	err := s.Run(ctx, func(anim.Frame) { _ = bar.Add(1) })
	_ = bar.Finish()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Animation saved to %s (%d frames)\n", s.OutputPath(), s.Total())
	return nil
}

func renderInteractive(ctx context.Context, cmd *cobra.Command, s *reel.Session) error {
	p := tea.NewProgram(tui.New(s, s.Summary()), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	for _, w := range s.Warnings() {
		newLogger().WithComponent("reel").Warn(w)
	}
	if err != nil {
		s.Abort()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	m := final.(tui.Model)
	if m.Err() != nil {
		s.Abort()
		return m.Err()
	}
	// quitting may race an encode that is still running
	if m.Aborted() && !s.Abort() {
		return errors.New("render aborted")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Animation saved to %s (%d frames)\n", s.OutputPath(), s.Total())
	return nil
}
