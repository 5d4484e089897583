package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"routereel/internal/config"
	"routereel/internal/logger"
	"routereel/internal/reel"
)

const defaultDebounce = 750 * time.Millisecond

func newWatchCommand() *cobra.Command {
	opts := &renderOptions{}
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [data-dir]",
		Short: "Re-render whenever tracks change",
		Long: `Render once, then watch the data directory and its period folders and
render again after files are added, changed or removed. Bursts of changes
are coalesced. Press Ctrl+C to stop watching.`,
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
			return runWatch(ctx, cmd.OutOrStdout(), cfg, debounce, newLogger().WithComponent("watch"))
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output GIF path")
	cmd.Flags().DurationVar(&opts.step, "step", 0, "duration of each frame (e.g. 500ms)")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "use a plain background instead of map tiles")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before re-rendering")
	return cmd
}

// addTree watches root and every directory below it.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

// relevant reports whether an event can change the rendered output.
func relevant(ev fsnotify.Event, cfg *config.Config) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if abs, err := filepath.Abs(ev.Name); err == nil {
		if out, err := filepath.Abs(cfg.Output.Path); err == nil && abs == out {
			return false
		}
	}
	if ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		// new or removed period folders count too
		if filepath.Ext(base) == "" {
			return true
		}
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range cfg.Input.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

func renderOnce(ctx context.Context, out io.Writer, cfg *config.Config, log *logger.Logger) error {
	start := time.Now()
	s, err := reel.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := s.Run(ctx, nil); err != nil {
		return err
	}
	fmt.Fprintf(out, "[%s] Animation saved to %s (%d frames, %s)\n",
		time.Now().Format("15:04:05"), cfg.Output.Path, s.Total(), time.Since(start).Round(time.Millisecond))
	return nil
}

func runWatch(ctx context.Context, out io.Writer, cfg *config.Config, debounce time.Duration, log *logger.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.Debug("failed to close watcher", logger.Error(err))
		}
	}()
	if err := addTree(watcher, cfg.Input.DataDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.Input.DataDir, err)
	}

	if err := renderOnce(ctx, out, cfg, log); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		log.Error("render failed", logger.Error(err))
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := false
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(watcher, ev.Name); err != nil {
						log.Warn("cannot watch new folder", logger.F("path", ev.Name), logger.Error(err))
					}
				}
			}
			if !relevant(ev, cfg) {
				continue
			}
			log.Debug("change", logger.F("path", ev.Name), logger.F("op", ev.Op.String()))
			pending = true
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Warn("watcher error", logger.Error(err))

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := renderOnce(ctx, out, cfg, log); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error("render failed", logger.Error(err))
			}
		}
	}
}
