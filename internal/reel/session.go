// Package reel wires loading, animation, rendering and encoding into one
// session that can be stepped a frame at a time.
package reel

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"sync"

	"routereel/internal/anim"
	"routereel/internal/config"
	"routereel/internal/geom"
	"routereel/internal/ledger"
	"routereel/internal/logger"
	"routereel/internal/render"
	"routereel/internal/track"
)

// Session owns one render from data folder to output file. Step, Finish
// and Abort may be called from different goroutines.
type Session struct {
	mu       sync.Mutex
	cfg      *config.Config
	log      *logger.Logger
	manifest track.Manifest
	dataset  *track.Dataset
	ledger   *ledger.Ledger
	ctrl     *anim.Controller
	renderer *render.Renderer
	enc      render.Encoder
	out      *outputFile
	warnings []string
	last     image.Image
	finished bool
	saved    bool
}

// BasemapFor returns the configured basemap provider.
func BasemapFor(cfg *config.Config, log *logger.Logger) render.Basemap {
	if cfg.Basemap.Provider == "plain" {
		return render.PlainProvider{Color: cfg.Basemap.Background}
	}
	p := render.NewTileProvider(cfg.Basemap.URL, cfg.Basemap.CacheDir, cfg.Basemap.UserAgent, log)
	p.Client = &http.Client{Timeout: cfg.Basemap.Timeout}
	return p
}

// SceneFor builds the transition inputs from configuration.
func SceneFor(cfg *config.Config, l *ledger.Ledger) anim.Scene {
	a := cfg.Animation
	return anim.Scene{
		Ledger:  l,
		Names:   cfg.Periods.Names,
		Palette: anim.NewPalette(a.Colors, a.DefaultColor),
		Style: anim.Style{
			TrackWidth:  a.TrackWidth,
			ShadowColor: a.ShadowColor,
			ShadowWidth: a.ShadowWidth,
			ShadowAlpha: a.ShadowAlpha,
		},
	}
}

// InitialOverlay returns the overlay with its static fields set.
func InitialOverlay(cfg *config.Config) anim.Overlay {
	o := cfg.Overlay
	return anim.NewOverlay(o.Title, o.Legend, anim.Labels{
		Period:     o.PeriodLabel,
		Cumulative: o.CumulativeLabel,
		Unit:       o.Unit,
	})
}

// Open loads the data folder and prepares every frame dependency. The
// basemap is fetched here, before the first frame.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Session, error) {
	return OpenWith(ctx, cfg, log, BasemapFor(cfg, log))
}

// OpenWith is Open with an explicit basemap provider.
func OpenWith(ctx context.Context, cfg *config.Config, log *logger.Logger, basemap render.Basemap) (*Session, error) {
	if log == nil {
		log = logger.Discard()
	}
	s := &Session{cfg: cfg, log: log.WithComponent("reel")}

	loader := track.NewLoader(cfg.Input.Extensions, log)
	recs, m, err := loader.Load(cfg.Input.DataDir)
	if err != nil {
		return nil, err
	}
	s.manifest = m
	s.dataset, err = track.Aggregate(recs, cfg.Animation.Margin)
	if err != nil {
		return nil, err
	}
	s.log.Info("dataset ready",
		logger.F("records", s.dataset.Len()),
		logger.F("folders", len(m.Periods)),
		logger.F("periods", s.dataset.Periods()),
		logger.F("files", len(m.Entries)))

	s.ledger = ledger.New(cfg.Periods.Distances)
	s.warnings = s.ledger.Warnings(cfg.Periods.Names, len(m.Periods))
	for _, w := range s.warnings {
		s.log.Warn(w)
	}

	s.ctrl = anim.NewController(s.dataset, SceneFor(cfg, s.ledger), InitialOverlay(cfg))

	vp, err := render.NewViewport(s.ctrl.Extent(), cfg.Output.Width, cfg.Output.Height)
	if err != nil {
		return nil, err
	}
	bg, err := basemap.Basemap(ctx, vp)
	if err != nil {
		return nil, fmt.Errorf("basemap: %w", err)
	}
	logo, err := render.LoadLogo(cfg.Overlay.Logo)
	if err != nil {
		return nil, err
	}
	if logo == nil && cfg.Overlay.Logo != "" {
		s.log.Debug("logo not found, skipping", logger.F("path", cfg.Overlay.Logo))
	}
	style := render.DefaultStyle()
	style.LogoZoom = cfg.Overlay.LogoZoom
	s.renderer, err = render.NewRenderer(vp, bg, logo, style)
	if err != nil {
		return nil, err
	}

	s.out = newOutputFile(cfg.Output.Path)
	s.enc = render.NewGIFEncoder(s.out, cfg.Animation.StepDuration, cfg.Output.LoopCount)
	return s, nil
}

// Step advances one frame, renders it and hands it to the encoder. It
// returns anim.ErrFinished once every frame has been produced.
func (s *Session) Step() (anim.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return anim.Frame{}, anim.ErrFinished
	}
	f, err := s.ctrl.Advance()
	if err != nil {
		return f, err
	}
	s.last = s.renderer.Render(s.ctrl.State())
	if err := s.enc.Add(s.last); err != nil {
		return f, fmt.Errorf("encode frame %d: %w", f.Index, err)
	}
	s.log.Debug("frame", logger.F("index", f.Index), logger.F("file", f.Record.Label), logger.F("period", f.Record.Folder))
	return f, nil
}

// Finish encodes all frames and writes the output file, creating parent
// directories as needed.
func (s *Session) Finish() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return nil
	}
	s.finished = true
	if err := s.enc.Close(); err != nil {
		s.out.Abort()
		return fmt.Errorf("encode %s: %w", s.cfg.Output.Path, err)
	}
	if err := s.out.Commit(); err != nil {
		return fmt.Errorf("write %s: %w", s.cfg.Output.Path, err)
	}
	s.saved = true
	s.log.Info("animation saved", logger.F("path", s.cfg.Output.Path), logger.F("frames", s.enc.Frames()))
	return nil
}

// Abort stops the session and removes any uncommitted output. It waits for
// a Finish in progress and reports whether the output had been written.
func (s *Session) Abort() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = true
	s.out.Abort()
	return s.saved
}

// Run produces every remaining frame and writes the output. progress, if
// non-nil, is called after each frame.
func (s *Session) Run(ctx context.Context, progress func(anim.Frame)) error {
	for {
		if err := ctx.Err(); err != nil {
			s.Abort()
			return err
		}
		f, err := s.Step()
		if errors.Is(err, anim.ErrFinished) {
			break
		}
		if err != nil {
			s.Abort()
			return err
		}
		if progress != nil {
			progress(f)
		}
	}
	return s.Finish()
}

func (s *Session) Total() int { return s.ctrl.Total() }
func (s *Session) Done() bool { return s.ctrl.Done() }
func (s *Session) State() anim.State { return s.ctrl.State() }
func (s *Session) Extent() geom.BBox { return s.ctrl.Extent() }
func (s *Session) Manifest() track.Manifest { return s.manifest }
func (s *Session) Ledger() *ledger.Ledger { return s.ledger }
func (s *Session) Warnings() []string { return s.warnings }
func (s *Session) LastFrame() image.Image { return s.last }
func (s *Session) OutputPath() string { return s.cfg.Output.Path }
