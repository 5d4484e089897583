package render

import (
	"errors"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"time"
)

// Encoder accumulates frames and writes them out on Close.
type Encoder interface {
	Add(img image.Image) error
	Frames() int
	Close() error
}

var errEncoderClosed = errors.New("encoder closed")

// GIFEncoder writes an animated GIF. Frames are quantized to the Plan 9
// palette with Floyd-Steinberg dithering.
type GIFEncoder struct {
	w         io.Writer
	delay     int // hundredths of a second
	loopCount int
	anim      gif.GIF
	closed    bool
}

// NewGIFEncoder creates an encoder showing each frame for step. loopCount
// follows image/gif: 0 loops forever, -1 plays once.
func NewGIFEncoder(w io.Writer, step time.Duration, loopCount int) *GIFEncoder {
	delay := int(math.Round(step.Seconds() * 100))
	return &GIFEncoder{w: w, delay: max(delay, 1), loopCount: loopCount}
}

func (e *GIFEncoder) Add(img image.Image) error {
	if e.closed {
		return errEncoderClosed
	}
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	e.anim.Image = append(e.anim.Image, p)
	e.anim.Delay = append(e.anim.Delay, e.delay)
	return nil
}

// Frames returns how many frames have been added.
func (e *GIFEncoder) Frames() int { return len(e.anim.Image) }

func (e *GIFEncoder) Close() error {
	if e.closed {
		return errEncoderClosed
	}
	e.closed = true
	if len(e.anim.Image) == 0 {
		return errors.New("no frames to encode")
	}
	e.anim.LoopCount = e.loopCount
	return gif.EncodeAll(e.w, &e.anim)
}
