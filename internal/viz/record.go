package viz

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
	"path/filepath"
)

const (
	// DefaultMaxFrames caps a recording at about ten seconds of 60 fps.
	DefaultMaxFrames = 600

	cellW = 8
	cellH = 16
	// gifDelay is in hundredths of a second.
	gifDelay = 2
)

var ErrNothingRecorded = errors.New("viz: no frames recorded")

// Recorder rasterises canvas frames into an animated GIF. Each braille dot
// becomes a block of pixels coloured by its cell level.
type Recorder struct {
	frames []*image.Paletted
	max    int
}

func NewRecorder(maxFrames int) *Recorder {
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	return &Recorder{max: maxFrames}
}

func (r *Recorder) Len() int   { return len(r.frames) }
func (r *Recorder) Full() bool { return len(r.frames) >= r.max }
func (r *Recorder) Reset()     { r.frames = nil }

// Capture appends the current canvas. It reports false once the cap is hit.
func (r *Recorder) Capture(c *Canvas, p Palette) bool {
	if r.Full() {
		return false
	}
	r.frames = append(r.frames, rasterize(c, p))
	return true
}

func rasterize(c *Canvas, p Palette) *image.Paletted {
	pal := make(color.Palette, len(p.Levels))
	for i, lc := range p.Levels {
		pal[i] = hexRGBA(lc)
	}
	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellW, c.Height*cellH), pal)

	dotW, dotH := cellW/2, cellH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := int(c.Grid[row][col] - blank)
			if pattern <= 0 {
				continue
			}
			lvl := c.level[row][col]
			baseX, baseY := col*cellW, row*cellH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, lvl)
						}
					}
				}
			}
		}
	}
	return img
}

// Encode writes the recording as a looping GIF. The logical screen is the
// largest captured frame, so frames taken before or after a resize all fit.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNothingRecorded
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		b := frame.Bounds()
		anim.Config.Width = max(anim.Config.Width, b.Dx())
		anim.Config.Height = max(anim.Config.Height, b.Dy())
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, gifDelay)
	}
	return gif.EncodeAll(w, &anim)
}

// Save encodes the recording to path, creating parent directories.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return ErrNothingRecorded
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create gif dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode gif: %w", err)
	}
	return f.Close()
}
