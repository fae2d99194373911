package display

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/elijahnyp/dash_display/util"
)

const rowHeight = 30

var (
	background = color.RGBA{0, 0, 0, 255}
	foreground = color.RGBA{255, 255, 255, 255}
	cursorBar  = color.RGBA{40, 40, 120, 255}
)

// Frame is an in-memory framebuffer standing in for the physical screen:
// one text row per device, a highlight bar under the cursor row, and a PNG
// snapshot for the monitor server. The hub writes rows from its tick loop
// while HTTP handlers snapshot concurrently, hence the mutex.
type Frame struct {
	mu     sync.Mutex
	img    *image.RGBA
	rows   []string
	cursor int
}

func NewFrame(width, height int) *Frame {
	f := &Frame{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	f.redraw()
	return f
}

// Render draws text at the given row, extending the row list if this is a
// row it hasn't seen. Idempotent - re-rendering identical text is cheap.
func (f *Frame) Render(row int, text string) {
	if row < 0 {
		util.Logger.Error().Msgf("render request for negative row %d", row)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.rows) <= row {
		f.rows = append(f.rows, "")
	}
	if f.rows[row] == text {
		return
	}
	f.rows[row] = text
	f.redraw()
}

// SetCursor moves the highlight bar. Purely cosmetic - row content is owned
// by Render.
func (f *Frame) SetCursor(row int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row == f.cursor {
		return
	}
	f.cursor = row
	f.redraw()
}

func (f *Frame) redraw() {
	bounds := f.img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			f.img.Set(x, y, background)
		}
	}
	if f.cursor >= 0 && f.cursor < len(f.rows) {
		top := f.cursor * rowHeight
		for y := top; y < top+rowHeight && y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				f.img.Set(x, y, cursorBar)
			}
		}
	}
	for i, text := range f.rows {
		d := &font.Drawer{
			Dst:  f.img,
			Src:  image.NewUniform(foreground),
			Face: inconsolata.Bold8x16,
			Dot:  fixed.Point26_6{X: fixed.I(3), Y: fixed.I(i*rowHeight + 20)},
		}
		d.DrawString(text)
	}
}

// Rows returns a copy of the current row texts.
func (f *Frame) Rows() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.rows))
	copy(out, f.rows)
	return out
}

func (f *Frame) Cursor() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor
}

// Snapshot encodes the framebuffer as PNG for the monitor endpoint.
func (f *Frame) Snapshot() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
