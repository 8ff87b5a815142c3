package logo

import (
	"io"
	"strconv"
	"strings"
)

// Image is the rendered result of a program: the canvas size and every
// segment the turtle drew, in drawing order.
type Image struct {
	Width    int
	Height   int
	Segments []Segment
}

func newImage(t *Turtle) *Image {
	return &Image{Width: CanvasWidth, Height: CanvasHeight, Segments: t.Segments()}
}

// SVG serializes the image as a single svg element holding one black line
// per segment.
func (img *Image) SVG() string {
	var b strings.Builder
	b.Grow(96 + len(img.Segments)*64)
	b.WriteString(`<svg viewBox="0 0 `)
	b.WriteString(strconv.Itoa(img.Width))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(img.Height))
	b.WriteString(`" xmlns="http://www.w3.org/2000/svg">`)
	for _, seg := range img.Segments {
		b.WriteString(`<line x1="`)
		b.WriteString(strconv.Itoa(seg.X1))
		b.WriteString(`" y1="`)
		b.WriteString(strconv.Itoa(seg.Y1))
		b.WriteString(`" x2="`)
		b.WriteString(strconv.Itoa(seg.X2))
		b.WriteString(`" y2="`)
		b.WriteString(strconv.Itoa(seg.Y2))
		b.WriteString(`" stroke="black" />`)
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func (img *Image) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, img.SVG())
	return int64(n), err
}
