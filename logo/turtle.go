package logo

import "math"

const (
	CanvasWidth  = 1000
	CanvasHeight = 1000

	initialHeading = 90
)

// Segment is one recorded line with endpoints rounded to whole units.
type Segment struct {
	X1, Y1, X2, Y2 int
}

// Turtle tracks position, heading, and pen state on a fixed canvas and
// records a segment for every move made with the pen down. The vertical
// axis grows downward, so forward at heading 90 decreases y.
type Turtle struct {
	x, y            float64
	heading         float64
	previousHeading float64
	penDown         bool
	segments        []Segment
}

func NewTurtle() *Turtle {
	x, y := origin()
	return &Turtle{
		x:               x,
		y:               y,
		heading:         initialHeading,
		previousHeading: initialHeading,
		penDown:         true,
	}
}

func origin() (float64, float64) {
	return CanvasWidth / 2, CanvasHeight / 2
}

// NormalizeHeading maps any angle in degrees into [0, 360).
func NormalizeHeading(degrees float64) float64 {
	h := math.Mod(math.Mod(degrees, 360)+360, 360)
	if h == 360 {
		return 0
	}
	return h
}

func (t *Turtle) Position() (float64, float64) { return t.x, t.y }

func (t *Turtle) Heading() float64 { return t.heading }

func (t *Turtle) PreviousHeading() float64 { return t.previousHeading }

func (t *Turtle) IsPenDown() bool { return t.penDown }

// Segments returns a copy of the recorded path in drawing order.
func (t *Turtle) Segments() []Segment {
	return append([]Segment(nil), t.segments...)
}

// Move advances the turtle along its heading, or retreats when forward is
// false.
func (t *Turtle) Move(forward bool, length float64) {
	if forward {
		length = -length
	}
	radians := t.heading * (math.Pi / 180)
	t.setPosition(length*math.Cos(radians), length*math.Sin(radians), false)
}

// Turn rotates the turtle; left turns subtract from the heading.
func (t *Turtle) Turn(left bool, degrees float64) {
	t.previousHeading = t.heading
	if left {
		degrees = -degrees
	}
	t.heading = NormalizeHeading(t.heading + degrees)
}

// SetHeading points the turtle at an absolute heading.
func (t *Turtle) SetHeading(degrees float64) {
	h := NormalizeHeading(degrees)
	t.previousHeading = h
	t.heading = h
}

// Home returns to the canvas centre without touching heading or pen.
func (t *Turtle) Home() {
	x, y := origin()
	t.setPosition(x, y, true)
}

// SetXY moves to a position given relative to the canvas centre.
func (t *Turtle) SetXY(x, y float64) {
	ox, oy := origin()
	t.setPosition(ox+x, oy+y, true)
}

func (t *Turtle) PenUp() { t.penDown = false }

func (t *Turtle) PenDown() { t.penDown = true }

func (t *Turtle) setPosition(x, y float64, absolute bool) {
	if !absolute {
		x += t.x
		y += t.y
	}
	if t.penDown {
		t.segments = append(t.segments, Segment{
			X1: round(t.x),
			Y1: round(t.y),
			X2: round(x),
			Y2: round(y),
		})
	}
	t.x, t.y = x, y
}

func round(v float64) int {
	return int(math.Round(v))
}
