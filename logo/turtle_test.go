package logo

import (
	"math"
	"testing"
)

func TestNormalizeHeading(t *testing.T) {
	cases := map[float64]float64{
		0:    0,
		90:   90,
		360:  0,
		450:  90,
		-90:  270,
		-360: 0,
		-721: 359,
		720:  0,
	}
	for in, want := range cases {
		if got := NormalizeHeading(in); got != want {
			t.Fatalf("NormalizeHeading(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestNormalizeHeadingRangeAndPeriod(t *testing.T) {
	for d := -1080; d <= 1080; d += 7 {
		got := NormalizeHeading(float64(d))
		if got < 0 || got >= 360 {
			t.Fatalf("NormalizeHeading(%d) = %v out of range", d, got)
		}
		if again := NormalizeHeading(float64(d + 360)); again != got {
			t.Fatalf("NormalizeHeading(%d+360) = %v, want %v", d, again, got)
		}
	}
	if got := NormalizeHeading(-1e-20); got < 0 || got >= 360 {
		t.Fatalf("tiny negative heading normalized out of range: %v", got)
	}
}

func TestTurtleStartsAtCentreFacingUp(t *testing.T) {
	turtle := NewTurtle()
	x, y := turtle.Position()
	if x != 500 || y != 500 {
		t.Fatalf("expected (500,500), got (%v,%v)", x, y)
	}
	if turtle.Heading() != 90 || turtle.PreviousHeading() != 90 {
		t.Fatalf("expected heading 90, got %v/%v", turtle.Heading(), turtle.PreviousHeading())
	}
	if !turtle.IsPenDown() || len(turtle.Segments()) != 0 {
		t.Fatalf("expected pen down and no segments")
	}
}

func TestTurtleMoveForwardAndBack(t *testing.T) {
	turtle := NewTurtle()
	turtle.Move(true, 100)
	segs := turtle.Segments()
	if len(segs) != 1 || segs[0] != (Segment{X1: 500, Y1: 500, X2: 500, Y2: 400}) {
		t.Fatalf("unexpected forward segment %+v", segs)
	}
	turtle.Move(false, 50)
	segs = turtle.Segments()
	if segs[1] != (Segment{X1: 500, Y1: 400, X2: 500, Y2: 450}) {
		t.Fatalf("unexpected back segment %+v", segs[1])
	}
}

func TestTurtleTurn(t *testing.T) {
	turtle := NewTurtle()
	turtle.Turn(false, 90)
	if turtle.Heading() != 180 || turtle.PreviousHeading() != 90 {
		t.Fatalf("right 90: heading %v previous %v", turtle.Heading(), turtle.PreviousHeading())
	}
	turtle.Turn(true, 270)
	if turtle.Heading() != 270 || turtle.PreviousHeading() != 180 {
		t.Fatalf("left 270: heading %v previous %v", turtle.Heading(), turtle.PreviousHeading())
	}
	turtle.Move(true, 10)
	x, y := turtle.Position()
	if math.Abs(x-500) > 1e-9 || math.Abs(y-510) > 1e-9 {
		t.Fatalf("forward at 270 should move down, got (%v,%v)", x, y)
	}
}

func TestTurtleSetHeadingUpdatesBothHeadings(t *testing.T) {
	turtle := NewTurtle()
	turtle.Turn(false, 10)
	turtle.SetHeading(-45)
	if turtle.Heading() != 315 || turtle.PreviousHeading() != 315 {
		t.Fatalf("unexpected headings %v/%v", turtle.Heading(), turtle.PreviousHeading())
	}
}

func TestTurtlePenUpSkipsSegments(t *testing.T) {
	turtle := NewTurtle()
	turtle.PenUp()
	turtle.Move(true, 100)
	turtle.PenDown()
	turtle.Move(true, 50)
	segs := turtle.Segments()
	if len(segs) != 1 || segs[0] != (Segment{X1: 500, Y1: 400, X2: 500, Y2: 350}) {
		t.Fatalf("unexpected segments %+v", segs)
	}
}

func TestTurtleSetXYAndHome(t *testing.T) {
	turtle := NewTurtle()
	turtle.Turn(false, 45)
	turtle.SetXY(-50, 25)
	turtle.Home()
	segs := turtle.Segments()
	want := []Segment{
		{X1: 500, Y1: 500, X2: 450, Y2: 525},
		{X1: 450, Y1: 525, X2: 500, Y2: 500},
	}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %+v", len(want), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Fatalf("segment %d: got %+v want %+v", i, segs[i], want[i])
		}
	}
	if turtle.Heading() != 135 {
		t.Fatalf("home and setxy must not change heading, got %v", turtle.Heading())
	}
}

func TestTurtleRoundsEndpoints(t *testing.T) {
	turtle := NewTurtle()
	turtle.SetXY(0.4, -0.6)
	turtle.Move(false, 0.2)
	segs := turtle.Segments()
	if segs[0] != (Segment{X1: 500, Y1: 500, X2: 500, Y2: 499}) {
		t.Fatalf("unexpected rounding %+v", segs[0])
	}
	if segs[1].X1 != 500 || segs[1].Y1 != 499 {
		t.Fatalf("segment should start from rounded position, got %+v", segs[1])
	}
}
