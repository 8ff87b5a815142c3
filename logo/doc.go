// Package logo implements a small Logo turtle-graphics interpreter. Programs
// are compiled in full before anything runs, then evaluated against a turtle
// whose pen strokes become an SVG drawing. The language supports:
//   - Movement and turning: forward/fd, back/bk, left/lt, right/rt,
//     setheading/seth, home, setxy, penup/pu and pendown/pd.
//   - Global variables set with `make "name expr` and read as `"name`.
//   - Procedures via `to name :param ... end`, with parameters read as
//     `:param` and results returned through `output`; `stop` leaves early.
//   - `repeat n [ ... ]`, `repeat n procedure`, and `if a op b [ ... ]` with
//     =, !=, > and <.
//   - Arithmetic with + - * /, unary minus, parentheses, and `random n`.
//
// `setxy` reads each of its two operands greedily, so `setxy 10 -20` parses
// as the single operand `10 - 20`. Write a negative second operand in
// parentheses: `setxy 10 (-20)`.
//
// Comments begin with `;` and run to the end of the line. Runs are
// unbounded unless Config sets a step quota or recursion limit; the
// caller's context can cancel them.
package logo
