package logo

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// formatCodeFrame quotes the source line holding pos and underlines width
// runes from pos.Column. Positions outside source yield "".
func formatCodeFrame(source string, pos Position, width int) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lineStart, line := 0, 1
	for line < pos.Line {
		next := strings.IndexByte(source[lineStart:], '\n')
		if next < 0 {
			return ""
		}
		lineStart += next + 1
		line++
	}
	text := source[lineStart:]
	if end := strings.IndexByte(text, '\n'); end >= 0 {
		text = text[:end]
	}
	text = strings.TrimRight(text, "\r")

	runes := utf8.RuneCountInString(text)
	column := min(max(pos.Column, 1), runes+1)
	width = min(max(width, 1), max(runes-column+1, 1))

	gutter := strconv.Itoa(pos.Line)
	var b strings.Builder
	fmt.Fprintf(&b, "  --> line %d, column %d\n", pos.Line, column)
	fmt.Fprintf(&b, " %s | %s\n", gutter, text)
	fmt.Fprintf(&b, " %s | %s%s", strings.Repeat(" ", len(gutter)),
		strings.Repeat(" ", column-1), strings.Repeat("^", width))
	return b.String()
}

func tokenLabel(tt TokenType) string {
	switch tt {
	case tokenIllegal:
		return "invalid token"
	case tokenEOF:
		return "end of input"
	case tokenNumber:
		return "number"
	case tokenVar:
		return "variable"
	case tokenParam:
		return "parameter"
	case tokenIdent:
		return "identifier"
	}
	if tt.Is(CategoryKeyword) {
		return "'" + strings.ToLower(string(tt)) + "'"
	}
	return fmt.Sprintf("%q", string(tt))
}
