package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mgomes/logo/logo"
)

const (
	severityError   = 1
	severityWarning = 2

	completionKindFunction = 3
	completionKindKeyword  = 14

	symbolKindFunction = 12
	symbolKindVariable = 13
)

var keywordDocs = map[string]string{
	"to":         "`to name :param ...` starts a procedure definition ending at `end`.",
	"end":        "Closes a procedure definition.",
	"make":       "`make \"name value` sets a global variable.",
	"repeat":     "`repeat n [ ... ]` runs a block n times; `repeat n name` calls a procedure n times.",
	"if":         "`if a op b [ ... ]` runs the block when the comparison (=, !=, >, <) holds.",
	"stop":       "Leaves the current procedure.",
	"output":     "`output value` leaves the current procedure and returns value.",
	"home":       "Moves the turtle back to the centre of the canvas.",
	"setxy":      "`setxy x y` moves to a position relative to the canvas centre. Operands are read greedily, so a negative y needs parentheses: `setxy 10 (-20)`.",
	"setheading": "`setheading degrees` points the turtle at an absolute heading.",
	"seth":       "Short for setheading.",
	"random":     "`random n` is a whole number from 0 up to but not including n.",
	"forward":    "`forward distance` moves ahead, drawing when the pen is down.",
	"fd":         "Short for forward.",
	"back":       "`back distance` moves backwards, drawing when the pen is down.",
	"bk":         "Short for back.",
	"left":       "`left degrees` turns anticlockwise.",
	"lt":         "Short for left.",
	"right":      "`right degrees` turns clockwise.",
	"rt":         "Short for right.",
	"penup":      "Lifts the pen so moves stop drawing.",
	"pu":         "Short for penup.",
	"pendown":    "Lowers the pen so moves draw.",
	"pd":         "Short for pendown.",
}

// lspPosition is zero based; Character counts UTF-16 code units.
type lspPosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type lspRange struct {
	Start lspPosition `json:"start"`
	End   lspPosition `json:"end"`
}

type lspLocation struct {
	URI   string   `json:"uri"`
	Range lspRange `json:"range"`
}

type lspDiagnostic struct {
	Range    lspRange `json:"range"`
	Severity int      `json:"severity"`
	Source   string   `json:"source"`
	Message  string   `json:"message"`
}

type lspCompletionItem struct {
	Label  string `json:"label"`
	Kind   int    `json:"kind"`
	Detail string `json:"detail"`
}

type lspMarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type lspHover struct {
	Contents lspMarkupContent `json:"contents"`
	Range    *lspRange        `json:"range,omitempty"`
}

type lspDocumentSymbol struct {
	Name           string              `json:"name"`
	Detail         string              `json:"detail,omitempty"`
	Kind           int                 `json:"kind"`
	Range          lspRange            `json:"range"`
	SelectionRange lspRange            `json:"selectionRange"`
	Children       []lspDocumentSymbol `json:"children,omitempty"`
}

// lspDocument is one parsed revision of an open file. program is nil when
// the text does not compile; err then holds the compile failure.
type lspDocument struct {
	lines   []string
	program *logo.Program
	err     error
}

func newLSPDocument(text string) *lspDocument {
	doc := &lspDocument{lines: strings.Split(text, "\n")}
	doc.program, doc.err = logo.Parse(text)
	return doc
}

// toLSP converts a source position into protocol coordinates.
func (d *lspDocument) toLSP(pos logo.Position) lspPosition {
	line := max(pos.Line-1, 0)
	if line >= len(d.lines) {
		return lspPosition{Line: line}
	}
	runes := []rune(strings.TrimRight(d.lines[line], "\r"))
	col := min(max(pos.Column-1, 0), len(runes))
	return lspPosition{Line: line, Character: len(utf16.Encode(runes[:col]))}
}

// span is the range covering width runes from pos.
func (d *lspDocument) span(pos logo.Position, width int) lspRange {
	start := d.toLSP(pos)
	end := d.toLSP(logo.Position{Line: pos.Line, Column: pos.Column + max(width, 1)})
	if end.Character == start.Character {
		end.Character++
	}
	return lspRange{Start: start, End: end}
}

// diagnostics reports compile errors, or lint warnings when the text
// compiles.
func (d *lspDocument) diagnostics() []lspDiagnostic {
	out := []lspDiagnostic{}
	if d.err == nil {
		for _, w := range analyzeProgramWarnings(d.program) {
			out = append(out, d.diagnostic(w.Pos, 1, severityWarning, w.Message))
		}
		return out
	}

	var compileErr *logo.CompileError
	if !errors.As(d.err, &compileErr) {
		return append(out, d.diagnostic(logo.Position{}, 1, severityError, d.err.Error()))
	}
	for _, e := range compileErr.Errors {
		var lexErr *logo.LexError
		var parseErr *logo.ParseError
		switch {
		case errors.As(e, &lexErr):
			out = append(out, d.diagnostic(lexErr.Pos, utf8.RuneCountInString(lexErr.Text), severityError,
				fmt.Sprintf("unexpected input %q", lexErr.Text)))
		case errors.As(e, &parseErr):
			out = append(out, d.diagnostic(parseErr.Pos, utf8.RuneCountInString(parseErr.Token.Literal), severityError,
				parseErr.Message))
		default:
			out = append(out, d.diagnostic(logo.Position{}, 1, severityError, e.Error()))
		}
	}
	return out
}

func (d *lspDocument) diagnostic(pos logo.Position, width, severity int, message string) lspDiagnostic {
	return lspDiagnostic{
		Range:    d.span(pos, width),
		Severity: severity,
		Source:   "logo-lsp",
		Message:  message,
	}
}

// procedures maps every procedure defined anywhere in the document to its
// first definition.
func (d *lspDocument) procedures() map[string]*logo.ProcedureStmt {
	procs := make(map[string]*logo.ProcedureStmt)
	if d.program == nil {
		return procs
	}
	var walk func([]logo.Statement)
	walk = func(stmts []logo.Statement) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *logo.ProcedureStmt:
				if _, seen := procs[s.Name]; !seen {
					procs[s.Name] = s
				}
				walk(s.Body)
			case *logo.RepeatStmt:
				walk(s.Body)
			case *logo.IfStmt:
				walk(s.Body)
			}
		}
	}
	walk(d.program.Statements)
	return procs
}

func procedureSignature(def *logo.ProcedureStmt) string {
	parts := []string{def.Name}
	for _, p := range def.Params {
		parts = append(parts, ":"+p)
	}
	return strings.Join(parts, " ")
}

func (d *lspDocument) completionItems() []lspCompletionItem {
	procs := d.procedures()
	items := make([]lspCompletionItem, 0, len(keywordDocs)+len(procs))
	for _, kw := range logo.Keywords() {
		items = append(items, lspCompletionItem{Label: kw, Kind: completionKindKeyword, Detail: "keyword"})
	}
	for name, def := range procs {
		items = append(items, lspCompletionItem{Label: name, Kind: completionKindFunction, Detail: procedureSignature(def)})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

func (d *lspDocument) hover(at lspPosition) (lspHover, bool) {
	word, rng := d.wordAt(at)
	if word == "" {
		return lspHover{}, false
	}

	var text string
	if doc, ok := keywordDocs[word]; ok {
		text = fmt.Sprintf("`%s` keyword\n\n%s", word, doc)
	} else if def, ok := d.procedures()[word]; ok {
		text = fmt.Sprintf("`%s`\n\nprocedure defined at line %d", procedureSignature(def), def.Pos().Line)
	} else {
		text = fmt.Sprintf("`%s`\n\nLogo symbol", word)
	}
	return lspHover{Contents: lspMarkupContent{Kind: "markdown", Value: text}, Range: &rng}, true
}

// definition locates the name of the procedure under the cursor.
func (d *lspDocument) definition(at lspPosition) (lspRange, bool) {
	word, _ := d.wordAt(at)
	def, ok := d.procedures()[word]
	if !ok {
		return lspRange{}, false
	}
	return d.span(def.NamePos, utf8.RuneCountInString(def.Name)), true
}

// symbols lists procedures, with their nested definitions as children,
// and the global variables the top level assigns.
func (d *lspDocument) symbols() []lspDocumentSymbol {
	out := []lspDocumentSymbol{}
	if d.program == nil {
		return out
	}
	seenVars := make(map[string]bool)
	var collect func([]logo.Statement, bool) []lspDocumentSymbol
	collect = func(stmts []logo.Statement, top bool) []lspDocumentSymbol {
		var syms []lspDocumentSymbol
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *logo.ProcedureStmt:
				name := d.span(s.NamePos, utf8.RuneCountInString(s.Name))
				syms = append(syms, lspDocumentSymbol{
					Name:           s.Name,
					Detail:         procedureSignature(s),
					Kind:           symbolKindFunction,
					Range:          lspRange{Start: d.toLSP(s.Pos()), End: name.End},
					SelectionRange: name,
					Children:       collect(s.Body, false),
				})
			case *logo.MakeStmt:
				if top && !seenVars[s.Name] {
					seenVars[s.Name] = true
					rng := d.span(s.Pos(), len("make"))
					syms = append(syms, lspDocumentSymbol{
						Name:           `"` + s.Name,
						Kind:           symbolKindVariable,
						Range:          rng,
						SelectionRange: rng,
					})
				}
			case *logo.RepeatStmt:
				syms = append(syms, collect(s.Body, top)...)
			case *logo.IfStmt:
				syms = append(syms, collect(s.Body, top)...)
			}
		}
		return syms
	}
	return append(out, collect(d.program.Statements, true)...)
}

// wordAt returns the identifier touching the cursor and its range.
func (d *lspDocument) wordAt(at lspPosition) (string, lspRange) {
	if at.Line < 0 || at.Line >= len(d.lines) {
		return "", lspRange{}
	}
	runes := []rune(strings.TrimRight(d.lines[at.Line], "\r"))
	if len(runes) == 0 {
		return "", lspRange{}
	}

	cursor := runeIndexForUTF16(runes, max(at.Character, 0))
	if cursor == len(runes) || !isWordRune(runes[cursor]) {
		if cursor == 0 || !isWordRune(runes[cursor-1]) {
			return "", lspRange{}
		}
		cursor--
	}

	start, end := cursor, cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	rng := lspRange{
		Start: lspPosition{Line: at.Line, Character: len(utf16.Encode(runes[:start]))},
		End:   lspPosition{Line: at.Line, Character: len(utf16.Encode(runes[:end]))},
	}
	return string(runes[start:end]), rng
}

func runeIndexForUTF16(runes []rune, units int) int {
	seen := 0
	for i, r := range runes {
		if seen >= units {
			return i
		}
		seen += utf16.RuneLen(r)
	}
	return len(runes)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
