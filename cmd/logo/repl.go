package main

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mgomes/logo/logo"
)

const (
	replPrompt         = "logo> "
	replContinuePrompt = "  ... "
	canvasCols         = 48
	canvasRows         = 24
)

var (
	inkColor    = lipgloss.Color("#22C55E")
	shellColor  = lipgloss.Color("#0EA5E9")
	faultColor  = lipgloss.Color("#EF4444")
	dimColor    = lipgloss.Color("#6B7280")
	markerColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().Foreground(shellColor).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(inkColor)
	faultStyle  = lipgloss.NewStyle().Foreground(faultColor)
	dimStyle    = lipgloss.NewStyle().Foreground(dimColor)
	markStyle   = lipgloss.NewStyle().Foreground(markerColor)
	titleStyle  = lipgloss.NewStyle().Foreground(shellColor).Bold(true).Padding(0, 1)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(shellColor).
			Padding(0, 1)
)

type transcriptLine struct {
	input  string
	output string
	isErr  bool
}

type replKeys struct {
	Prev     key.Binding
	Next     key.Binding
	Submit   key.Binding
	Cancel   key.Binding
	Quit     key.Binding
	Clear    key.Binding
	Complete key.Binding
	Vars     key.Binding
	Help     key.Binding
	Canvas   key.Binding
}

var keys = replKeys{
	Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous input")),
	Next:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next input")),
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "drop unfinished input")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
	Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
	Vars:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "vars")),
	Help:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
	Canvas:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "canvas")),
}

// replModel runs each submitted program against one long-lived session.
// Input with unclosed brackets or an unfinished `to` is held in pending
// until the closing line arrives.
type replModel struct {
	textInput  textinput.Model
	session    *logo.Session
	transcript []transcriptLine
	inputs     []string
	recall     int
	pending    []string
	width      int
	height     int
	showHelp   bool
	showVars   bool
	showCanvas bool
	quitting   bool
	ready      bool
}

func newREPLModel() replModel {
	ti := textinput.New()
	ti.Placeholder = "repeat 4 [fd 50 rt 90]"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = replPrompt

	return replModel{
		textInput: ti,
		session:   logo.MustNewEngine(logo.Config{}).NewSession(),
		recall:    -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textInput.Width = msg.Width - 10
		m.ready = true
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Clear):
			m.transcript = nil
			return m, nil
		case key.Matches(msg, keys.Vars):
			m.showVars = !m.showVars
			return m, nil
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, keys.Canvas):
			m.showCanvas = !m.showCanvas
			return m, nil
		case key.Matches(msg, keys.Cancel):
			m = m.dropPending()
			return m, nil
		case key.Matches(msg, keys.Prev):
			return m.recallInput(-1), nil
		case key.Matches(msg, keys.Next):
			return m.recallInput(1), nil
		case key.Matches(msg, keys.Complete):
			return m.handleAutocomplete(), nil
		case key.Matches(msg, keys.Submit):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// submit handles one entered line: a colon command, a continuation of
// pending input, or a complete program to run.
func (m replModel) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.textInput.Value())
	m.textInput.SetValue("")
	m.recall = -1

	if len(m.pending) == 0 {
		if line == "" {
			return m, nil
		}
		if strings.HasPrefix(line, ":") {
			return m.handleCommand(line)
		}
	}

	m.pending = append(m.pending, line)
	source := strings.Join(m.pending, "\n")
	if openDepth(source) > 0 {
		m.textInput.Prompt = replContinuePrompt
		return m, nil
	}

	m.pending = nil
	m.textInput.Prompt = replPrompt
	output, isErr := m.evaluate(source)
	m.transcript = append(m.transcript, transcriptLine{input: source, output: output, isErr: isErr})
	m.inputs = append(m.inputs, source)
	return m, nil
}

func (m replModel) dropPending() replModel {
	if len(m.pending) == 0 {
		return m
	}
	m.pending = nil
	m.textInput.Prompt = replPrompt
	m.textInput.SetValue("")
	return m
}

func (m replModel) recallInput(step int) replModel {
	if len(m.inputs) == 0 {
		return m
	}
	switch {
	case m.recall == -1 && step < 0:
		m.recall = len(m.inputs) - 1
	case m.recall == -1:
		return m
	default:
		m.recall += step
	}
	if m.recall < 0 {
		m.recall = 0
	}
	if m.recall >= len(m.inputs) {
		m.recall = -1
		m.textInput.SetValue("")
		return m
	}
	m.textInput.SetValue(strings.ReplaceAll(m.inputs[m.recall], "\n", " "))
	m.textInput.CursorEnd()
	return m
}

// openDepth counts the brackets and procedure bodies source leaves open.
// Lex errors are ignored so the parser can report them once input ends.
func openDepth(source string) int {
	tokens, _ := logo.Tokenize(source)
	depth := 0
	for _, tok := range tokens {
		depth += tok.Type.Nesting()
	}
	return depth
}

func (m replModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	note := func(output string, isErr bool) {
		m.transcript = append(m.transcript, transcriptLine{input: input, output: output, isErr: isErr})
	}

	switch fields[0] {
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":canvas", ":g":
		m.showCanvas = !m.showCanvas
	case ":clear", ":c":
		m.transcript = nil
	case ":reset", ":r":
		m.session.Reset()
		note("session reset", false)
	case ":save", ":s":
		path := defaultOutput
		if len(fields) > 1 {
			path = fields[1]
		}
		img := m.session.Image()
		if err := writeImage(path, img); err != nil {
			note(err.Error(), true)
		} else {
			note(fmt.Sprintf("saved %d segments to %s", len(img.Segments), path), false)
		}
	default:
		note(fmt.Sprintf("unknown command %s (try :help)", fields[0]), true)
	}
	return m, nil
}

// completionCandidates returns keywords and defined procedures starting
// with prefix, or failing that the fuzzy matches ranked closest first.
func (m replModel) completionCandidates(prefix string) []string {
	words := append(logo.Keywords(), m.session.Environment().ProcedureNames()...)

	var matches []string
	for _, w := range words {
		if strings.HasPrefix(w, prefix) && !slices.Contains(matches, w) {
			matches = append(matches, w)
		}
	}
	if len(matches) > 0 {
		sort.Strings(matches)
		return matches
	}

	ranks := fuzzy.RankFindFold(prefix, words)
	sort.Sort(ranks)
	for _, r := range ranks {
		if !slices.Contains(matches, r.Target) {
			matches = append(matches, r.Target)
		}
	}
	return matches
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	if strings.TrimSpace(input) == "" || strings.HasSuffix(input, " ") {
		return m
	}

	fields := strings.Fields(input)
	word := strings.TrimLeft(fields[len(fields)-1], "[(")
	if word == "" {
		return m
	}

	switch candidates := m.completionCandidates(word); len(candidates) {
	case 0:
	case 1:
		m.textInput.SetValue(strings.TrimSuffix(input, word) + candidates[0])
		m.textInput.CursorEnd()
	default:
		m.transcript = append(m.transcript, transcriptLine{
			output: "completions: " + strings.Join(candidates, ", "),
		})
	}
	return m
}

// evaluate runs source against the session and describes what changed.
func (m replModel) evaluate(source string) (string, bool) {
	turtle := m.session.Turtle()
	drawnBefore := len(turtle.Segments())
	known := m.session.Environment().ProcedureNames()

	err := m.session.Exec(context.Background(), source)
	drawn := len(turtle.Segments()) - drawnBefore
	if err != nil {
		msg := err.Error()
		if drawn > 0 {
			msg += fmt.Sprintf("\n(%d segments drawn before the error)", drawn)
		}
		return msg, true
	}

	var notes []string
	for _, name := range m.session.Environment().ProcedureNames() {
		if !slices.Contains(known, name) {
			notes = append(notes, "defined "+name)
		}
	}
	if drawn > 0 {
		notes = append(notes, fmt.Sprintf("drew %d segments", drawn))
	}
	x, y := turtle.Position()
	ox, oy := float64(logo.CanvasWidth)/2, float64(logo.CanvasHeight)/2
	notes = append(notes, fmt.Sprintf("turtle at %s, %s heading %s",
		trimFloat(x-ox), trimFloat(y-oy), trimFloat(turtle.Heading())))
	return strings.Join(notes, ", "), false
}

func trimFloat(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return fmt.Sprintf("%g", r)
}

func (m replModel) View() string {
	if m.quitting {
		return dimStyle.Render("bye\n")
	}
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	pen := "pen down"
	if !m.session.Turtle().IsPenDown() {
		pen = "pen up"
	}
	b.WriteString(titleStyle.Render("logo"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d segments, %s", len(m.session.Turtle().Segments()), pen)))
	b.WriteString("\n\n")

	var panels []string
	if m.showCanvas {
		panels = append(panels, renderCanvasPanel(m.session.Image(), canvasCols, canvasRows))
	}
	if m.showVars {
		panels = append(panels, renderVarsPanel(m.session.Environment()))
	}
	if m.showHelp {
		panels = append(panels, renderHelpPanel())
	}
	panelBlock := lipgloss.JoinHorizontal(lipgloss.Top, panels...)

	budget := max(m.height-6-lipgloss.Height(panelBlock)-len(m.pending), 0)
	lines := m.transcriptLines()
	if len(lines) > budget {
		lines = lines[len(lines)-budget:]
	}
	for _, line := range lines {
		b.WriteString(line + "\n")
	}

	if len(panels) > 0 {
		b.WriteString(panelBlock + "\n")
	}
	for _, line := range m.pending {
		b.WriteString(dimStyle.Render(replContinuePrompt) + line + "\n")
	}
	b.WriteString(m.textInput.View() + "\n\n")

	hints := []key.Binding{keys.Help, keys.Vars, keys.Canvas, keys.Clear, keys.Quit}
	var footer []string
	for _, h := range hints {
		footer = append(footer, markStyle.Render(h.Help().Key)+dimStyle.Render(" "+h.Help().Desc))
	}
	b.WriteString(strings.Join(footer, "  "))
	return b.String()
}

func (m replModel) transcriptLines() []string {
	var lines []string
	for _, entry := range m.transcript {
		for i, in := range strings.Split(entry.input, "\n") {
			if entry.input == "" {
				break
			}
			lead := "  › "
			if i > 0 {
				lead = "    "
			}
			lines = append(lines, dimStyle.Render(lead)+in)
		}
		style, mark := okStyle, "→ "
		if entry.isErr {
			style, mark = faultStyle, "✗ "
		}
		for _, out := range strings.Split(entry.output, "\n") {
			lines = append(lines, "  "+style.Render(mark+out))
			mark = "  "
		}
	}
	return lines
}

// renderCanvas scales the drawing onto a cols by rows character grid and
// plots every segment with one sample per cell it crosses.
func renderCanvas(img *logo.Image, cols, rows int) []string {
	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols))
	}
	sx := float64(cols-1) / float64(img.Width)
	sy := float64(rows-1) / float64(img.Height)
	plot := func(x, y float64) {
		c, r := int(math.Round(x*sx)), int(math.Round(y*sy))
		if c >= 0 && c < cols && r >= 0 && r < rows {
			grid[r][c] = '•'
		}
	}

	for _, seg := range img.Segments {
		x1, y1 := float64(seg.X1), float64(seg.Y1)
		dx, dy := float64(seg.X2)-x1, float64(seg.Y2)-y1
		steps := int(math.Max(math.Abs(dx*sx), math.Abs(dy*sy))) + 1
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			plot(x1+dx*t, y1+dy*t)
		}
	}

	out := make([]string, rows)
	for r, row := range grid {
		out[r] = string(row)
	}
	return out
}

func renderCanvasPanel(img *logo.Image, cols, rows int) string {
	if len(img.Segments) == 0 {
		return panelStyle.Render(dimStyle.Render("nothing drawn yet"))
	}
	return panelStyle.Render(okStyle.Render(strings.Join(renderCanvas(img, cols, rows), "\n")))
}

func renderVarsPanel(env *logo.Environment) string {
	vars := env.Variables()
	procs := env.ProcedureNames()
	if len(vars) == 0 && len(procs) == 0 {
		return panelStyle.Render(dimStyle.Render("no variables or procedures"))
	}

	heading := lipgloss.NewStyle().Bold(true).Foreground(shellColor)
	lines := []string{heading.Render("variables")}
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		lines = append(lines, fmt.Sprintf("  %s %g", markStyle.Render(`"`+name), vars[name]))
	}
	lines = append(lines, heading.Render("procedures"))
	for _, name := range procs {
		proc, _ := env.Procedure(name)
		sig := []string{name}
		for _, p := range proc.Params {
			sig = append(sig, ":"+p)
		}
		lines = append(lines, "  "+markStyle.Render(strings.Join(sig, " ")))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	rows := [][2]string{
		{":help", "toggle this panel"},
		{":vars", "toggle variables and procedures"},
		{":canvas", "toggle the drawing preview"},
		{":clear", "clear the transcript"},
		{":reset", "forget definitions, clear the canvas"},
		{":save [path]", "write the drawing as SVG"},
		{":quit", "leave"},
		{"tab", "complete keywords and procedures"},
		{"esc", "drop an unfinished multi-line entry"},
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(shellColor).Render("help")}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("  %s  %s", markStyle.Render(fmt.Sprintf("%-12s", row[0])), dimStyle.Render(row[1])))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func runREPL() error {
	_, err := tea.NewProgram(newREPLModel(), tea.WithAltScreen()).Run()
	return err
}
