package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ilang/lang"
	"github.com/ardnew/ilang/log"
)

// editSourceMsg is sent when editing produced source that parses.
type editSourceMsg struct{ source string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to edit again after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process fails for any other reason.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	contPrompt = "… "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help           Print this cruft
  list           List top-level statements
  source         Print the accumulated source
  query <expr>   List statements matching an expr-lang predicate
  json, yaml     Print the syntax tree as JSON or YAML
  reset          Discard the accumulated source
  edit           Edit the source in $EDITOR
  clear          Clear screen
  quit           Exit REPL

Usage:
  Type source lines; each accepted line prints the statements it produced
  Indentation is significant: indent body lines past their "let"
  An incomplete statement continues on the next line (prompt "…")
  Press Enter on an empty line to give up on an incomplete statement
  Press Tab / Shift-Tab to cycle through completions
  Press Esc to toggle between source and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to browse command history only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keywordStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// Config configures a REPL run.
type Config struct {
	// Source is parsed before the first prompt. It may be nil.
	Source io.Reader
	// Name identifies Source in diagnostics.
	Name string
	// CacheDir holds the history file. Empty disables persistent history.
	CacheDir string
	// Logger receives trace output of the REPL and its parses.
	Logger log.Logger
	// Options are passed to every parse.
	Options []lang.Option
	// Input and Output replace the terminal when set.
	Input  io.Reader
	Output io.Writer
}

// savedInput is the input line of a mode that is not active.
type savedInput struct {
	text   string
	cursor int
}

// altNav is the state restored when Alt+Up/Down navigation runs off the end
// of the command history.
type altNav struct {
	mode  inputMode
	input savedInput
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	session    *Session
	opts       []lang.Option
	logger     log.Logger
	history    *History
	historyIdx int
	matches    fuzzy.Matches // current fuzzy match results
	wordStart  int           // byte offset of current word start
	wordEnd    int           // byte offset of current word end
	suggIdx    int           // selected candidate index
	tabActive  bool          // whether user is tab-cycling
	preTab     savedInput    // input before tab-cycling began
	alt        *altNav       // set during Alt+Up/Down navigation
	width      int           // terminal width for ellipsization
	quitting   bool
	mode       inputMode
	saved      [2]savedInput // per-mode input, indexed by inputMode
}

// Run starts the REPL and blocks until the user quits or ctx is done.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := cfg.Logger

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Bool("has_source", cfg.Source != nil),
	)

	session := NewSession(cfg.Options...)

	if cfg.Source != nil {
		data, err := io.ReadAll(cfg.Source)
		if err != nil {
			return err
		}

		if err := session.Load(ctx, string(data)); err != nil {
			return err
		}

		logger.TraceContext(ctx, "repl source loaded",
			slog.String("source", cfg.Name),
			slog.Int("statement_count", len(session.Main())),
		)
	}

	var historyPath string
	if cfg.CacheDir != "" {
		historyPath = filepath.Join(cfg.CacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.Any("error", err),
		)
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}

	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}

	m := newModel(ctx, session, history, logger, session.opts)

	_, err = tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
	opts []lang.Option,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		opts:       opts,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(evalPrompt)-2, 1)

		return m, nil

	case editSourceMsg:
		if err := m.session.Load(m.ctxFunc(), msg.source); err != nil {
			return m, tea.Println(formatError("", err))
		}

		m.setPrompt()
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("statement_count", len(m.session.Main())),
		)

		return m, tea.Println(resultStyle.Render(
			"✔ source updated: " + english.Plural(len(m.session.Main()), "statement", ""),
		))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("🗴 error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	return b.String()
}

// hintLine renders the line below the input: history position, a usage
// hint, the header of the function being called, or completions.
func (m model) hintLine() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		switch {
		case m.mode == modeCtrl:
			return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") +
				" (press Esc to return)")
		case m.session.Pending():
			return hintStyle.Render("Continue the statement, or press Enter to discard it")
		default:
			return hintStyle.Render("Type a statement or press Esc for commands")
		}
	}

	if len(m.matches) > 0 && (m.tabActive || m.mode == modeCtrl) {
		return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
	}

	if m.mode == modeEval {
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			if f, ok := m.session.Function(call.name); ok {
				return renderSignatureHint(f, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && !m.session.Pending() {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.alt = nil
		m.historyIdx = m.history.Len()

		if m.session.Pending() {
			m.session.Discard()
			m.setPrompt()
		}

		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			m.alt = nil

			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		m.alt = nil
		m.refreshMatches(true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.historyAlt(-1), nil
		}

		return m.historySeek(-1, false), nil

	case tea.KeyDown:
		if msg.Alt {
			return m.historyAlt(1), nil
		}

		return m.historySeek(1, false), nil

	case tea.KeyShiftUp:
		return m.historySeek(-1, true), nil

	case tea.KeyShiftDown:
		return m.historySeek(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTab.text)
			m.input.SetCursor(m.preTab.cursor)
			m.refreshMatches(false)

			return m, nil
		}

		m.alt = nil

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		// Typing accepts the candidate being cycled.
		m.tabActive = false

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refreshMatches(true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows, ...) edits or moves without
	// auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.alt = nil
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping around. A single candidate
// is completed and confirmed immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTab = savedInput{text: m.input.Value(), cursor: m.input.Position()}

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word with replacement and moves the
// cursor after it.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes completions for the current input. With
// autoConfirm set, a word that already equals its only candidate is
// confirmed so the bar disappears. Deletions and cursor movement pass false
// so editing never completes unexpectedly.
func (m *model) refreshMatches(autoConfirm bool) {
	if m.tabActive {
		return
	}

	m.matches, m.wordStart, m.wordEnd = m.computeMatches()
	m.suggIdx = -1

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	raw := strings.TrimRight(m.input.Value(), " \t")
	line := strings.TrimSpace(raw)

	m.input.SetValue("")
	m.saved[m.mode] = savedInput{}
	m.matches = nil

	if m.mode == modeCtrl {
		if line == "" {
			return m, nil
		}

		m.addHistory(line, modeCtrl)
		m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("input", line))

		return m.executeCommand(line)
	}

	ctx := m.ctxFunc()

	if line == "" {
		if !m.session.Pending() {
			return m, nil
		}

		res := m.session.Flush(ctx)
		m.setPrompt()

		return m, m.report(res)
	}

	m.addHistory(raw, modeEval)

	echo := tea.Println(m.echo(raw))
	res := m.session.Submit(ctx, raw)
	m.setPrompt()

	m.logger.TraceContext(ctx, "repl submit",
		slog.String("outcome", res.Outcome.String()),
		slog.Int("statement_count", len(res.Statements)),
	)

	return m, tea.Sequence(echo, m.report(res))
}

// echo formats a submitted source line after the prompt it was typed at.
func (m model) echo(line string) string {
	prompt := evalPrompt
	if m.session.Pending() {
		prompt = contPrompt
	}

	return promptStyle.Render(prompt) + inputStyle.Render(line)
}

// report prints the statements produced by a submission, or its error.
func (m model) report(res Result) tea.Cmd {
	switch res.Outcome {
	case OutcomePending:
		return nil

	case OutcomeFailed:
		return tea.Println(formatError("", res.Err))
	}

	if len(res.Statements) == 0 {
		return nil
	}

	var b strings.Builder
	if err := res.Statements.Print(m.ctxFunc(), &b); err != nil {
		return tea.Println(formatError("", err))
	}

	return tea.Println(resultStyle.Render(strings.TrimRight(b.String(), "\n")))
}

func (m *model) addHistory(line string, mode inputMode) {
	if err := m.history.Add(line, mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	cmd, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl exec command",
		slog.String("command", cmd),
		slog.String("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(listStatements(m.session.Main())))

	case "s", "source":
		return m, tea.Sequence(echo, tea.Println(numberLines(m.session.Source())))

	case "query":
		return m, tea.Sequence(echo, tea.Println(m.query(args)))

	case "json", "yaml":
		return m, tea.Sequence(echo, tea.Println(m.marshal(cmd)))

	case "reset":
		m.session.Reset()
		m.setPrompt()

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("source discarded")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

// query lists the statements matching an expr-lang predicate.
func (m model) query(predicate string) string {
	if predicate == "" {
		return errorStyle.Render("usage: query <expr>")
	}

	q, err := lang.CompileQuery(predicate)
	if err != nil {
		return formatError("", err)
	}

	matches, err := q.Filter(m.session.Main())
	if err != nil {
		return formatError("", err)
	}

	if len(matches) == 0 {
		return hintStyle.Render("no matches")
	}

	return listStatements(matches)
}

// marshal renders the session's syntax tree as JSON or YAML.
func (m model) marshal(format string) string {
	var (
		b   strings.Builder
		err error
	)

	main := m.session.Main()

	if format == "yaml" {
		err = main.FormatYAML(m.ctxFunc(), &b, 2)
	} else {
		err = main.FormatJSON(m.ctxFunc(), &b, 2)
	}

	if err != nil {
		return formatError("", err)
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m model) edit() tea.Cmd {
	cmd := &editSourceCommand{
		ctxFunc: m.ctxFunc,
		source:  m.session.Source(),
		opts:    m.opts,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.newSource == "":
			return editCancelledMsg{}
		default:
			return editSourceMsg{source: cmd.newSource}
		}
	})
}

// historySeek moves through history by dir (-1 older, +1 newer). With
// sameMode set, entries of the other mode are skipped; otherwise the mode
// follows the entry. Moving past the newest entry clears the input.
func (m model) historySeek(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.At(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		m.historyIdx = i

		return m.showEntry(entry)
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches(false)
	}

	return m
}

// historyAlt browses command entries only. The input shown before browsing
// is restored when either end of the history is passed.
func (m model) historyAlt(dir int) model {
	if m.alt == nil {
		m.alt = &altNav{
			mode:  m.mode,
			input: savedInput{text: m.input.Value(), cursor: m.input.Position()},
		}

		if m.mode != modeCtrl {
			m = m.switchToMode(modeCtrl)
		}
	}

	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		if entry, err := m.history.At(i); err == nil && entry.Mode == modeCtrl {
			m.historyIdx = i

			return m.showEntry(entry)
		}
	}

	orig := m.alt
	m.alt = nil

	if orig.mode != m.mode {
		m = m.switchToMode(orig.mode)
	}

	m.input.SetValue(orig.input.text)
	m.input.SetCursor(orig.input.cursor)
	m.historyIdx = m.history.Len()
	m.refreshMatches(false)

	return m
}

func (m model) showEntry(entry HistoryEntry) model {
	if entry.Mode != m.mode {
		m = m.switchToMode(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	m.refreshMatches(false)

	return m
}

// switchToMode activates mode, keeping the input of each mode separately.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode] = savedInput{text: m.input.Value(), cursor: m.input.Position()}
	m.mode = mode
	m.setPrompt()
	m.input.SetValue(m.saved[mode].text)
	m.input.SetCursor(m.saved[mode].cursor)
	m.refreshMatches(false)

	return m
}

// setPrompt selects the prompt for the current mode and pending state.
func (m *model) setPrompt() {
	switch {
	case m.mode == modeCtrl:
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	case m.session.Pending():
		m.input.Prompt = promptStyle.Render(contPrompt)
	default:
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}
}

// formatError renders err for the terminal. Syntax errors show their
// location and the offending source line. A non-empty name prefixes the
// location.
func formatError(name string, err error) string {
	var se *lang.SyntaxError
	if !errors.As(err, &se) {
		return errorStyle.Render("error: " + err.Error())
	}

	loc := se.Position.String()
	if name != "" {
		loc = name + ":" + loc
	}

	out := errorStyle.Render(loc + ": " + se.Summary())

	if snippet := strings.TrimRight(se.Snippet(), "\n"); snippet != "" {
		out += "\n" + hintStyle.Render(snippet)
	}

	return out
}

// listStatements renders one line per statement: its position, kind, and a
// preview.
func listStatements(main lang.Main) string {
	if len(main) == 0 {
		return hintStyle.Render("no statements")
	}

	lines := make([]string, 0, len(main))

	for _, st := range main.Statements() {
		lines = append(lines, fmt.Sprintf("  %-7s %-10s %s",
			st.Position().String(),
			st.Kind.String(),
			hintStyle.Render(statementPreview(st)),
		))
	}

	return strings.Join(lines, "\n")
}

// numberLines prefixes each line of src with its line number.
func numberLines(src string) string {
	if src == "" {
		return hintStyle.Render("no source")
	}

	lines := strings.Split(src, "\n")
	width := len(strconv.Itoa(len(lines)))

	for i, line := range lines {
		lines[i] = hintStyle.Render(fmt.Sprintf("%*d |", width, i+1)) + " " + line
	}

	return strings.Join(lines, "\n")
}
