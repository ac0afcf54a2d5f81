package repl

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ilang/lang"
	"github.com/ardnew/ilang/log"
)

// zeroLogger discards everything.
var zeroLogger log.Logger

func testModel(t *testing.T) model {
	t.Helper()

	return newModel(context.Background(), NewSession(), NewHistory(""), zeroLogger, nil)
}

func typeLine(m model, line string) model {
	m.input.SetValue(line)
	m.input.SetCursor(len(line))

	return m
}

func TestModel_EnterSubmitsSource(t *testing.T) {
	m := testModel(t)

	m = typeLine(m, "let f (a,")
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})

	if !m.session.Pending() {
		t.Fatal("session not pending after open parameter list")
	}

	if !strings.Contains(m.input.Prompt, contPrompt) {
		t.Errorf("prompt = %q, want continuation prompt", m.input.Prompt)
	}

	m = typeLine(m, "  b) =")
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})

	if m.session.Pending() {
		t.Fatal("session still pending after closing parameter list")
	}

	if f, ok := m.session.Function("f"); !ok || len(f.ParameterList.List) != 2 {
		t.Errorf("Function(f) = %+v, %v", f, ok)
	}

	if got := m.history.Len(); got != 2 {
		t.Errorf("history length = %d, want 2", got)
	}
}

func TestModel_CtrlCDiscardsPending(t *testing.T) {
	m := testModel(t)

	m = typeLine(m, "module")
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})

	if !m.session.Pending() {
		t.Fatal("session not pending after bare module keyword")
	}

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.session.Pending() {
		t.Error("Ctrl+C left input pending")
	}

	if m.quitting || cmd != nil {
		t.Error("Ctrl+C with pending input quit the REPL")
	}

	m, cmd = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.quitting || cmd == nil {
		t.Error("Ctrl+C on an empty line did not quit")
	}
}

func TestModel_EscTogglesModeAndKeepsInput(t *testing.T) {
	m := testModel(t)

	m = typeLine(m, "let x")
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after Esc mode = %v input = %q, want ctrl mode with empty input",
			m.mode, m.input.Value())
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeEval || m.input.Value() != "let x" {
		t.Errorf("after second Esc mode = %v input = %q, want eval mode with %q",
			m.mode, m.input.Value(), "let x")
	}
}

func TestModel_ResetCommand(t *testing.T) {
	m := testModel(t)

	if err := m.session.Load(context.Background(), "module a\nlet x = 1"); err != nil {
		t.Fatal(err)
	}

	m = m.switchToMode(modeCtrl)
	m = typeLine(m, "reset")
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})

	if got := len(m.session.Main()); got != 0 {
		t.Errorf("statements after reset = %d, want 0", got)
	}

	if entry, err := m.history.At(0); err != nil || entry.Mode != modeCtrl {
		t.Errorf("history[0] = %+v, %v, want ctrl entry", entry, err)
	}
}

func TestModel_HistorySeekSwitchesMode(t *testing.T) {
	m := testModel(t)

	for _, e := range []HistoryEntry{
		{Line: "let x = 1", Mode: modeEval},
		{Line: "list", Mode: modeCtrl},
	} {
		if err := m.history.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	m = m.historySeek(-1, false)
	if m.mode != modeCtrl || m.input.Value() != "list" {
		t.Fatalf("Up: mode = %v input = %q", m.mode, m.input.Value())
	}

	m = m.historySeek(-1, false)
	if m.mode != modeEval || m.input.Value() != "let x = 1" {
		t.Fatalf("Up Up: mode = %v input = %q", m.mode, m.input.Value())
	}

	m = m.historySeek(-1, true)
	if m.input.Value() != "let x = 1" || m.historyIdx != 0 {
		t.Errorf("Shift+Up at oldest moved to %d (%q)", m.historyIdx, m.input.Value())
	}
}

func TestModel_TabCyclesCandidates(t *testing.T) {
	m := testModel(t)

	if err := m.session.Load(context.Background(), "let total = 1\nlet tally = 2"); err != nil {
		t.Fatal(err)
	}

	m = typeLine(m, "t")
	m.refreshMatches(false)

	if len(m.matches) < 2 {
		t.Fatalf("matches for %q = %d, want at least 2", "t", len(m.matches))
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	first := m.input.Value()

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	second := m.input.Value()

	if first == second {
		t.Errorf("Tab did not advance: %q then %q", first, second)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.input.Value() != "t" || m.mode != modeEval {
		t.Errorf("Esc during cycling left input %q in mode %v, want %q", m.input.Value(), m.mode, "t")
	}
}

func TestFormatError(t *testing.T) {
	_, err := lang.ParseString(context.Background(), "let = 1")
	if err == nil {
		t.Fatal("ParseString succeeded, want error")
	}

	got := formatError("demo.il", err)
	if !strings.Contains(got, "demo.il:1:") {
		t.Errorf("formatError() = %q, want location prefix", got)
	}

	got = formatError("", errors.New("boom"))
	if !strings.Contains(got, "error: boom") {
		t.Errorf("formatError(plain) = %q", got)
	}
}

func TestNumberLines(t *testing.T) {
	got := numberLines("a\nb")
	if !strings.Contains(got, "1 |") || !strings.Contains(got, "2 |") {
		t.Errorf("numberLines() = %q", got)
	}

	if got := numberLines(""); !strings.Contains(got, "no source") {
		t.Errorf("numberLines(empty) = %q", got)
	}
}
