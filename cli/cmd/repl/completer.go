package repl

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ilang/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "list", "source", "query", "json", "yaml",
	"reset", "edit", "clear", "quit",
}

// isWordRune reports whether r continues a completable word. Dots are
// included so dotted names complete as a whole.
func isWordRune(r rune) bool { return lang.IsAlphanumeric(r) || r == '.' }

// wordBounds returns the word at the cursor position and its byte boundaries
// within input. The word is empty when the cursor sits between two
// non-word characters.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidates returns the completions offered in eval mode: the names bound
// by the session followed by the keywords.
func candidates(s *Session) []string {
	names := s.Names()

	for _, kw := range lang.Keywords() {
		if !slices.Contains(names, kw) {
			names = append(names, kw)
		}
	}

	return names
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, ranked best first. An empty word has no matches, which leaves the
// hint line visible. Control commands only complete in the first word.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, start, end := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, start, end
	}

	var list []string

	if m.mode == modeCtrl {
		if strings.TrimSpace(input[:start]) != "" {
			return nil, start, end
		}

		list = ctrlCommands
	} else {
		list = candidates(m.session)
	}

	return fuzzy.Find(word, list), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate is highlighted while tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted. Keywords are dimmed to set them apart from bound names.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle

	switch {
	case selected:
		base, highlight = selectedStyle, selectedMatchStyle

	case isKeyword(match.Str):
		base = keywordStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}

// maxPreview is the widest statement preview printed by the list command.
const maxPreview = 48

// statementPreview summarizes a top-level statement on one line.
func statementPreview(st *lang.MainStatement) string {
	var preview string

	switch st.Kind {
	case lang.MainNamespace:
		preview = "namespace " + lang.JoinIdents(st.Namespace.Name, ".")

	case lang.MainModule:
		name := lang.JoinIdents(st.Module.ModuleName, ".")
		if st.Module.Accessibility != nil {
			name = st.Module.Accessibility.String() + " " + name
		}

		preview = "module " + name

	case lang.MainFunction:
		head, params, tail := signature(st.Function)
		preview = head + " " + strings.Join(params, " ") + tail +
			fmt.Sprintf(" [%d]", len(st.Function.FunctionBody))

	case lang.MainLetBinding:
		preview = "let " + strings.Join(st.LetBinding.Names(), " ") +
			fmt.Sprintf(" [%d]", len(st.LetBinding.FunctionBody))
	}

	if utf8.RuneCountInString(preview) > maxPreview {
		runes := []rune(preview)
		preview = string(runes[:maxPreview-3]) + "..."
	}

	return preview
}
