package tui

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"docsmith/internal/catalog"
	"docsmith/internal/session"
)

// InterviewModel drives the question-and-answer loop for one session.
type InterviewModel struct {
	controller *session.Controller
	input      textinput.Model

	current  *catalog.Question
	cursor   int // highlighted option for choice questions
	errMsg   string
	done     bool
	quitting bool

	// OnAnswer is called after each accepted answer with the number of
	// questions the answer revealed. Used for usage tracking.
	OnAnswer func(revealed int)
}

// NewInterview builds the interview model for a controller.
func NewInterview(controller *session.Controller) *InterviewModel {
	input := textinput.New()
	input.Placeholder = "your answer"
	input.Focus()
	input.CharLimit = 512

	m := &InterviewModel{
		controller: controller,
		input:      input,
	}
	m.advance()
	return m
}

// Done reports whether the interview ran out of questions.
func (m *InterviewModel) Done() bool { return m.done }

// advance moves to the next unanswered question, walking stages in
// catalog order.
func (m *InterviewModel) advance() {
	for _, stage := range m.controller.Stages() {
		if q := m.controller.Next(stage); q != nil {
			m.current = q
			m.cursor = 0
			m.input.SetValue("")
			m.input.Placeholder = placeholderFor(q)
			return
		}
	}
	m.current = nil
	m.done = true
}

func placeholderFor(q *catalog.Question) string {
	switch q.Kind {
	case catalog.InputBool:
		return "yes / no"
	case catalog.InputNumber:
		return "a number"
	case catalog.InputMulti:
		return "comma-separated values"
	default:
		return "your answer"
	}
}

func (m *InterviewModel) Init() tea.Cmd {
	return textinput.Blink
}

// CatalogReloadedMsg delivers a freshly loaded catalog bundle while an
// interview is running (--watch mode).
type CatalogReloadedMsg struct {
	Bundle *catalog.Bundle
}

func (m *InterviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if reload, ok := msg.(CatalogReloadedMsg); ok {
		m.controller.Reload(reload.Bundle)
		m.done = false
		m.advance()
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyUp:
		if m.isChoice() && m.cursor > 0 {
			m.cursor--
			return m, nil
		}

	case tea.KeyDown:
		if m.isChoice() && m.cursor < len(m.current.Options)-1 {
			m.cursor++
			return m, nil
		}

	case tea.KeyEnter:
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *InterviewModel) isChoice() bool {
	return m.current != nil && m.current.Kind == catalog.InputChoice && len(m.current.Options) > 0
}

func (m *InterviewModel) submit() (tea.Model, tea.Cmd) {
	if m.done || m.current == nil {
		return m, tea.Quit
	}

	value, err := m.parseAnswer(strings.TrimSpace(m.input.Value()))
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.errMsg = ""

	revealed, err := m.controller.Answer(m.current.ID, value)
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	if m.OnAnswer != nil {
		m.OnAnswer(len(revealed))
	}

	m.advance()
	if m.done {
		return m, tea.Quit
	}
	return m, nil
}

// parseAnswer converts the raw input into the typed answer value for
// the current question's kind.
func (m *InterviewModel) parseAnswer(raw string) (interface{}, error) {
	q := m.current

	if m.isChoice() && raw == "" {
		return q.Options[m.cursor], nil
	}
	if raw == "" {
		return nil, fmt.Errorf("an answer is required")
	}

	switch q.Kind {
	case catalog.InputBool:
		switch strings.ToLower(raw) {
		case "y", "yes", "true":
			return true, nil
		case "n", "no", "false":
			return false, nil
		}
		return nil, fmt.Errorf("answer yes or no")

	case catalog.InputNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		if n == float64(int(n)) {
			return int(n), nil
		}
		return n, nil

	case catalog.InputChoice:
		if idx, err := strconv.Atoi(raw); err == nil && idx >= 1 && idx <= len(q.Options) {
			return q.Options[idx-1], nil
		}
		for _, opt := range q.Options {
			if strings.EqualFold(opt, raw) {
				return opt, nil
			}
		}
		return nil, fmt.Errorf("pick one of the listed options")

	case catalog.InputMulti:
		parts := strings.Split(raw, ",")
		values := make([]interface{}, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("an answer is required")
		}
		return values, nil
	}

	if q.Validation != "" {
		re, err := regexp.Compile(q.Validation)
		if err == nil && !re.MatchString(raw) {
			return nil, fmt.Errorf("answer does not match %s", q.Validation)
		}
	}
	return raw, nil
}

func (m *InterviewModel) View() string {
	if m.quitting {
		return ""
	}
	if m.done {
		return m.summaryView()
	}

	var b strings.Builder
	progress := m.controller.Progress()
	b.WriteString(titleStyle.Render("docsmith interview"))
	b.WriteString(helpStyle.Render(fmt.Sprintf("  %d answered / %d active\n\n",
		progress.Answered, progress.Active)))

	q := m.current
	b.WriteString(stageStyle.Render(fmt.Sprintf("[%s] ", q.Stage)))
	b.WriteString(promptStyle.Render(q.Prompt))
	b.WriteString("\n")

	if m.isChoice() {
		for i, opt := range q.Options {
			line := fmt.Sprintf("%d. %s", i+1, opt)
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString(optionStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter: submit • ↑/↓: choose • esc: save and quit"))
	return b.String()
}

func (m *InterviewModel) summaryView() string {
	analysis := m.controller.Analyze()
	progress := m.controller.Progress()

	var b strings.Builder
	fmt.Fprintf(&b, "Interview complete: %d questions answered.\n", progress.Answered)
	fmt.Fprintf(&b, "Recommended level: %s (score %d)\n", analysis.RecommendedLevel, analysis.Score)
	fmt.Fprintf(&b, "%s\n", analysis.Description)
	return summaryStyle.Render(b.String()) + "\n"
}
