// Package tui holds the terminal styling and the per-file confirmation prompt.
package tui

import (
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Decision is the answer to one confirmation prompt.
type Decision int

const (
	// DecisionPending means no key has been accepted yet
	DecisionPending Decision = iota
	// DecisionYes touches this file
	DecisionYes
	// DecisionNo skips this file
	DecisionNo
	// DecisionAll touches this file and every remaining one without asking
	DecisionAll
	// DecisionQuit stops the run
	DecisionQuit
)

// String returns the decision name
func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionYes:
		return "yes"
	case DecisionNo:
		return "no"
	case DecisionAll:
		return "all"
	case DecisionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ConfirmModel asks whether to forge the ctime of one file
type ConfirmModel struct {
	path     string
	target   string
	decision Decision
}

// NewConfirmModel creates a prompt for path with the time it would get
func NewConfirmModel(path, target string) ConfirmModel {
	return ConfirmModel{path: path, target: target}
}

// Decision returns the accepted answer
func (m ConfirmModel) Decision() Decision {
	return m.decision
}

// Init initializes the prompt
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the prompt
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeyMsg(keyMsg)
	}

	return m, nil
}

// View renders the prompt
func (m ConfirmModel) View() string {
	if m.decision != DecisionPending {
		return ""
	}

	var builder strings.Builder

	builder.WriteString(RenderTitle(PromptArrow + "Change ctime?"))
	builder.WriteString("\n")

	builder.WriteString(RenderLabel("File: "))
	builder.WriteString(m.path)
	builder.WriteString("\n")

	builder.WriteString(RenderLabel("New ctime: "))
	builder.WriteString(m.target)
	builder.WriteString("\n")

	builder.WriteString(RenderDim("[y]es  [n]o  [a]ll  [q]uit"))
	builder.WriteString("\n")

	return builder.String()
}

func (m ConfirmModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.decision = DecisionYes
		return m, tea.Quit

	case tea.KeyEsc:
		m.decision = DecisionNo
		return m, tea.Quit

	case tea.KeyCtrlC:
		m.decision = DecisionQuit
		return m, tea.Quit

	case tea.KeyRunes:
		return m.handleRunes(msg.String())

	default:
		// Ignore other keys
		return m, nil
	}
}

func (m ConfirmModel) handleRunes(key string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(key) {
	case "y":
		m.decision = DecisionYes
	case "n":
		m.decision = DecisionNo
	case "a":
		m.decision = DecisionAll
	case "q":
		m.decision = DecisionQuit
	default:
		return m, nil
	}

	return m, tea.Quit
}

// Confirm runs the prompt on in/out and returns the answer. Input that
// ends before an answer counts as quit.
func Confirm(path, target string, in io.Reader, out io.Writer) (Decision, error) {
	program := tea.NewProgram(
		NewConfirmModel(path, target),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithoutSignalHandler(),
	)

	final, err := program.Run()
	if err != nil {
		return DecisionQuit, err
	}

	model, ok := final.(ConfirmModel)
	if !ok || model.Decision() == DecisionPending {
		return DecisionQuit, nil
	}

	return model.Decision(), nil
}
