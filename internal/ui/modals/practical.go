package modals

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// TopicCharLimit bounds a typed practical topic
const TopicCharLimit = 200

// customTopic is the select value that reveals the free-text field
const customTopic = "\x00custom"

// =============================================================================
// PracticalTopicState - State for the practical topic picker
// =============================================================================

type PracticalTopicState struct {
	choice string
	custom string

	form *huh.Form
}

func (*PracticalTopicState) modalState() {}

func (s *PracticalTopicState) Title() string { return "Generate MATLAB Practical" }

func (s *PracticalTopicState) Help() string {
	if s.choice == customTopic {
		return "Tab: next field  Enter: generate  Esc: cancel"
	}
	return "up/down: select  Enter: generate  Esc: cancel"
}

func (s *PracticalTopicState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	desc := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true).
		Width(ModalInputWidth).
		Render("Theory, brute-force and optimized MATLAB code, and a LaTeX report.")
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, desc, "", s.form.View(), help)
}

func (s *PracticalTopicState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = updateForm(s.form, msg)
	return s, cmd
}

// GetTopic returns the chosen or typed topic, trimmed. Empty means none.
func (s *PracticalTopicState) GetTopic() string {
	if s.choice == customTopic {
		return strings.TrimSpace(s.custom)
	}
	return strings.TrimSpace(s.choice)
}

// NewPracticalTopicState creates a topic picker over the suggested topics.
// initial preselects a suggestion or, if it is not one, fills the custom field.
func NewPracticalTopicState(suggestions []string, initial string) *PracticalTopicState {
	s := &PracticalTopicState{}

	options := make([]huh.Option[string], 0, len(suggestions)+1)
	for _, t := range suggestions {
		options = append(options, huh.NewOption(t, t))
		if t == initial {
			s.choice = t
		}
	}
	options = append(options, huh.NewOption("Custom topic...", customTopic))

	switch {
	case s.choice != "":
	case initial != "":
		s.choice = customTopic
		s.custom = initial
	case len(suggestions) > 0:
		s.choice = suggestions[0]
	default:
		s.choice = customTopic
	}

	s.form = newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Topic").
				Options(options...).
				Value(&s.choice),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Custom topic").
				Placeholder("e.g., Butterworth low-pass filter").
				CharLimit(TopicCharLimit).
				Value(&s.custom),
		).WithHideFunc(func() bool { return s.choice != customTopic }),
	)
	return s
}
