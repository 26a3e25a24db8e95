package modals

import (
	"fmt"
	"io"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// helpKeyColumn is the width of the key column in the shortcut list
const helpKeyColumn = 14

// =============================================================================
// HelpState - Keyboard shortcut reference
// =============================================================================

// HelpShortcut is one row of the reference
type HelpShortcut struct {
	Key  string
	Desc string
}

// HelpSection groups shortcuts under a category title
type HelpSection struct {
	Title     string
	Shortcuts []HelpShortcut
}

// HelpShortcutTriggeredMsg asks the app to run the shortcut bound to Key
type HelpShortcutTriggeredMsg struct {
	Key string
}

type shortcutItem struct {
	shortcut HelpShortcut
}

func (i shortcutItem) FilterValue() string {
	return i.shortcut.Key + " " + i.shortcut.Desc
}

// sectionItem is a header row. It never matches a filter.
type sectionItem struct {
	title string
}

func (sectionItem) FilterValue() string { return "" }

type shortcutDelegate struct{}

func (shortcutDelegate) Height() int                             { return 1 }
func (shortcutDelegate) Spacing() int                            { return 0 }
func (shortcutDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (shortcutDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	switch it := item.(type) {
	case sectionItem:
		fmt.Fprint(w, lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary).Render(it.title))
	case shortcutItem:
		keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Width(helpKeyColumn)
		descStyle := lipgloss.NewStyle().Foreground(ColorText)
		prefix := "  "
		if index == m.Index() {
			keyStyle = keyStyle.Foreground(ColorTextInverse).Background(ColorPrimary)
			descStyle = descStyle.Foreground(ColorTextInverse).Background(ColorPrimary)
			prefix = "> "
		}
		fmt.Fprint(w, prefix+keyStyle.Render(it.shortcut.Key)+descStyle.Render(it.shortcut.Desc))
	}
}

type HelpState struct {
	list list.Model
}

func (*HelpState) modalState() {}

func (s *HelpState) Title() string { return "Keyboard Shortcuts" }

func (s *HelpState) Help() string {
	if s.list.SettingFilter() {
		return "Type to filter  Enter: apply  Esc: cancel"
	}
	return "/: filter  up/down: navigate  Enter: run  Esc: close"
}

func (s *HelpState) Render() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render(s.Title()),
		s.list.View(),
		ModalHelpStyle.Render(s.Help()),
	)
}

func (s *HelpState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	s.skipSection(msg)
	return s, cmd
}

// skipSection moves the cursor off a header row in the direction of travel.
func (s *HelpState) skipSection(msg tea.Msg) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return
	}
	if _, onHeader := s.list.SelectedItem().(sectionItem); !onHeader {
		return
	}
	switch key.String() {
	case "up", "k":
		if s.list.Index() == 0 {
			s.list.CursorDown()
		} else {
			s.list.CursorUp()
		}
	default:
		s.list.CursorDown()
	}
}

// SelectedShortcut returns the highlighted shortcut, or nil on a header or
// an empty list.
func (s *HelpState) SelectedShortcut() *HelpShortcut {
	if it, ok := s.list.SelectedItem().(shortcutItem); ok {
		return &it.shortcut
	}
	return nil
}

// IsFiltering reports whether the filter prompt has focus.
func (s *HelpState) IsFiltering() bool {
	return s.list.SettingFilter()
}

// Trigger returns a command announcing the selected shortcut, or nil.
func (s *HelpState) Trigger() tea.Cmd {
	sc := s.SelectedShortcut()
	if sc == nil {
		return nil
	}
	key := sc.Key
	return func() tea.Msg { return HelpShortcutTriggeredMsg{Key: key} }
}

// NewHelpState builds the shortcut list from sections.
func NewHelpState(sections []HelpSection) *HelpState {
	var items []list.Item
	for _, sec := range sections {
		items = append(items, sectionItem{title: sec.Title})
		for _, sc := range sec.Shortcuts {
			items = append(items, shortcutItem{shortcut: sc})
		}
	}

	l := list.New(items, shortcutDelegate{}, ModalWidth, HelpModalMaxVisible)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.SetFilteringEnabled(true)

	for i, it := range items {
		if _, ok := it.(shortcutItem); ok {
			l.Select(i)
			break
		}
	}
	return &HelpState{list: l}
}
