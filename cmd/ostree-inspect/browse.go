package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/lirios/ostree-go/repo"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F87AF")).
			Padding(0, 1)

	refStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F87AF"))

	objectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browseState int

const (
	stateRefs browseState = iota
	stateObjects
)

type browseModel struct {
	err      error
	r        *repo.Repo
	repoPath string
	ref      string
	rev      string
	refs     []string
	filtered []string
	objects  []string
	filter   textinput.Model
	selected int
	state    browseState
}

type refsLoadedMsg struct {
	err  error
	r    *repo.Repo
	refs []string
}

type objectsLoadedMsg struct {
	err     error
	ref     string
	rev     string
	objects []string
}

func newBrowseModel(repoPath string) *browseModel {
	ti := textinput.New()
	ti.Placeholder = "filter refs"
	ti.Prompt = "/ "
	return &browseModel{repoPath: repoPath, filter: ti, state: stateRefs}
}

func (m *browseModel) Init() tea.Cmd {
	return m.loadRefs
}

func (m *browseModel) loadRefs() tea.Msg {
	r, err := repo.Open(m.repoPath)
	if err != nil {
		return refsLoadedMsg{err: err}
	}
	refs, err := r.ListRefs()
	if err != nil {
		r.Close()
		return refsLoadedMsg{err: err}
	}
	return refsLoadedMsg{r: r, refs: refs}
}

func (m *browseModel) loadObjects(ref string) tea.Cmd {
	return func() tea.Msg {
		rev, err := m.r.ResolveRev(ref)
		if err != nil {
			return objectsLoadedMsg{err: err}
		}
		objects, err := m.r.TraverseCommit(context.Background(), rev, 0)
		if err != nil {
			return objectsLoadedMsg{err: err}
		}
		sort.Strings(objects)
		return objectsLoadedMsg{ref: ref, rev: rev, objects: objects}
	}
}

func (m *browseModel) applyFilter() {
	needle := strings.ToLower(m.filter.Value())
	m.filtered = m.filtered[:0]
	for _, ref := range m.refs {
		if needle == "" || strings.Contains(strings.ToLower(ref), needle) {
			m.filtered = append(m.filtered, ref)
		}
	}
	if m.selected >= len(m.filtered) {
		m.selected = 0
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.r = msg.r
		m.refs = msg.refs
		m.applyFilter()
		return m, nil

	case objectsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.ref = msg.ref
		m.rev = msg.rev
		m.objects = msg.objects
		m.state = stateObjects
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateObjects {
				m.state = stateRefs
				return m, nil
			}
			return m, tea.Quit

		case "esc":
			if m.state == stateObjects {
				m.state = stateRefs
				return m, nil
			}
			if m.filter.Focused() {
				m.filter.Blur()
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateRefs && !m.filter.Focused() && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down", "j":
			if m.state == stateRefs && !m.filter.Focused() && m.selected < len(m.filtered)-1 {
				m.selected++
			}
			return m, nil

		case "/":
			if m.state == stateRefs && !m.filter.Focused() {
				m.filter.Focus()
				return m, textinput.Blink
			}

		case "enter":
			if m.state == stateRefs {
				if m.filter.Focused() {
					m.filter.Blur()
					return m, nil
				}
				if m.selected < len(m.filtered) {
					return m, m.loadObjects(m.filtered[m.selected])
				}
			}
			return m, nil
		}
	}

	if m.state == stateRefs && m.filter.Focused() {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}
	return m, nil
}

func (m *browseModel) View() string {
	var b strings.Builder

	switch m.state {
	case stateRefs:
		b.WriteString(titleStyle.Render("Refs — "+m.repoPath) + "\n\n")
		b.WriteString(m.filter.View() + "\n\n")
		if len(m.filtered) == 0 {
			b.WriteString(helpStyle.Render("no refs") + "\n")
		}
		for i, ref := range m.filtered {
			line := refStyle.Render(ref)
			if i == m.selected {
				line = selectedStyle.Render("> " + ref)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("enter: objects • /: filter • j/k: move • q: quit"))

	case stateObjects:
		header := fmt.Sprintf("%s @ %s (%d objects)", m.ref, m.rev, len(m.objects))
		b.WriteString(titleStyle.Render(header) + "\n\n")
		for _, name := range m.objects {
			b.WriteString(objectStyle.Render(name) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("esc/q: back"))
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}
	return b.String()
}

func runBrowse(repoPath string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("browse requires a terminal")
	}

	m := newBrowseModel(repoPath)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	if m.r != nil {
		m.r.Close()
	}
	if err != nil {
		return err
	}
	return m.err
}
