package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"localint/internal/output"
	"localint/internal/verify"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	undefinedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	redefinitionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FBBF24")).
				Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	results    []output.FileResult
	lastUpdate time.Time
	fileCount  int
}

type updateMsg struct {
	results   []output.FileResult
	fileCount int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.results = msg.results
		m.fileCount = msg.fileCount
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, r := range m.results {
			for _, w := range r.Warnings {
				title := "Use Before Definition"
				if w.Kind == verify.WarnRedefinition {
					title = "Variable Redefinition"
				}
				items = append(items, item{
					title: title,
					desc:  fmt.Sprintf("%s in %s:%d", w.Name, r.Path, w.Position.Line),
				})
			}
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files",
		m.lastUpdate.Format("15:04:05"), m.fileCount))

	undefined := output.CountByKind(m.results, verify.WarnUseUndefined)
	redefined := output.CountByKind(m.results, verify.WarnRedefinition)

	var summary string
	if undefined == 0 && redefined == 0 {
		summary = successStyle.Render("✅ Scripts Clean")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s",
			undefinedStyle.Render(fmt.Sprintf("%d Undefined", undefined)),
			redefinitionStyle.Render(fmt.Sprintf("%d Redefined", redefined)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Lua Definition Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Warnings"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
