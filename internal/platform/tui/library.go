package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gridmap/internal/core"
	"github.com/vovakirdan/gridmap/internal/storage"
)

// LibraryKeyMap defines the key bindings for the library browser.
type LibraryKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	History key.Binding
	Delete  key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LibraryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.History, k.Delete, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k LibraryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.History, k.Delete, k.Back, k.Quit},
	}
}

// DefaultLibraryKeyMap returns default key bindings.
func DefaultLibraryKeyMap() LibraryKeyMap {
	return LibraryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		History: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "history"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d d", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// LibraryModel browses the maps stored in the library.
type LibraryModel struct {
	ctx         context.Context
	store       *storage.Store
	maps        []storage.MapEntry
	history     []storage.Revision
	showHistory bool
	historyOf   string
	armDelete   bool // first press of the delete key seen
	selected    string
	table       table.Model
	help        help.Model
	keys        LibraryKeyMap
	width       int
	height      int
	message     string
	quitting    bool
}

// NewLibraryModel creates a library browser over store.
func NewLibraryModel(ctx context.Context, store *storage.Store, width, height int) LibraryModel {
	m := LibraryModel{
		ctx:    ctx,
		store:  store,
		keys:   DefaultLibraryKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadMaps()
	return m
}

func (m *LibraryModel) createTable() table.Model {
	var columns []table.Column
	if m.showHistory {
		columns = []table.Column{
			{Title: "Rev", Width: 6},
			{Title: "Walls", Width: 8},
			{Title: "Saved", Width: 18},
		}
	} else {
		nameWidth := m.width - 4 - 10 - 8 - 6 - 18 - 10
		if nameWidth < 12 {
			nameWidth = 12
		}
		if nameWidth > 32 {
			nameWidth = 32
		}
		columns = []table.Column{
			{Title: "Name", Width: nameWidth},
			{Title: "Size", Width: 10},
			{Title: "Walls", Width: 8},
			{Title: "Rev", Width: 6},
			{Title: "Updated", Width: 18},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *LibraryModel) loadMaps() {
	m.maps = nil
	if m.store != nil {
		maps, err := m.store.ListMaps(m.ctx)
		if err != nil {
			m.message = err.Error()
		}
		m.maps = maps
	}

	rows := make([]table.Row, len(m.maps))
	for i, e := range m.maps {
		rows[i] = table.Row{
			e.Name,
			fmt.Sprintf("%dx%d", e.Width, e.Height),
			fmt.Sprintf("%d", e.Walls),
			fmt.Sprintf("%d", e.Revision),
			e.UpdatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *LibraryModel) loadHistory(name string) {
	history, err := m.store.History(m.ctx, name)
	if err != nil {
		m.message = err.Error()
	}
	m.history = history

	rows := make([]table.Row, len(history))
	for i, r := range history {
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.Number),
			fmt.Sprintf("%d", r.Walls),
			r.CreatedAt.Local().Format("Jan 02 15:04:05"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m LibraryModel) current() (storage.MapEntry, bool) {
	if m.showHistory {
		return storage.MapEntry{}, false
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.maps) {
		return storage.MapEntry{}, false
	}
	return m.maps[i], true
}

// Init initializes the library model.
func (m LibraryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the library browser.
func (m LibraryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !key.Matches(msg, m.keys.Delete) {
			m.armDelete = false
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.showHistory {
				m.showHistory = false
				m.table = m.createTable()
				m.loadMaps()
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Open):
			if e, ok := m.current(); ok {
				m.selected = e.Name
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.History):
			e, ok := m.current()
			if !ok {
				return m, nil
			}
			m.showHistory = true
			m.historyOf = e.Name
			m.table = m.createTable()
			m.loadHistory(e.Name)
			m.message = "history of " + e.Name
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			e, ok := m.current()
			if !ok {
				return m, nil
			}
			if !m.armDelete {
				m.armDelete = true
				m.message = fmt.Sprintf("press d again to delete %q", e.Name)
				return m, nil
			}
			m.armDelete = false
			if err := m.store.DeleteMap(m.ctx, e.Name); err != nil {
				m.message = err.Error()
			} else {
				m.message = "deleted " + e.Name
			}
			m.loadMaps()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		if m.showHistory {
			m.loadHistory(m.historyOf)
		} else {
			m.loadMaps()
		}
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the library browser.
func (m LibraryModel) View() string {
	if m.quitting || m.selected != "" {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	title := fmt.Sprintf("MAP LIBRARY (%d)", len(m.maps))
	if m.showHistory {
		title = fmt.Sprintf("HISTORY - %s (%d revisions)", m.historyOf, len(m.history))
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	content := m.table.View()
	if !m.showHistory && len(m.maps) == 0 {
		content = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4).
			Render("No maps stored yet.\nUse `gridmap library save <name> <file>` to add one.")
	}
	b.WriteString(tableStyle.Render(content))
	b.WriteString("\n")

	if m.message != "" {
		role := core.ColorStatus
		if m.armDelete {
			role = core.ColorError
		}
		b.WriteString(styleFor(role).Render(m.message))
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Selected returns the name chosen with Open, or "".
func (m LibraryModel) Selected() string {
	return m.selected
}

// RunLibrary runs the library browser and returns the chosen map name, or
// "" when the user quit without choosing.
func RunLibrary(ctx context.Context, store *storage.Store, width, height int) (string, error) {
	p := tea.NewProgram(
		NewLibraryModel(ctx, store, width, height),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(LibraryModel)
	if !ok {
		return "", nil
	}
	return m.Selected(), nil
}
