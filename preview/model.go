package preview

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eringen/blogfront/navigator"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
	linkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("232")).Background(lipgloss.Color("157")).Padding(0, 1)
	barStyle     = lipgloss.NewStyle().Background(lipgloss.Color("234"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// settleMsg is delivered when a navigator timer comes due.
type settleMsg struct {
	id int
}

// Model is the bubbletea model for the preview.
type Model struct {
	page   Page
	screen *Screen
	loop   *navigator.Loop
	nav    *navigator.Navigator
	vp     viewport.Model
	ready  bool
	width  int

	pending []tea.Cmd
}

// New returns a preview of p. The navigator is mounted once the terminal
// size is known.
func New(p Page) *Model {
	m := &Model{
		page:   p,
		screen: &Screen{Layout: NewLayout(p)},
		loop:   &navigator.Loop{},
	}
	m.loop.Schedule = func(d time.Duration, id int) {
		m.pending = append(m.pending, tea.Tick(d, func(time.Time) tea.Msg {
			return settleMsg{id: id}
		}))
	}
	m.nav = navigator.New(p.Categories, m.screen, navigator.WithOnChange(func(s navigator.State) {
		m.screen.Pinned = s.Pinned
		if m.ready {
			m.vp.SetContent(m.document())
		}
	}))
	return m
}

// State returns the navigator state.
func (m *Model) State() navigator.State {
	return m.nav.State()
}

// Offset returns the first document row on screen.
func (m *Model) Offset() int {
	return m.screen.Offset
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(msg.Height-2, 1)
		if !m.ready {
			m.vp = viewport.New(msg.Width, height)
			m.ready = true
			m.vp.SetContent(m.document())
			if err := m.nav.Mount(m.loop); err != nil {
				return m, tea.Quit
			}
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = height
			m.loop.Scroll()
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.nav.Unmount()
			return m, tea.Quit
		}
		cmd = m.scroll(msg)
	case tea.MouseMsg:
		cmd = m.scroll(msg)
	case settleMsg:
		m.loop.Fire(msg.id)
	}
	return m, tea.Batch(append(m.drain(), cmd)...)
}

// scroll forwards msg to the viewport and reports a scroll event to the
// navigator when the offset moved.
func (m *Model) scroll(msg tea.Msg) tea.Cmd {
	if !m.ready {
		return nil
	}
	before := m.vp.YOffset
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	if m.vp.YOffset != before {
		m.screen.Offset = m.vp.YOffset
		m.loop.Scroll()
	}
	return cmd
}

func (m *Model) drain() []tea.Cmd {
	cmds := m.pending
	m.pending = nil
	return cmds
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render(m.page.Title)
	if m.nav.State().Pinned {
		header = m.navLine()
	}
	help := helpStyle.Render("↑/↓ pgup/pgdn scroll • q quit")
	return header + "\n" + m.vp.View() + "\n" + help
}

// navLine renders the navigation bar with the active section highlighted.
func (m *Model) navLine() string {
	active := m.nav.State().ActiveSection
	links := navigator.Links(m.page.Categories)
	parts := make([]string, len(links))
	for i, l := range links {
		style := linkStyle
		if l.Section == active {
			style = activeStyle
		}
		parts[i] = style.Render(l.Title)
	}
	return barStyle.Width(m.width).Render(strings.Join(parts, ""))
}

// document renders the scrollable rows. The in-flow bar row becomes a
// blank placeholder while the bar is pinned to the header.
func (m *Model) document() string {
	l := m.screen.Layout
	rows := make([]string, len(l.Rows))
	copy(rows, l.Rows)
	rows[0] = titleStyle.Render(rows[0])
	for _, span := range l.Spans {
		rows[span.Start] = headingStyle.Render(rows[span.Start])
	}
	if !m.nav.State().Pinned {
		rows[l.Marker] = m.navLine()
	}
	return strings.Join(rows, "\n")
}
