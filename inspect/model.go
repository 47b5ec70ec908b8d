// Package inspect is a Bubble Tea TUI that subscribes to a trace.Broker and
// shows Bolt requests as they happen: a scrolling list plus a detail view
// for the statement, its duration, and its outcome.
package inspect

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sorablue/boltwire/clipboard"
	"github.com/sorablue/boltwire/cypherhighlight"
	"github.com/sorablue/boltwire/trace"
)

type viewMode int

const (
	viewList viewMode = iota
	viewDetail
)

// Model is the Bubble Tea model for the boltwire inspector.
type Model struct {
	broker *trace.Broker
	ch     <-chan trace.Event
	unsub  func()

	events []trace.Event
	cursor int
	follow bool
	width  int
	height int
	err    error
	view   viewMode
}

// New creates a Model that will subscribe to b once the program starts.
func New(b *trace.Broker) Model {
	return Model{broker: b, follow: true}
}

type subscribedMsg struct {
	ch    <-chan trace.Event
	unsub func()
}

type eventMsg struct{ Event trace.Event }

func subscribe(b *trace.Broker) tea.Cmd {
	return func() tea.Msg {
		ch, unsub := b.Subscribe()
		return subscribedMsg{ch: ch, unsub: unsub}
	}
}

func waitForEvent(ch <-chan trace.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg{Event: ev}
	}
}

// Init subscribes to the broker.
func (m Model) Init() tea.Cmd {
	return subscribe(m.broker)
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case subscribedMsg:
		m.ch = msg.ch
		m.unsub = msg.unsub
		return m, waitForEvent(m.ch)

	case eventMsg:
		m.events = append(m.events, msg.Event)
		if m.follow {
			m.cursor = max(len(m.events)-1, 0)
		}
		return m, waitForEvent(m.ch)

	case tea.KeyMsg:
		switch m.view {
		case viewDetail:
			return m.updateDetail(msg)
		case viewList:
			return m.updateList(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.unsub != nil {
			m.unsub()
		}
		return m, tea.Quit
	case "enter":
		if len(m.events) > 0 {
			m.view = viewDetail
		}
		return m, nil
	case "c", "C":
		return m.copyStatement(), nil
	case "j", "down":
		if m.cursor < len(m.events)-1 {
			m.cursor++
		}
		m.follow = m.cursor == len(m.events)-1
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.follow = false
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.view = viewList
		return m, nil
	case "ctrl+c":
		if m.unsub != nil {
			m.unsub()
		}
		return m, tea.Quit
	case "c", "C":
		return m.copyStatement(), nil
	}
	return m, nil
}

func (m Model) copyStatement() Model {
	if m.cursor < 0 || m.cursor >= len(m.events) {
		return m
	}
	_ = clipboard.Copy(context.Background(), m.events[m.cursor].Statement)
	return m
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.err != nil {
		return friendlyError(m.err, m.width)
	}
	if len(m.events) == 0 {
		return "Waiting for Bolt requests..."
	}

	switch m.view {
	case viewDetail:
		return m.renderDetail()
	default:
		return m.renderList()
	}
}

func (m Model) renderList() string {
	var b strings.Builder
	listHeight := max(m.height-2, 3)
	start := max(len(m.events)-listHeight, 0)

	selected := lipgloss.NewStyle().Reverse(true)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	for i := start; i < len(m.events); i++ {
		ev := m.events[i]
		line := fmt.Sprintf("%s  %-8s %s", formatTime(ev.StartTime), formatDuration(ev.Duration), padRight(truncate(ev.Statement, max(m.width-30, 10)), max(m.width-30, 10)))
		if ev.Error != "" {
			line = errStyle.Render(line)
		}
		if i == m.cursor {
			line = selected.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString("q: quit  j/k: navigate  enter: inspect  c/C: copy statement")
	return b.String()
}

func (m Model) renderDetail() string {
	ev := m.events[m.cursor]

	var b strings.Builder
	fmt.Fprintf(&b, "session %s   %s   %s\n\n", ev.SessionID, formatTime(ev.StartTime), formatDuration(ev.Duration))
	b.WriteString(cypherhighlight.Query(ev.Statement))
	b.WriteString("\n\n")
	if ev.Error != "" {
		b.WriteString("error: " + ev.Error + "\n")
	} else {
		fmt.Fprintf(&b, "records: %d\n", ev.RecordCount)
	}
	if ev.NPlus1 {
		b.WriteString("\n⚠ possible N+1: this statement recurred rapidly\n")
	}
	b.WriteString("\nq/esc: back  c/C: copy statement")
	return b.String()
}
