package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/israice/ToDo-Game/internal/engine"
	"github.com/israice/ToDo-Game/internal/ui"
)

const maxVisibleEvents = 20

type watchModel struct {
	events <-chan streamEvent
	errc   <-chan error

	width  int
	height int

	lines     []string
	connected bool
	err       error
}

type eventMsg streamEvent

type streamDoneMsg struct{ err error }

func newWatchModel(events <-chan streamEvent, errc <-chan error) watchModel {
	return watchModel{events: events, errc: errc}
}

func (m watchModel) waitCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev, ok := <-m.events:
			if !ok {
				select {
				case err := <-m.errc:
					return streamDoneMsg{err: err}
				default:
					return streamDoneMsg{}
				}
			}
			return eventMsg(ev)
		case err := <-m.errc:
			return streamDoneMsg{err: err}
		}
	}
}

func (m watchModel) Init() tea.Cmd {
	return m.waitCmd()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case eventMsg:
		if msg.Event == engine.EventConnected {
			m.connected = true
		}
		m.lines = append(m.lines, renderEvent(streamEvent(msg)))
		if len(m.lines) > maxVisibleEvents {
			m.lines = m.lines[len(m.lines)-maxVisibleEvents:]
		}
		return m, m.waitCmd()
	case streamDoneMsg:
		m.connected = false
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(ui.Heading(ui.IconBolt, "QuestBoard live events"))
	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(ui.Bad.Render("stream error: "+m.err.Error()) + "\n")
	case m.connected:
		b.WriteString(ui.Good.Render("connected") + "\n")
	default:
		b.WriteString(ui.Muted.Render("connecting…") + "\n")
	}
	b.WriteString("\n")
	if len(m.lines) == 0 {
		b.WriteString(ui.Muted.Render("waiting for events") + "\n")
	}
	for _, line := range m.lines {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + ui.Muted.Render("q to quit"))
	return b.String()
}

func renderEvent(ev streamEvent) string {
	stamp := ui.Muted.Render(time.Now().Format("15:04:05"))

	switch ev.Event {
	case engine.EventTaskCompleted:
		var res engine.CompleteResult
		if err := json.Unmarshal([]byte(ev.Data), &res); err == nil {
			line := fmt.Sprintf("%s %s +%d XP (level %d, %d/%d)",
				stamp, ui.IconDone, res.XPEarned, res.Level, res.XP, res.XPMax)
			if res.LeveledUp {
				line += " " + ui.BadgeLevelUp
			}
			for _, id := range res.NewAchievements {
				line += " " + ui.Gold.Render(ui.IconTrophy+" "+id)
			}
			return line
		}
	case engine.EventTaskCreated:
		var res engine.CreateTaskResult
		if err := json.Unmarshal([]byte(ev.Data), &res); err == nil {
			return fmt.Sprintf("%s %s %s (+%d XP on completion)",
				stamp, ui.IconPlus, res.Task.Text, res.Task.XP)
		}
	case engine.EventConnected:
		return stamp + " " + ui.Good.Render("stream open")
	}

	return fmt.Sprintf("%s %s %s", stamp, ui.Key.Render(ev.Event), ui.Muted.Render(ev.Data))
}

// RunWatch attaches a terminal UI to a user's live event stream.
func RunWatch(ctx context.Context, baseURL, cookieName, token string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, errc := openStream(ctx, baseURL, cookieName, token)
	p := tea.NewProgram(newWatchModel(events, errc))
	_, err := p.Run()
	return err
}
