package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/viz"
)

var spinner = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type ProgressMsg sim.Progress

type DoneMsg struct {
	Result *sim.Result
	Err    error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model shows the progress of one simulation run.
type Model struct {
	title     string
	total     int
	last      sim.Progress
	frame     int
	width     int
	done      bool
	cancelled bool
	result    *sim.Result
	err       error
}

func NewModel(title string, total int) Model {
	return Model{title: title, total: total, width: 80}
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case ProgressMsg:
		m.last = sim.Progress(msg)
		if m.last.Total > 0 {
			m.total = m.last.Total
		}
	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m Model) Percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.last.Step) / float64(m.total)
}

func (m Model) Cancelled() bool { return m.cancelled }

func (m Model) View() string {
	var sb strings.Builder

	status := viz.StatusRunning.Render(spinner[m.frame%len(spinner)])
	switch {
	case m.err != nil:
		status = viz.StatusFailed.Render("✗")
	case m.done:
		status = viz.StatusRunning.Render("✓")
	}
	sb.WriteString(status + " " + viz.Title.Render(m.title) + "\n\n")

	barWidth := min(max(m.width-20, 10), 60)
	sb.WriteString(fmt.Sprintf("%s %5.1f%%\n", viz.ProgressBar(m.Percent(), barWidth), 100*m.Percent()))
	sb.WriteString(viz.KeyValue("step", fmt.Sprintf("%d / %d", m.last.Step, m.total)) + "\n")
	sb.WriteString(viz.KeyValue("sim time", m.last.Time.StringFixed(3)+" s") + "\n")
	sb.WriteString(viz.KeyValue("steps/sec", fmt.Sprintf("%.0f", rate(m.last))) + "\n")
	if eta, ok := remaining(m.last, m.total); ok {
		sb.WriteString(viz.KeyValue("eta", eta.Round(time.Second)) + "\n")
	}

	if m.err != nil {
		sb.WriteString("\n" + viz.StatusFailed.Render(m.err.Error()) + "\n")
	} else if !m.done {
		sb.WriteString("\n" + viz.Subtle.Render("q to cancel") + "\n")
	}
	return sb.String()
}

func rate(p sim.Progress) float64 {
	if p.Elapsed <= 0 {
		return 0
	}
	return float64(p.Step) / p.Elapsed.Seconds()
}

func remaining(p sim.Progress, total int) (time.Duration, bool) {
	r := rate(p)
	if r == 0 || total <= p.Step {
		return 0, false
	}
	return time.Duration(float64(total-p.Step) / r * float64(time.Second)), true
}

// RunFunc runs a simulation and reports through progress.
type RunFunc func(ctx context.Context, progress func(sim.Progress)) (*sim.Result, error)

// Run drives fn in a goroutine while a bubbletea program shows its progress
// on out. Quitting the program cancels fn and waits for it to return.
func Run(ctx context.Context, out io.Writer, title string, total int, fn RunFunc) (*sim.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(title, total), tea.WithOutput(out), tea.WithContext(ctx))

	done := make(chan DoneMsg, 1)
	go func() {
		res, err := fn(ctx, func(pr sim.Progress) { p.Send(ProgressMsg(pr)) })
		msg := DoneMsg{Result: res, Err: err}
		done <- msg
		p.Send(msg)
	}()

	final, uiErr := p.Run()
	if m, ok := final.(Model); ok && m.Cancelled() {
		cancel()
	}
	msg := <-done
	if msg.Err == nil && uiErr != nil && ctx.Err() == nil {
		return msg.Result, uiErr
	}
	return msg.Result, msg.Err
}
