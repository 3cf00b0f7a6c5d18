package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/shopspring/decimal"
)

func TestModel_Progress(t *testing.T) {
	var m tea.Model = NewModel("geostationary", 100)

	m, _ = m.Update(ProgressMsg{Step: 25, Total: 100, Time: decimal.NewFromInt(25), Elapsed: time.Second})
	pm := m.(Model)
	if pm.Percent() != 0.25 {
		t.Errorf("expected 25%%, got %v", pm.Percent())
	}

	view := pm.View()
	for _, want := range []string{"geostationary", "25 / 100", "25.000 s", "25.0%", "q to cancel"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_Done(t *testing.T) {
	var m tea.Model = NewModel("leo", 10)

	m, cmd := m.Update(DoneMsg{Result: &sim.Result{StepsTaken: 10}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("done should quit the program")
	}
	if strings.Contains(m.View(), "q to cancel") {
		t.Error("finished view should not offer cancel")
	}
}

func TestModel_Failed(t *testing.T) {
	var m tea.Model = NewModel("leo", 10)
	m, _ = m.Update(DoneMsg{Err: errors.New("singular configuration")})
	if !strings.Contains(m.View(), "singular configuration") {
		t.Errorf("error not shown:\n%s", m.View())
	}
}

func TestModel_Cancel(t *testing.T) {
	var m tea.Model = NewModel("leo", 10)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !m.(Model).Cancelled() {
		t.Error("q should cancel")
	}
	if cmd == nil {
		t.Error("cancel should quit")
	}
}

func TestModel_Resize(t *testing.T) {
	var m tea.Model = NewModel("leo", 10)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	if m.(Model).width != 30 {
		t.Errorf("width not updated")
	}
}

func TestRemaining(t *testing.T) {
	eta, ok := remaining(sim.Progress{Step: 50, Elapsed: 5 * time.Second}, 150)
	if !ok || eta != 10*time.Second {
		t.Errorf("remaining = %v, %v; want 10s", eta, ok)
	}
	if _, ok := remaining(sim.Progress{}, 10); ok {
		t.Error("no rate yet, eta should be unknown")
	}
}
