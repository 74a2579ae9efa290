package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/eventcards/pkg/prompts"
	"github.com/matzehuels/eventcards/pkg/render/graphic"
)

func typeString(m EventFormModel, s string) EventFormModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(EventFormModel)
}

func press(m EventFormModel, k tea.KeyType) (EventFormModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(EventFormModel), cmd
}

func TestEventFormDefaults(t *testing.T) {
	m := NewEventFormModel(prompts.Default().Types())

	ev := m.Event()
	want := graphic.Event{Title: graphic.DefaultTitle, Date: graphic.DefaultDate, Location: graphic.DefaultLocation}
	if ev != want {
		t.Errorf("Event() = %+v, want %+v", ev, want)
	}
	if m.EventType() != prompts.Generic {
		t.Errorf("EventType() = %q, want generic", m.EventType())
	}
}

func TestEventFormEntry(t *testing.T) {
	m := NewEventFormModel([]string{"mesa_abierta", "retiro", "generic"})

	m = typeString(m, "La Mesa")
	m, _ = press(m, tea.KeySpace)
	m = typeString(m, "Abiertaa")
	m, _ = press(m, tea.KeyBackspace)
	m, _ = press(m, tea.KeyEnter) // date
	m, _ = press(m, tea.KeyEnter) // time
	m = typeString(m, "7:00 PM")
	m, _ = press(m, tea.KeyDown) // location
	m, _ = press(m, tea.KeyDown) // type
	m, _ = press(m, tea.KeyLeft)
	m, _ = press(m, tea.KeyLeft)
	m, _ = press(m, tea.KeyLeft) // clamped at the first choice

	m, cmd := press(m, tea.KeyEnter)
	if !m.Submitted || cmd == nil {
		t.Fatal("enter on the last field should submit")
	}
	ev := m.Event()
	if ev.Title != "La Mesa Abierta" || ev.Time != "7:00 PM" || ev.Date != graphic.DefaultDate {
		t.Errorf("Event() = %+v", ev)
	}
	if m.EventType() != "mesa_abierta" {
		t.Errorf("EventType() = %q", m.EventType())
	}
}

func TestEventFormCancel(t *testing.T) {
	m := NewEventFormModel(prompts.Default().Types())
	m, cmd := press(m, tea.KeyEsc)
	if !m.Cancelled || m.Submitted || cmd == nil {
		t.Errorf("esc should cancel: %+v", m)
	}
}

func TestEventFormView(t *testing.T) {
	m := NewEventFormModel(prompts.Default().Types())
	m = typeString(m, "Culto Dominical")
	view := m.View()
	for _, s := range []string{"Culto Dominical", graphic.DefaultLocation, "culto_dominical_<format>.png", "generic"} {
		if !strings.Contains(view, s) {
			t.Errorf("view missing %q", s)
		}
	}
}
