package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eventcards/pkg/pipeline"
	"github.com/matzehuels/eventcards/pkg/prompts"
	"github.com/matzehuels/eventcards/pkg/render/graphic"
)

// Form styles
var (
	formLabelStyle   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	formActiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAmber)
	formValueStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	formDefaultStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// EventFormModel - Interactive event entry
// =============================================================================

// Form field indexes.
const (
	fieldTitle = iota
	fieldDate
	fieldTime
	fieldLocation
	fieldType
	fieldCount
)

type formField struct {
	label    string
	value    []rune
	fallback string   // used when the value is left blank
	choices  []string // non-nil for selection fields
	choice   int
}

func (f formField) String() string {
	if f.choices != nil {
		return f.choices[f.choice]
	}
	if v := strings.TrimSpace(string(f.value)); v != "" {
		return v
	}
	return f.fallback
}

// EventFormModel is the bubbletea model for entering an event.
type EventFormModel struct {
	Fields    []formField
	Cursor    int
	Submitted bool
	Cancelled bool
}

// NewEventFormModel creates a form prefilled with the usual defaults.
func NewEventFormModel(types []string) EventFormModel {
	fields := make([]formField, fieldCount)
	fields[fieldTitle] = formField{label: "Title", fallback: graphic.DefaultTitle}
	fields[fieldDate] = formField{label: "Date", fallback: graphic.DefaultDate}
	fields[fieldTime] = formField{label: "Time"}
	fields[fieldLocation] = formField{label: "Location", fallback: graphic.DefaultLocation}
	fields[fieldType] = formField{label: "Event type", choices: types}
	for i, t := range types {
		if t == prompts.Generic {
			fields[fieldType].choice = i
		}
	}
	return EventFormModel{Fields: fields}
}

// Event returns the entered event.
func (m EventFormModel) Event() graphic.Event {
	return graphic.Event{
		Title:    m.Fields[fieldTitle].String(),
		Date:     m.Fields[fieldDate].String(),
		Time:     m.Fields[fieldTime].String(),
		Location: m.Fields[fieldLocation].String(),
	}
}

// EventType returns the selected event type.
func (m EventFormModel) EventType() string {
	return m.Fields[fieldType].String()
}

func (m EventFormModel) Init() tea.Cmd {
	return nil
}

func (m EventFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	f := &m.Fields[m.Cursor]

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Cancelled = true
		return m, tea.Quit
	case tea.KeyUp, tea.KeyShiftTab:
		if m.Cursor > 0 {
			m.Cursor--
		}
	case tea.KeyDown, tea.KeyTab:
		if m.Cursor < len(m.Fields)-1 {
			m.Cursor++
		}
	case tea.KeyEnter:
		if m.Cursor == len(m.Fields)-1 {
			m.Submitted = true
			return m, tea.Quit
		}
		m.Cursor++
	case tea.KeyLeft:
		if f.choices != nil && f.choice > 0 {
			f.choice--
		}
	case tea.KeyRight:
		if f.choices != nil && f.choice < len(f.choices)-1 {
			f.choice++
		}
	case tea.KeyBackspace:
		if f.choices == nil && len(f.value) > 0 {
			f.value = f.value[:len(f.value)-1]
		}
	case tea.KeySpace:
		if f.choices == nil {
			f.value = append(f.value, ' ')
		}
	case tea.KeyRunes:
		if f.choices == nil {
			f.value = append(f.value, key.Runes...)
		}
	}
	return m, nil
}

func (m EventFormModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("New Event"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(`↑/↓ move  ←/→ choose  ⏎ next  esc quit  \n in the title breaks the line`))
	b.WriteString("\n\n")

	for i, f := range m.Fields {
		label := formLabelStyle.Render(f.label)
		var value string
		switch {
		case f.choices != nil:
			value = formValueStyle.Render("‹ " + f.choices[f.choice] + " ›")
		case len(f.value) > 0:
			value = formValueStyle.Render(string(f.value))
		default:
			value = formDefaultStyle.Render(f.fallback)
		}
		cursor := "  "
		if i == m.Cursor {
			cursor = formActiveStyle.Render("▸ ")
			if f.choices == nil {
				value += formActiveStyle.Render("_")
			}
		}
		b.WriteString(cursor + label + " " + value + "\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  files: %s_<format>.png", pipeline.Slug(m.Fields[fieldTitle].String()))))
	b.WriteString("\n")
	return b.String()
}

// interactiveCommand prompts for an event and renders every format.
func (c *CLI) interactiveCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Enter an event in a form and render every format",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(NewEventFormModel(prompts.Default().Types()), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			form := final.(EventFormModel)
			if !form.Submitted {
				printInfo("Cancelled")
				return nil
			}

			opts := c.pipelineOptions(renderOpts{})
			opts.Event = form.Event()
			opts.EventType = form.EventType()
			opts.Formats = nil
			return c.runRender(cmd.Context(), opts, noCache)
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
