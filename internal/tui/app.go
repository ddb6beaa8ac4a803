package tui

import (
	"fmt"
	"strings"

	"Hydrocalc/internal/calc/cylinder"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	captionStyle = lipgloss.NewStyle().Width(16)
	unitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type field struct {
	name  string
	kind  cylinder.Kind
	input textinput.Model
}

type Model struct {
	fields    []field
	focus     int
	system    cylinder.UnitSystem
	labels    cylinder.LabelSet
	formatter *cylinder.Formatter
	display   cylinder.Display
}

func New(f *cylinder.Formatter, system cylinder.UnitSystem) Model {
	specs := []struct {
		name string
		kind cylinder.Kind
	}{
		{"Bore", cylinder.Length},
		{"Rod", cylinder.Length},
		{"Stroke", cylinder.Length},
		{"Pressure", cylinder.Pressure},
		{"Flow", cylinder.Flow},
		{"Efficiency", ""},
	}
	m := Model{formatter: f, system: system}
	for _, s := range specs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = "0"
		ti.CharLimit = 24
		ti.Width = 12
		m.fields = append(m.fields, field{name: s.name, kind: s.kind, input: ti})
	}
	m.fields[0].input.Focus()
	m.setSystem(system)
	return m
}

func (m *Model) setSystem(system cylinder.UnitSystem) {
	m.system = system
	m.labels = cylinder.Labels(system)
	m.recompute()
}

func (m *Model) recompute() {
	raw := cylinder.RawInputs{
		Bore:       cylinder.Field(m.fields[0].input.Value()),
		Rod:        cylinder.Field(m.fields[1].input.Value()),
		Stroke:     cylinder.Field(m.fields[2].input.Value()),
		Pressure:   cylinder.Field(m.fields[3].input.Value()),
		Flow:       cylinder.Field(m.fields[4].input.Value()),
		Efficiency: cylinder.Field(m.fields[5].input.Value()),
	}
	m.display = cylinder.Render(cylinder.Derive(raw.Parse(), m.system), m.formatter)
}

func (m Model) Display() cylinder.Display   { return m.display }
func (m Model) System() cylinder.UnitSystem { return m.system }
func (m Model) Focused() int                { return m.focus }
func (m Model) Labels() cylinder.LabelSet   { return m.labels }
func (m Model) Value(i int) string          { return m.fields[i].input.Value() }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlU:
			next := cylinder.Imperial
			if m.system == cylinder.Imperial {
				next = cylinder.Metric
			}
			m.setSystem(next)
			return m, nil
		case tea.KeyTab, tea.KeyDown, tea.KeyEnter:
			return m, m.moveFocus(1)
		case tea.KeyShiftTab, tea.KeyUp:
			return m, m.moveFocus(-1)
		}
	}

	var cmd tea.Cmd
	before := m.fields[m.focus].input.Value()
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	if m.fields[m.focus].input.Value() != before {
		m.recompute()
	}
	return m, cmd
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.fields[m.focus].input.Blur()
	m.focus = (m.focus + delta + len(m.fields)) % len(m.fields)
	return m.fields[m.focus].input.Focus()
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Hydraulic cylinder (%s)", m.system)))
	b.WriteString("\n\n")
	for i, f := range m.fields {
		cursor := "  "
		if i == m.focus {
			cursor = "> "
		}
		unit := ""
		if f.kind != "" {
			unit = m.labels[f.kind]
		}
		b.WriteString(cursor + captionStyle.Render(f.name) + f.input.View() + " " + unitStyle.Render(unit) + "\n")
	}
	b.WriteString("\n")
	for _, row := range m.display.Rows() {
		b.WriteString("  " + captionStyle.Render(row[0]) + valueStyle.Render(row[1]) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("tab/shift+tab move • ctrl+u metric/imperial • esc quit") + "\n")
	return b.String()
}

func Run(f *cylinder.Formatter, system cylinder.UnitSystem) error {
	_, err := tea.NewProgram(New(f, system)).Run()
	return err
}
