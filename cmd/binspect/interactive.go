package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/binstruct"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	hexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inspectModel struct {
	err       error
	schema    *binstruct.Struct
	schemaStr string
	filename  string
	data      []byte
	obj       map[string]any
	names     []string
	input     textinput.Model
	selected  int
	state     modelState
}

type modelState int

const (
	stateEditSchema modelState = iota
	stateBrowse
	stateEditValue
)

func newInspectModel(schemaStr, filename string) *inspectModel {
	ti := textinput.New()
	ti.Prompt = "schema: "
	ti.Width = 70
	ti.SetValue(schemaStr)
	ti.Focus()

	return &inspectModel{
		schemaStr: schemaStr,
		filename:  filename,
		input:     ti,
		state:     stateEditSchema,
	}
}

type loadedMsg struct {
	err  error
	data []byte
}

func (m *inspectModel) Init() tea.Cmd {
	return m.loadFile
}

func (m *inspectModel) loadFile() tea.Msg {
	if m.filename == "" {
		return loadedMsg{data: nil}
	}
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{data: data}
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateBrowse {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateBrowse && m.selected < len(m.names)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateEditSchema:
				m.applySchema(m.input.Value())

			case stateBrowse:
				if len(m.names) > 0 {
					m.startEdit()
				}

			case stateEditValue:
				m.applyEdit(m.input.Value())
			}

		case "s":
			if m.state == stateBrowse {
				m.input = textinput.New()
				m.input.Prompt = "schema: "
				m.input.Width = 70
				m.input.SetValue(m.schemaStr)
				m.input.Focus()
				m.state = stateEditSchema
			}

		case "esc":
			if m.state == stateEditValue {
				m.state = stateBrowse
				m.err = nil
			} else if m.state == stateEditSchema && m.schema != nil {
				m.state = stateBrowse
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.data = msg.data
		if m.schemaStr != "" {
			m.applySchema(m.schemaStr)
		}
	}

	if m.state == stateEditSchema || m.state == stateEditValue {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *inspectModel) applySchema(schemaStr string) {
	s, err := parseSchema(schemaStr)
	if err != nil {
		m.err = err
		return
	}
	m.schema = s
	m.schemaStr = schemaStr

	if m.data == nil {
		m.data = make([]byte, s.Size())
	}
	obj, err := s.ToObject(m.data)
	if err != nil {
		m.err = err
		return
	}
	m.obj = obj
	m.names = s.Schema().FieldNames()
	m.selected = 0
	m.err = nil
	m.state = stateBrowse
}

func (m *inspectModel) startEdit() {
	name := m.names[m.selected]
	m.input = textinput.New()
	m.input.Prompt = name + " = "
	m.input.Width = 40
	m.input.SetValue(formatValue(m.obj[name]))
	m.input.Focus()
	m.state = stateEditValue
}

// applyEdit re-encodes the selected field over the current bytes and
// decodes again, so the hex pane always reflects real buffer content.
func (m *inspectModel) applyEdit(raw string) {
	name := m.names[m.selected]
	value := parseScalar(raw)

	buf, err := m.schema.EncodeInto(m.data, map[string]any{name: value})
	if err != nil {
		m.err = err
		return
	}
	obj, err := m.schema.ToObject(buf)
	if err != nil {
		m.err = err
		return
	}
	m.data = buf
	m.obj = obj
	m.err = nil
	m.state = stateBrowse
}

func parseScalar(raw string) any {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "\"") && strings.HasSuffix(raw, "\"") && len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	var n int64
	if _, err := fmt.Sscanf(raw, "%d", &n); err == nil {
		return n
	}
	var f float64
	if _, err := fmt.Sscanf(raw, "%g", &f); err == nil {
		return f
	}
	return raw
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("binspect"))
	if m.filename != "" {
		b.WriteString(" ")
		b.WriteString(m.filename)
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateEditSchema:
		b.WriteString("Enter a schema (name=Type,...):\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n\n")
		}
		b.WriteString(helpStyle.Render("enter apply • esc back • ctrl+c quit"))

	case stateBrowse:
		for i, name := range m.names {
			line := fieldStyle.Render(name) + " = " + formatValue(m.obj[name])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + name + " = " + formatValue(m.obj[name])))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(typeStyle.Render(fmt.Sprintf("%d bytes", len(m.data))))
		b.WriteString("\n")
		b.WriteString(hexStyle.Render(hexdump(m.data)))
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ select • enter edit • s schema • q quit"))

	case stateEditValue:
		b.WriteString("Edit field value:\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n\n")
		}
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
	}

	return b.String()
}

func runInteractive(schemaStr, filename string) error {
	p := tea.NewProgram(newInspectModel(schemaStr, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
