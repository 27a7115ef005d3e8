package ui

import (
	"fmt"
	"net/url"
	"strings"

	"colorgrid/config"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldURL = iota
	fieldCount
	fieldTotal
)

// PromptModel asks for the page query when none was given on the command
// line or in the config.
type PromptModel struct {
	inputs  [fieldTotal]textinput.Model
	focused int

	done    bool
	aborted bool

	width  int
	height int
}

func NewPromptModel() PromptModel {
	urlInput := textinput.New()
	urlInput.Placeholder = "e.g., http://colors.default.example.com"
	urlInput.Focus()

	countInput := textinput.New()
	countInput.Placeholder = fmt.Sprintf("%d", config.DefaultTileCount)
	countInput.CharLimit = 6

	return PromptModel{
		inputs: [fieldTotal]textinput.Model{urlInput, countInput},
	}
}

func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Query returns the page query built from the form.
func (m PromptModel) Query() string {
	v := url.Values{}
	v.Set("url", strings.TrimSpace(m.inputs[fieldURL].Value()))
	if c := strings.TrimSpace(m.inputs[fieldCount].Value()); c != "" {
		v.Set("count", c)
	}
	return "?" + v.Encode()
}

// Aborted reports whether the user left without confirming.
func (m PromptModel) Aborted() bool {
	return m.aborted || !m.done
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.inputs[fieldURL].Width = minInt(60, maxInt(msg.Width-24, 10))
		m.inputs[fieldCount].Width = 6
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			return m.focus((m.focused + 1) % fieldTotal), nil
		case tea.KeyShiftTab, tea.KeyUp:
			return m.focus((m.focused - 1 + fieldTotal) % fieldTotal), nil
		case tea.KeyEnter:
			if m.focused == fieldURL {
				return m.focus(fieldCount), nil
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m PromptModel) focus(i int) PromptModel {
	m.inputs[m.focused].Blur()
	m.focused = i
	m.inputs[i].Focus()
	return m
}

func (m PromptModel) View() string {
	content := StylePromptTitle.Render(rainbow(title)) + "\n\n"
	content += StylePrompt.Render("Which deployment should every tile show?") + "\n\n"
	content += "  Source URL: " + m.inputs[fieldURL].View() + "\n"
	content += "  Tiles:      " + m.inputs[fieldCount].View() + "\n\n"
	content += StyleHint.Render("tab switch field  enter confirm  esc quit")

	if m.width == 0 {
		return StylePromptPane.Render(content)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		StylePromptPane.Render(content))
}
