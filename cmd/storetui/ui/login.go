package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type LoginModel struct {
	Inputs   []textinput.Model
	FocusIdx int
	Err      error
	busy     bool
}

const (
	inputURL = iota
	inputEmail
	inputPassword
)

// loginResultMsg carries the logged-in client or the failure.
type loginResultMsg struct {
	Client *Client
	Err    error
}

func NewLoginModel(baseURL string) LoginModel {
	inputs := make([]textinput.Model, 3)

	inputs[inputURL] = textinput.New()
	inputs[inputURL].Prompt = "API URL: "
	inputs[inputURL].Placeholder = "http://127.0.0.1:5000"
	inputs[inputURL].SetValue(baseURL)

	inputs[inputEmail] = textinput.New()
	inputs[inputEmail].Prompt = "Email: "
	inputs[inputEmail].Placeholder = "you@example.com"
	inputs[inputEmail].Focus()

	inputs[inputPassword] = textinput.New()
	inputs[inputPassword].Prompt = "Password: "
	inputs[inputPassword].Placeholder = "password"
	inputs[inputPassword].EchoMode = textinput.EchoPassword

	return LoginModel{Inputs: inputs, FocusIdx: inputEmail}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if m.FocusIdx == len(m.Inputs)-1 && !m.busy {
				m.busy, m.Err = true, nil
				return m, m.loginCmd()
			}
			m.focus(m.FocusIdx + 1)
			return m, nil
		case tea.KeyTab, tea.KeyDown:
			m.focus(m.FocusIdx + 1)
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			m.focus(m.FocusIdx - 1)
			return m, nil
		}
	case loginResultMsg:
		m.busy = false
		m.Err = msg.Err
		return m, nil
	}

	cmds := make([]tea.Cmd, len(m.Inputs))
	for i := range m.Inputs {
		m.Inputs[i], cmds[i] = m.Inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m *LoginModel) focus(i int) {
	m.Inputs[m.FocusIdx].Blur()
	m.FocusIdx = (i + len(m.Inputs)) % len(m.Inputs)
	m.Inputs[m.FocusIdx].Focus()
}

func (m LoginModel) loginCmd() tea.Cmd {
	baseURL := strings.TrimSpace(m.Inputs[inputURL].Value())
	email := strings.TrimSpace(m.Inputs[inputEmail].Value())
	password := m.Inputs[inputPassword].Value()
	return func() tea.Msg {
		if baseURL == "" || email == "" || password == "" {
			return loginResultMsg{Err: errors.New("API URL, email and password are required")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c := NewClient(baseURL)
		if err := c.Login(ctx, email, password); err != nil {
			return loginResultMsg{Err: err}
		}
		return loginResultMsg{Client: c}
	}
}

func (m LoginModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Store Ratings - Login") + "\n\n")
	for i := range m.Inputs {
		b.WriteString(m.Inputs[i].View())
		if i < len(m.Inputs)-1 {
			b.WriteRune('\n')
		}
	}
	b.WriteString("\n\n")
	if m.busy {
		b.WriteString(statusMessageStyle("Signing in..."))
	} else {
		b.WriteString(blurredStyle.Render("Tab to change fields, Enter to submit, Ctrl+C to quit"))
	}
	if m.Err != nil {
		b.WriteString("\n\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
