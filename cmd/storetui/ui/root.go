package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type state int

const (
	stateLogin state = iota
	stateStores
)

type RootModel struct {
	State    state
	Login    LoginModel
	Stores   StoresModel
	Quitting bool
	height   int
}

func NewRootModel(baseURL string) RootModel {
	return RootModel{State: stateLogin, Login: NewLoginModel(baseURL)}
}

func (m RootModel) Init() tea.Cmd {
	return m.Login.Init()
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		if m.State == stateStores {
			m.Stores.Table.SetHeight(tableHeight(msg.Height))
		}
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Quitting = true
			return m, tea.Quit
		}
	case loginResultMsg:
		if msg.Err == nil && msg.Client != nil {
			m.State = stateStores
			m.Stores = NewStoresModel(msg.Client, m.height)
			return m, m.Stores.Init()
		}
	}

	var cmd tea.Cmd
	switch m.State {
	case stateLogin:
		m.Login, cmd = m.Login.Update(msg)
	case stateStores:
		m.Stores, cmd = m.Stores.Update(msg)
	}
	return m, cmd
}

func (m RootModel) View() string {
	if m.Quitting {
		return "Bye!\n"
	}
	switch m.State {
	case stateStores:
		return docStyle.Render(m.Stores.View())
	default:
		return docStyle.Render(m.Login.View())
	}
}
