package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type StoresModel struct {
	Client  *Client
	Table   table.Model
	Stores  []Store
	Mine    map[uint]int
	Status  string
	Err     error
	loading bool
}

type storesLoadedMsg struct {
	Stores []Store
	Mine   map[uint]int
	Err    error
}

type ratedMsg struct {
	StoreID uint
	Rating  int
	Err     error
}

func NewStoresModel(c *Client, height int) StoresModel {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Name", Width: 28},
		{Title: "Address", Width: 32},
		{Title: "Average", Width: 8},
		{Title: "Ratings", Width: 8},
		{Title: "Yours", Width: 6},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(tableHeight(height)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return StoresModel{Client: c, Table: t, loading: true}
}

func tableHeight(h int) int {
	if h-10 < 5 {
		return 10
	}
	return h - 10
}

func (m StoresModel) Init() tea.Cmd { return m.loadCmd() }

func (m StoresModel) loadCmd() tea.Cmd {
	c := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		stores, err := c.Stores(ctx, "")
		if err != nil {
			return storesLoadedMsg{Err: err}
		}
		mine, err := c.MyRatings(ctx)
		return storesLoadedMsg{Stores: stores, Mine: mine, Err: err}
	}
}

func (m StoresModel) rateCmd(storeID uint, rating int) tea.Cmd {
	c := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return ratedMsg{StoreID: storeID, Rating: rating, Err: c.Rate(ctx, storeID, rating)}
	}
}

func (m StoresModel) Update(msg tea.Msg) (StoresModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q":
			return m, tea.Quit
		case "r":
			m.loading, m.Status, m.Err = true, "", nil
			return m, m.loadCmd()
		case "1", "2", "3", "4", "5":
			row := m.Table.SelectedRow()
			if len(row) == 0 {
				return m, nil
			}
			id, err := strconv.ParseUint(row[0], 10, 64)
			if err != nil {
				return m, nil
			}
			rating, _ := strconv.Atoi(key)
			m.Status, m.Err = "", nil
			return m, m.rateCmd(uint(id), rating)
		}

	case storesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		m.Stores, m.Mine = msg.Stores, msg.Mine
		m.Table.SetRows(storeRows(m.Stores, m.Mine))
		return m, nil

	case ratedMsg:
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		m.Status = fmt.Sprintf("Rated store %d with %d", msg.StoreID, msg.Rating)
		return m, m.loadCmd()
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func storeRows(stores []Store, mine map[uint]int) []table.Row {
	rows := make([]table.Row, 0, len(stores))
	for _, s := range stores {
		avg := "-"
		if s.AverageRating != nil {
			avg = fmt.Sprintf("%.1f", *s.AverageRating)
		}
		yours := "-"
		if r, ok := mine[s.ID]; ok {
			yours = strconv.Itoa(r)
		}
		rows = append(rows, table.Row{
			strconv.FormatUint(uint64(s.ID), 10), s.Name, s.Address, avg, strconv.FormatInt(s.RatingCount, 10), yours,
		})
	}
	return rows
}

func (m StoresModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Stores - signed in as "+m.Client.User.Name) + "\n\n")
	b.WriteString(m.Table.View())
	b.WriteString("\n\n")
	switch {
	case m.loading:
		b.WriteString(statusMessageStyle("Loading..."))
	case m.Status != "":
		b.WriteString(statusMessageStyle(m.Status))
	}
	b.WriteString("\n" + blurredStyle.Render("1-5 rate selected store, r refresh, q quit, up/down to navigate"))
	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
