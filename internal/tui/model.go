// Package tui is a terminal view over the customer collection with the
// near-due banner and the status/code filters.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nicolas44373/clientes/internal/customers"
	"github.com/nicolas44373/clientes/internal/domain"
	"github.com/nicolas44373/clientes/internal/due"
)

// Source is what the TUI needs from the customer service.
type Source interface {
	Load(ctx context.Context) error
	View(f due.Filter) customers.View
}

// LoadedMsg reports the end of a (re)load.
type LoadedMsg struct {
	Err error
}

// Model is the bubbletea model of the customer list.
type Model struct {
	src Source

	statuses  []string
	statusIdx int
	search    textinput.Model
	searching bool

	view    customers.View
	loading bool
	err     error

	width  int
	height int
}

// New builds a model reading from src.
func New(src Source) Model {
	ti := textinput.New()
	ti.Placeholder = "código"
	ti.Prompt = "Buscar por código: "
	ti.CharLimit = 12

	return Model{
		src:      src,
		statuses: append([]string{domain.StatusAll}, domain.Statuses...),
		search:   ti,
		loading:  true,
	}
}

func (m Model) load() tea.Msg {
	return LoadedMsg{Err: m.src.Load(context.Background())}
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return m.load
}

func (m Model) filter() due.Filter {
	return due.Filter{Status: m.statuses[m.statusIdx], Search: strings.TrimSpace(m.search.Value())}
}

func (m *Model) refresh() {
	m.view = m.src.View(m.filter())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.searching = true
			return m, m.search.Focus()
		case "tab":
			m.statusIdx = (m.statusIdx + 1) % len(m.statuses)
			m.refresh()
		case "shift+tab":
			m.statusIdx = (m.statusIdx + len(m.statuses) - 1) % len(m.statuses)
			m.refresh()
		case "esc":
			m.statusIdx = 0
			m.search.SetValue("")
			m.refresh()
		case "r":
			m.loading = true
			return m, m.load
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		if msg.Type == tea.KeyEsc {
			m.search.SetValue("")
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Lista de Clientes"))
	b.WriteString("\n")

	if m.loading {
		b.WriteString(dimStyle.Render("Cargando clientes..."))
		b.WriteString("\n")
		return b.String()
	}

	if banner := m.banner(); banner != "" {
		b.WriteString(bannerStyle.Render(banner))
		b.WriteString("\n")
	}
	if m.view.Notice != "" {
		b.WriteString(noticeStyle.Render(m.view.Notice))
		b.WriteString("\n")
	} else if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("Tipo: %s   ", m.statuses[m.statusIdx]))
	if m.searching {
		b.WriteString(m.search.View())
	} else if v := m.search.Value(); v != "" {
		b.WriteString("Código contiene: " + v)
	}
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-8s %-28s %-10s %-11s %-11s %s",
		"Código", "Nombre", "Tipo", "Referencia", "Vence", "Estado")))
	b.WriteString("\n")
	for _, r := range m.view.Items {
		b.WriteString(renderRow(r))
		b.WriteString("\n")
	}
	if len(m.view.Items) == 0 {
		b.WriteString(dimStyle.Render("Sin clientes para este filtro."))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d de %d clientes", len(m.view.Items), m.view.Total)))

	b.WriteString(helpStyle.Render("/ buscar • tab tipo • esc limpiar • r recargar • q salir"))
	return b.String()
}

func (m Model) banner() string {
	n := len(m.view.NearDue)
	if n == 0 {
		return ""
	}
	names := make([]string, 0, n)
	for _, r := range m.view.NearDue {
		names = append(names, fmt.Sprintf("%s (%s)", r.Description, due.StatusText(r)))
	}
	label := "clientes próximos a vencer"
	if n == 1 {
		label = "cliente próximo a vencer"
	}
	return fmt.Sprintf("%d %s: %s", n, label, strings.Join(names, ", "))
}

func renderRow(r domain.Enriched) string {
	ref := r.ReferenceDate
	if ref == "" {
		ref = due.NotApplicable
	}
	dueText := due.NotApplicable
	if r.DateKnown {
		dueText = due.FormatDate(r.DueDate)
	}
	line := fmt.Sprintf("%-8s %-28s %-10s %-11s %-11s %s",
		strconv.Itoa(r.Code), truncate(r.Description, 28), r.Status, ref, dueText, due.StatusText(r))

	switch {
	case !r.DateKnown:
		return dimStyle.Render(line)
	case r.Overdue():
		return overdueStyle.Render(line)
	case due.IsNearDue(r):
		return nearDueStyle.Render(line)
	}
	return line
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
