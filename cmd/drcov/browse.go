package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/drcov/drcov"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// BrowseCmd opens the module table in a terminal UI.
type BrowseCmd struct {
	File string `arg:"" help:"Path to the .drcov file" type:"existingfile"`
}

func (c *BrowseCmd) Run() error {
	data, err := drcov.ParseFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to parse DrCov file '%s': %w", c.File, err)
	}
	p := tea.NewProgram(newBrowseModel(c.File, data), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

type browseModel struct {
	data     *drcov.CoverageData
	stats    map[uint16]int
	covered  map[uint16]uint64
	filename string
	visible  []int
	table    table.Model
	filter   textinput.Model
}

func newBrowseModel(filename string, data *drcov.CoverageData) *browseModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Blocks", Width: 8},
			{Title: "Covered", Width: 12},
			{Title: "Base", Width: 18},
			{Title: "Path", Width: 48},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "path substring"
	ti.Prompt = "/ "
	ti.Width = 40

	m := &browseModel{
		data:     data,
		stats:    data.CoverageStats(),
		covered:  data.CoveredBytes(),
		filename: filename,
		table:    t,
		filter:   ti,
	}
	m.applyFilter()
	return m
}

func (m *browseModel) applyFilter() {
	needle := m.filter.Value()
	m.visible = m.visible[:0]
	rows := make([]table.Row, 0, len(m.data.Modules))
	for i, mod := range m.data.Modules {
		if needle != "" && !strings.Contains(mod.Path, needle) {
			continue
		}
		id := uint16(mod.ID)
		m.visible = append(m.visible, i)
		rows = append(rows, table.Row{
			strconv.FormatUint(uint64(mod.ID), 10),
			strconv.Itoa(m.stats[id]),
			fmt.Sprintf("%d bytes", m.covered[id]),
			fmt.Sprintf("0x%016x", mod.Base),
			mod.Path,
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// selected returns the module under the cursor, or nil when the filter
// hides every module.
func (m *browseModel) selected() *drcov.ModuleEntry {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.visible) {
		return nil
	}
	return &m.data.Modules[m.visible[c]]
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filter.Focused() {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "enter", "esc":
				m.filter.Blur()
				m.table.Focus()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "/":
			m.table.Blur()
			return m, m.filter.Focus()
		case "esc":
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 3))
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("DrCov Browser"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s • module table %s • %d modules • %d blocks • %d bytes covered\n\n",
		m.data.Header.Flavor, m.data.ModuleVersion, len(m.data.Modules),
		len(m.data.BasicBlocks), m.data.TotalCoveredBytes())

	b.WriteString(m.filter.View())
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	if mod := m.selected(); mod != nil {
		b.WriteString(detailStyle.Render(fmt.Sprintf(
			"%s\nrange 0x%x-0x%x (%d bytes) • entry 0x%x",
			mod.Path, mod.Base, mod.End, mod.Size(), mod.Entry)))
	} else {
		b.WriteString(detailStyle.Render("no modules match"))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓ select • / filter • esc clear • q quit"))

	return b.String()
}
