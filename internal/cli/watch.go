package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mfriedel/vsimap/pkg/source"
	"github.com/mfriedel/vsimap/pkg/topo"
	"github.com/mfriedel/vsimap/pkg/vsi"
)

// newWatchCmd creates the watch command, an interactive TUI over a record
// collection with live name/state filter editing. The graph is recomputed
// on every keystroke so the table always reflects the current filters.
func newWatchCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "watch <records.json|url>",
		Short: "Interactively filter a VSI topology in the terminal",
		Long: `Interactively filter a VSI topology in the terminal.

Keys:
  type      edit the focused filter
  tab       switch between name and state filter
  ctrl+u    clear the focused filter
  ctrl+r    re-fetch records from the source
  esc       quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runWatch(c.Context(), args[0], refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cache for URL sources")
	return cmd
}

func runWatch(ctx context.Context, arg string, refresh bool) error {
	src, err := newSource(ctx, arg, refresh)
	if err != nil {
		return err
	}

	m := newWatchModel(src)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if wm, ok := final.(watchModel); ok && wm.err != nil {
		return wm.err
	}
	return nil
}

// =============================================================================
// watchModel - live filtering TUI
// =============================================================================

// Filter input focus targets.
const (
	focusName = iota
	focusState
)

// recordsMsg carries the result of an asynchronous fetch.
type recordsMsg struct {
	records []vsi.Record
	err     error
}

// watchModel is the bubbletea model for the watch command. It holds the
// unfiltered record collection and recomputes the graph whenever a filter
// changes.
type watchModel struct {
	src     source.Source
	records []vsi.Record
	graph   *topo.Graph

	name    string
	state   string
	focus   int
	loading bool
	err     error
	height  int
}

func newWatchModel(src source.Source) watchModel {
	return watchModel{
		src:     src,
		graph:   &topo.Graph{},
		loading: true,
		height:  24,
	}
}

// fetchRecords loads the record collection off the UI goroutine.
func fetchRecords(src source.Source) tea.Cmd {
	return func() tea.Msg {
		records, err := src.Fetch(context.Background())
		return recordsMsg{records: records, err: err}
	}
}

func (m watchModel) Init() tea.Cmd {
	return fetchRecords(m.src)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsMsg:
		m.loading = false
		if msg.err != nil {
			// Keep the previous records on a failed re-fetch.
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.records = msg.records
		return m.recompute(), nil

	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		// Plain letters always edit the focused filter, so quit and
		// refresh sit on chords and esc.
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.focus = (m.focus + 1) % 2
			return m, nil
		case "ctrl+r":
			m.loading = true
			return m, fetchRecords(m.src)
		case "ctrl+u":
			m = m.setFocused("")
			return m.recompute(), nil
		case "backspace":
			cur := m.focused()
			if cur != "" {
				m = m.setFocused(cur[:len(cur)-1])
			}
			return m.recompute(), nil
		default:
			if msg.Type == tea.KeyRunes {
				m = m.setFocused(m.focused() + string(msg.Runes))
				return m.recompute(), nil
			}
		}
	}
	return m, nil
}

func (m watchModel) focused() string {
	if m.focus == focusState {
		return m.state
	}
	return m.name
}

func (m watchModel) setFocused(v string) watchModel {
	if m.focus == focusState {
		m.state = v
	} else {
		m.name = v
	}
	return m
}

// recompute reruns filtering and synthesis against the current filters.
func (m watchModel) recompute() watchModel {
	filtered := vsi.Filter(m.records, m.name, m.state)
	g, err := topo.Synthesize(filtered)
	if err != nil {
		m.err = err
		return m
	}
	m.err = nil
	m.graph = g
	return m
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("vsimap watch"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(m.src.Name()))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab switch filter  ctrl+u clear  ctrl+r refresh  esc quit"))
	b.WriteString("\n\n")

	b.WriteString(m.filterLine("Name ", m.name, m.focus == focusName))
	b.WriteString("\n")
	b.WriteString(m.filterLine("State", m.state, m.focus == focusState))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(StyleDim.Render("  loading records..."))
	case m.err != nil:
		b.WriteString(StyleDown.Render(fmt.Sprintf("  %v", m.err)))
	default:
		b.WriteString(m.edgeTable())
		b.WriteString("\n")
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %d nodes · %d edges", m.graph.NodeCount(), m.graph.EdgeCount())))
		if n := len(m.graph.Diagnostics); n > 0 {
			b.WriteString(StyleWarning.Render(fmt.Sprintf(" · %d skipped links", n)))
		}
	}
	b.WriteString("\n")

	return b.String()
}

// filterLine renders one filter input with a cursor on the focused field.
func (m watchModel) filterLine(label, value string, active bool) string {
	line := fmt.Sprintf("%s %s", StyleDim.Render(label+":"), StyleValue.Render(value))
	if active {
		return "▸ " + line + StyleTitle.Render("█")
	}
	return "  " + line
}

// edgeTable renders one row per pseudowire in the filtered graph.
func (m watchModel) edgeTable() string {
	maxRows := m.height - 10
	if maxRows < 3 {
		maxRows = 3
	}

	rows := [][]string{}
	for _, e := range m.graph.Edges {
		if len(rows) >= maxRows {
			break
		}
		src, ok := m.graph.Node(e.Source)
		if !ok || src.VSI == nil {
			continue
		}
		dst, ok := m.graph.Node(e.Target)
		if !ok || dst.Peer == nil {
			continue
		}
		state := e.PWState
		if state == "" {
			state = "unknown"
		}
		rows = append(rows, []string{
			src.VSI.Name, src.VSI.State, dst.Peer.Address, e.PWID, state,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("VSI", "State", "Peer", "PW ID", "PW State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(rows) {
				return lipgloss.NewStyle()
			}
			if col == 4 {
				if strings.EqualFold(rows[row][4], "up") {
					return StyleUp
				}
				return StyleDown
			}
			return StyleValue
		})

	out := t.Render()
	if len(m.graph.Edges) > maxRows {
		out += "\n" + StyleDim.Render(fmt.Sprintf("  … %d more", len(m.graph.Edges)-maxRows))
	}
	return out
}
