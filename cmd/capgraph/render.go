package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dd0wney/cluso-capgraph/pkg/graph"
)

// printer renders command output either as styled text or as JSON.
type printer struct {
	w    io.Writer
	json bool

	titleStyle   lipgloss.Style
	keyStyle     lipgloss.Style
	boxStyle     lipgloss.Style
	headerStyle  lipgloss.Style
	cellStyle    lipgloss.Style
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	noteStyle    lipgloss.Style
}

func newPrinter(w io.Writer, jsonOut bool) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:    w,
		json: jsonOut,
		titleStyle: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")),
		keyStyle: r.NewStyle().
			Foreground(lipgloss.Color("#00FFFF")).
			Width(16),
		boxStyle: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1),
		headerStyle: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			Padding(0, 1),
		cellStyle: r.NewStyle().Padding(0, 1),
		successStyle: r.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true),
		errorStyle: r.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true),
		noteStyle: r.NewStyle().
			Foreground(lipgloss.Color("#888888")),
	}
}

func (p *printer) writeJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) title(s string) {
	fmt.Fprintln(p.w, p.titleStyle.Render(s))
}

func (p *printer) success(s string) {
	fmt.Fprintln(p.w, p.successStyle.Render("✓ "+s))
}

func (p *printer) failure(s string) {
	fmt.Fprintln(p.w, p.errorStyle.Render("✗ "+s))
}

func (p *printer) note(s string) {
	fmt.Fprintln(p.w, p.noteStyle.Render(s))
}

// fields prints key/value pairs in a bordered box.
func (p *printer) fields(kv [][2]string) {
	lines := make([]string, len(kv))
	for i, pair := range kv {
		lines[i] = p.keyStyle.Render(pair[0]) + pair[1]
	}
	fmt.Fprintln(p.w, p.boxStyle.Render(strings.Join(lines, "\n")))
}

func (p *printer) table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.noteStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.headerStyle
			}
			return p.cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(p.w, t.Render())
}

// partition prints one line per vertex set.
func (p *printer) partition(sets [][]graph.VertexID) {
	for i, set := range sets {
		fmt.Fprintf(p.w, "%s %s\n", p.keyStyle.Render(fmt.Sprintf("#%d (%d)", i, len(set))), joinIDs(set, " "))
	}
}

func (p *printer) adjacency(adjacency map[graph.VertexID][]graph.VertexID) {
	ids := make([]graph.VertexID, 0, len(adjacency))
	for id := range adjacency {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Fprintf(p.w, "%s %s\n", p.keyStyle.Render(fmt.Sprintf("%d:", id)), joinIDs(adjacency[id], " "))
	}
}
