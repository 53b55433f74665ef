package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// Table is an aligned text table. Columns listed in RightAligned are padded
// on the left so amounts line up on the decimal point.
type Table struct {
	Headers      []string
	Rows         [][]string
	RightAligned map[int]bool
}

// RenderTable renders a left-aligned table with a header separator line.
func RenderTable(headers []string, rows [][]string) string {
	return Table{Headers: headers, Rows: rows}.Render()
}

// Render measures visible cell width, so styled cells pad correctly.
func (t Table) Render() string {
	cols := len(t.Headers)
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}

	var b strings.Builder
	t.writeRow(&b, t.Headers, widths, StyleHeader.Render)

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range t.Rows {
		t.writeRow(&b, row, widths, nil)
	}
	return b.String()
}

func (t Table) writeRow(b *strings.Builder, row []string, widths []int, style func(...string) string) {
	cols := len(widths)
	for i := 0; i < cols; i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := widths[i] - lipgloss.Width(cell)
		if pad < 0 {
			pad = 0
		}
		if style != nil {
			cell = style(cell)
		}
		last := i == cols-1
		switch {
		case t.RightAligned[i]:
			b.WriteString(strings.Repeat(" ", pad) + cell)
			if !last {
				b.WriteString(strings.Repeat(" ", colGap))
			}
		case last:
			b.WriteString(cell)
		default:
			b.WriteString(cell + strings.Repeat(" ", pad+colGap))
		}
	}
	b.WriteString("\n")
}
