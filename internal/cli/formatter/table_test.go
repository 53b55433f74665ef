package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_Alignment(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"NAME", "STATUS"},
		[][]string{{"Ana", "lost"}, {"Bartholomew", StyleGreen.Render("active")}},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "NAME         STATUS", lines[0])
	assert.Equal(t, "Ana          lost", lines[2])
	assert.Equal(t, "Bartholomew  active", lines[3])
}

func TestTable_RightAligned(t *testing.T) {
	out := stripANSI(Table{
		Headers:      []string{"MONTH", "VALUE"},
		Rows:         [][]string{{"1", "$400.00"}, {"2", "$1,250.00"}},
		RightAligned: map[int]bool{1: true},
	}.Render())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "MONTH      VALUE", lines[0])
	assert.Equal(t, "1        $400.00", lines[2])
	assert.Equal(t, "2      $1,250.00", lines[3])
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}
