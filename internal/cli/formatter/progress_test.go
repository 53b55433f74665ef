package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name        string
		done, total int
		width       int
		wantFilled  int
		wantSuffix  string
	}{
		{"empty", 0, 13, 10, 0, "0/13"},
		{"half", 5, 10, 10, 5, "5/10"},
		{"complete", 9, 9, 10, 10, "9/9"},
		{"done clamps to total", 12, 9, 10, 10, "9/9"},
		{"no steps", 0, 0, 10, 0, "0/0"},
		{"tiny width clamps to 2", 1, 2, 1, 1, "1/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderProgress(tt.done, tt.total, tt.width))
			assert.True(t, strings.HasSuffix(got, tt.wantSuffix), got)
			assert.Equal(t, tt.wantFilled, strings.Count(got, filledBlock))
		})
	}
}
