package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a completion bar like [████░░░░] 5/13.
// The bar is green past two thirds, yellow past one third, red below.
func RenderProgress(done, total, width int) string {
	if width < 2 {
		width = 2
	}
	if total < 0 {
		total = 0
	}
	if done < 0 {
		done = 0
	}
	if done > total {
		done = total
	}

	pct := 0.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), done, total)
}
