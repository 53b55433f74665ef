package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of an indented tree. Level 0 lines are roots.
type TreeItem struct {
	Title  string
	Seq    int // 0 hides the number
	Level  int
	IsLast bool
	Status string
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders items with box-drawing connectors. Completed lines get a
// green check, in-progress lines an amber marker, and details are aligned in
// a right-hand column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	badges := make([]string, len(items))
	widest := 0

	for i, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		if item.Seq > 0 {
			title = StyleDim.Render(fmt.Sprintf("%2d. ", item.Seq)) + title
		}

		var marker string
		switch strings.ToLower(item.Status) {
		case "completed", "checked":
			marker = StyleGreen.Render("✔ ")
			title = Dim(title)
		case "in_progress":
			marker = StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		case "pending", "unchecked":
			marker = StyleDim.Render("○ ")
		}

		contents[i] = prefix + marker + title
		if item.Detail != "" {
			badges[i] = StyleBlue.Render(item.Detail)
		}
		if w := lipgloss.Width(contents[i]); w > widest {
			widest = w
		}
	}

	var b strings.Builder
	for i, content := range contents {
		b.WriteString(content)
		if badges[i] != "" {
			b.WriteString(strings.Repeat(" ", widest-lipgloss.Width(content)+colGap))
			b.WriteString(badges[i])
		}
		b.WriteString("\n")
	}
	return b.String()
}
