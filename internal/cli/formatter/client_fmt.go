package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/coachdesk/internal/domain"
)

// FormatClientList renders the client roster as a table.
func FormatClientList(clients []*domain.Client, statuses map[string]domain.SaveStatus) string {
	if len(clients) == 0 {
		return Dim("No clients yet. Add one with: coachdesk client add --name \"Jane Doe\"") + "\n"
	}

	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		contact := c.Email
		if contact == "" {
			contact = c.Phone
		}
		if contact == "" {
			contact = Dim("--")
		}
		row := []string{
			TruncID(c.ID),
			Bold(c.Name),
			StatusPill(c.Status),
			AccessBadge(c.ChecklistAccess),
			contact,
		}
		if s := statuses[c.ID]; s != "" && s != domain.SaveCommitted {
			row = append(row, SaveIndicator(s))
		}
		rows = append(rows, row)
	}

	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Clients (%d)", len(clients))))
	b.WriteString("\n\n")
	b.WriteString(RenderTable([]string{"ID", "NAME", "STATUS", "CHECKLIST", "CONTACT", ""}, rows))
	return b.String()
}

// FormatClientDetail renders one client's profile in a box.
func FormatClientDetail(c *domain.Client, save domain.SaveStatus) string {
	return FormatClientDetailAt(c, save, time.Now())
}

func FormatClientDetailAt(c *domain.Client, save domain.SaveStatus, now time.Time) string {
	orDash := func(s string) string {
		if s == "" {
			return Dim("--")
		}
		return s
	}

	lines := []string{
		fmt.Sprintf("%s  %s", Bold(c.Name), TruncID(c.ID)),
		"",
		fmt.Sprintf("%-10s %s", "Status", StatusPill(c.Status)),
		fmt.Sprintf("%-10s %s", "Checklist", AccessBadge(c.ChecklistAccess)),
		fmt.Sprintf("%-10s %s", "Role", string(c.Role)),
		fmt.Sprintf("%-10s %s", "Email", orDash(c.Email)),
		fmt.Sprintf("%-10s %s", "Phone", orDash(c.Phone)),
		fmt.Sprintf("%-10s %s", "Added", RelativeDateFrom(c.CreatedAt, now)),
		fmt.Sprintf("%-10s %s", "Storage", SaveIndicator(save)),
	}
	return RenderBox("Client", strings.Join(lines, "\n"))
}
