package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title == "" {
		return boxStyle.Render(content)
	}
	return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
}

// Money formats an amount with two decimals and thousands separators.
func Money(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

// RelativeDateFrom returns a human-friendly distance between t and now.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == -1:
		return "Yesterday"
	case days == 1:
		return "Tomorrow"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0:
		return fmt.Sprintf("In %dw", days/7)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

func RelativeDate(t time.Time) string {
	return RelativeDateFrom(t, time.Now())
}

// StatusPill returns a colored indicator for a client's lifecycle status.
func StatusPill(status domain.ClientStatus) string {
	switch status {
	case domain.StatusPreRegistration:
		return StyleBlue.Render("○ Pre-registration")
	case domain.StatusActiveConsulting:
		return StyleGreen.Render("● Consulting")
	case domain.StatusConvertedMentorship:
		return StylePurple.Render("● Mentorship")
	case domain.StatusInFollowUp:
		return StyleYellow.Render("● Follow-up")
	case domain.StatusLost:
		return StyleDim.Render("✖ Lost")
	default:
		return StyleDim.Render(string(status))
	}
}

// AccessBadge describes which checklist phases the client can see.
func AccessBadge(a domain.ChecklistAccess) string {
	switch a {
	case domain.AccessPhase1:
		return StyleYellow.Render("phase 1")
	case domain.AccessPhase1And2:
		return StyleGreen.Render("phases 1+2")
	default:
		return StyleDim.Render("locked")
	}
}

// TierLabel is the display name of a billing tier.
func TierLabel(t domain.Tier) string {
	switch t {
	case domain.TierConsulting:
		return "Consulting"
	case domain.TierMentorship:
		return "Mentorship"
	case domain.TierFollowUp:
		return "Follow-up"
	default:
		return string(t)
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// PaidMark renders a paid flag as a check or an open circle.
func PaidMark(paid bool) string {
	if paid {
		return StyleGreen.Render("✔")
	}
	return StyleDim.Render("○")
}
