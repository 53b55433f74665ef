package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/coachdesk/internal/billing"
	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

// moneyValue is a pflag.Value holding a non-negative amount.
type moneyValue struct {
	d *decimal.Decimal
}

var _ pflag.Value = (*moneyValue)(nil)

func newMoneyValue(p *decimal.Decimal) *moneyValue {
	return &moneyValue{d: p}
}

func (m *moneyValue) String() string {
	if m.d == nil {
		return "0"
	}
	return m.d.String()
}

func (m *moneyValue) Set(s string) error {
	d, err := billing.ParseAmount(s)
	if err != nil {
		return err
	}
	*m.d = d
	return nil
}

func (m *moneyValue) Type() string { return "amount" }

// parseTier accepts the recurring tier names with either separator.
func parseTier(s string) (domain.Tier, error) {
	switch strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(s)) {
	case "mentorship":
		return domain.TierMentorship, nil
	case "follow_up", "followup":
		return domain.TierFollowUp, nil
	default:
		return "", fmt.Errorf("unknown tier %q (mentorship|follow-up): %w", s, billing.ErrUnknownTier)
	}
}

// parseMonth converts a 1-based month number into a list index.
func parseMonth(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid month %q: must be a positive number", s)
	}
	return n - 1, nil
}

func parseStep(s string) (domain.StepID, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid step %q: must be a positive number", s)
	}
	return domain.StepID(n), nil
}

func parseStatus(s string) (domain.ClientStatus, error) {
	s = strings.ReplaceAll(strings.ToLower(s), "-", "_")
	if !domain.ValidClientStatuses[s] {
		return "", fmt.Errorf("invalid status %q (pre_registration|active_consulting|converted_mentorship|in_follow_up|lost)", s)
	}
	return domain.ClientStatus(s), nil
}

func parseAccess(s string) (domain.ChecklistAccess, error) {
	s = strings.ReplaceAll(strings.ToLower(s), "-", "_")
	if !domain.ValidChecklistAccess[s] {
		return "", fmt.Errorf("invalid checklist phase %q (locked|phase1|phase1_and_2)", s)
	}
	return domain.ChecklistAccess(s), nil
}
