package checklist

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/coachdesk/internal/domain"
)

// ParseExpenseLimits reads the serialized text older records kept in the
// sub-item value. Both an object keyed by category and a list of
// {category, limit} objects are accepted. Anything unparseable yields nil.
func ParseExpenseLimits(text string) []domain.ExpenseLimit {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var keyed map[string]any
	if err := json.Unmarshal([]byte(text), &keyed); err == nil {
		out := make([]domain.ExpenseLimit, 0, len(keyed))
		for category, limit := range keyed {
			out = append(out, domain.ExpenseLimit{Category: category, Limit: scalarText(limit)})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
		return out
	}

	var list []map[string]any
	if err := json.Unmarshal([]byte(text), &list); err != nil {
		return nil
	}
	out := make([]domain.ExpenseLimit, 0, len(list))
	for _, entry := range list {
		category := scalarText(entry["category"])
		if category == "" {
			continue
		}
		out = append(out, domain.ExpenseLimit{Category: category, Limit: scalarText(entry["limit"])})
	}
	return out
}

// ParseNegotiations reads serialized negotiation entries keyed by debt-map id,
// either as an object of id -> entry or a list of entries carrying "debtId".
// Anything unparseable yields nil.
func ParseNegotiations(text string) []domain.DebtNegotiation {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	toNeg := func(id string, entry map[string]any) domain.DebtNegotiation {
		return domain.DebtNegotiation{
			DebtID:   id,
			Creditor: scalarText(entry["creditor"]),
			Proposal: scalarText(entry["proposal"]),
			Status:   scalarText(entry["status"]),
		}
	}

	var keyed map[string]map[string]any
	if err := json.Unmarshal([]byte(text), &keyed); err == nil {
		out := make([]domain.DebtNegotiation, 0, len(keyed))
		for id, entry := range keyed {
			out = append(out, toNeg(id, entry))
		}
		sort.Slice(out, func(i, j int) bool { return out[i].DebtID < out[j].DebtID })
		return out
	}

	var list []map[string]any
	if err := json.Unmarshal([]byte(text), &list); err != nil {
		return nil
	}
	out := make([]domain.DebtNegotiation, 0, len(list))
	for _, entry := range list {
		id := scalarText(entry["debtId"])
		if id == "" {
			continue
		}
		out = append(out, toNeg(id, entry))
	}
	return out
}

func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		return ""
	}
}

// UpgradeNested moves serialized nested lists out of sub-item text into the
// typed fields. Text that does not parse is left in place and the list stays
// empty.
func UpgradeNested(rec *domain.ChecklistRecord) {
	for _, step := range catalog {
		for _, sub := range step.SubItems {
			if sub.Nested == NestedNone {
				continue
			}
			s := rec.SubItem(step.ID, sub.ID)
			if s.Value == "" || len(s.ExpenseLimits) > 0 || len(s.Negotiations) > 0 {
				continue
			}
			switch sub.Nested {
			case NestedExpenseLimits:
				s.ExpenseLimits = ParseExpenseLimits(s.Value)
				if s.ExpenseLimits == nil {
					continue
				}
			case NestedDebtNegotiations:
				s.Negotiations = ParseNegotiations(s.Value)
				if s.Negotiations == nil {
					continue
				}
			}
			s.Value = ""
			rec.SetSubItem(step.ID, sub.ID, s)
		}
	}
}
