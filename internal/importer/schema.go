package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure of a client roster import.
type ImportSchema struct {
	Clients []ClientImport `json:"clients"`
}

// ClientImport is one client row. Ref only identifies the row in error
// messages; stored clients always get a fresh id.
type ClientImport struct {
	Ref             string            `json:"ref,omitempty"`
	Name            string            `json:"name"`
	Email           string            `json:"email,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	Role            string            `json:"role,omitempty"`
	Status          string            `json:"status,omitempty"`
	ChecklistAccess string            `json:"checklist_access,omitempty"`
	Consulting      *ConsultingImport `json:"consulting,omitempty"`
	Mentorship      *RecurringImport  `json:"mentorship,omitempty"`
	FollowUp        *RecurringImport  `json:"follow_up,omitempty"`
}

// ConsultingImport carries amounts as strings so they never pass through float64.
type ConsultingImport struct {
	BaseValue        string `json:"base_value"`
	PaymentMethod    string `json:"payment_method,omitempty"`
	HasDownPayment   bool   `json:"has_down_payment,omitempty"`
	DownPaymentValue string `json:"down_payment_value,omitempty"`
	Part1Paid        bool   `json:"part1_paid,omitempty"`
	Part2Paid        bool   `json:"part2_paid,omitempty"`
}

// RecurringImport defines a mentorship or follow-up tier.
type RecurringImport struct {
	Plan         string        `json:"plan,omitempty"`
	MonthlyValue string        `json:"monthly_value,omitempty"`
	Months       []MonthImport `json:"months,omitempty"`
}

type MonthImport struct {
	Paid  bool   `json:"paid"`
	Value string `json:"value,omitempty"`
}

// LoadImportSchema reads and parses a client import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data)
}

func ParseImportSchema(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
