package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

type Client struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	Role            Role
	Status          ClientStatus
	ChecklistAccess ChecklistAccess
	Checklist       ChecklistRecord
	Billing         BillingRecord
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the intake fields an operator must provide.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("client name is required")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return fmt.Errorf("client email %q is not a valid address", c.Email)
		}
	}
	if c.Role != "" && !ValidRoles[string(c.Role)] {
		return fmt.Errorf("invalid role %q (admin|secretary|regular)", c.Role)
	}
	if c.Status != "" && !ValidClientStatuses[string(c.Status)] {
		return fmt.Errorf("invalid status %q", c.Status)
	}
	if c.ChecklistAccess != "" && !ValidChecklistAccess[string(c.ChecklistAccess)] {
		return fmt.Errorf("invalid checklist access %q (locked|phase1|phase1_and_2)", c.ChecklistAccess)
	}
	return nil
}

// DisplayID truncates ID to 8 characters for tables.
func (c *Client) DisplayID() string {
	if len(c.ID) >= 8 {
		return c.ID[:8]
	}
	return c.ID
}

// Clone returns a deep copy so callers can mutate without touching cached state.
func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}
	out := *c
	out.Checklist = c.Checklist.Clone()
	out.Billing = c.Billing.Clone()
	return &out
}
