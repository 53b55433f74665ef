package domain

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleSecretary Role = "secretary"
	RoleRegular   Role = "regular"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[string]bool{
	"admin": true, "secretary": true, "regular": true,
}

type ClientStatus string

const (
	StatusPreRegistration     ClientStatus = "pre_registration"
	StatusActiveConsulting    ClientStatus = "active_consulting"
	StatusConvertedMentorship ClientStatus = "converted_mentorship"
	StatusInFollowUp          ClientStatus = "in_follow_up"
	StatusLost                ClientStatus = "lost"
)

// ValidClientStatuses is the canonical set of accepted lifecycle status strings.
var ValidClientStatuses = map[string]bool{
	"pre_registration": true, "active_consulting": true,
	"converted_mentorship": true, "in_follow_up": true, "lost": true,
}

// ChecklistAccess gates which checklist phases a client can see.
type ChecklistAccess string

const (
	AccessLocked     ChecklistAccess = "locked"
	AccessPhase1     ChecklistAccess = "phase1"
	AccessPhase1And2 ChecklistAccess = "phase1_and_2"
)

var ValidChecklistAccess = map[string]bool{
	"locked": true, "phase1": true, "phase1_and_2": true,
}

type PaymentMethod string

const (
	PaymentSingle      PaymentMethod = "single"
	PaymentInstallment PaymentMethod = "installment"
)

// Tier identifies one of the three billing modes.
type Tier string

const (
	TierConsulting Tier = "consulting"
	TierMentorship Tier = "mentorship"
	TierFollowUp   Tier = "follow_up"
)

// RecurringTiers lists the tiers billed per month.
var RecurringTiers = []Tier{TierMentorship, TierFollowUp}

// PlanID references one of the fixed mentorship subscription plans.
type PlanID string

const (
	PlanBasic    PlanID = "basic"
	PlanStandard PlanID = "standard"
	PlanPremium  PlanID = "premium"
)

type SaveStatus string

const (
	SaveCommitted SaveStatus = "committed"
	SavePending   SaveStatus = "pending"
	SaveFailed    SaveStatus = "failed"
)
