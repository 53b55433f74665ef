package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/coachdesk/internal/checklist"
	"github.com/alexanderramin/coachdesk/internal/domain"
)

// Stored field names shared by every adapter.
const (
	keyBilling   = "billing"
	keyChecklist = "checklistData"
	keyCompleted = "completedSteps"
)

// clientDocument is the persisted shape written by every adapter. SQLite
// stores the nested parts as JSON columns, Mongo as one document, Redis as
// one JSON value. Reads never decode into it: see clientFromTree.
type clientDocument struct {
	ID              string                  `json:"id" bson:"_id"`
	Name            string                  `json:"name" bson:"name"`
	Email           string                  `json:"email,omitempty" bson:"email,omitempty"`
	Phone           string                  `json:"phone,omitempty" bson:"phone,omitempty"`
	Role            string                  `json:"role" bson:"role"`
	Status          string                  `json:"status" bson:"status"`
	ChecklistAccess string                  `json:"checklistAccess" bson:"checklistAccess"`
	Billing         billingDocument         `json:"billing" bson:"billing"`
	ChecklistData   map[string]stepDocument `json:"checklistData" bson:"checklistData"`
	CompletedSteps  []int                   `json:"completedSteps" bson:"completedSteps"`
	CreatedAt       time.Time               `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt" bson:"updatedAt"`
}

type billingDocument struct {
	Consulting *consultingDocument `json:"consulting,omitempty" bson:"consulting,omitempty"`
	Mentorship *recurringDocument  `json:"mentorship,omitempty" bson:"mentorship,omitempty"`
	FollowUp   *recurringDocument  `json:"followUp,omitempty" bson:"followUp,omitempty"`
}

// Amounts are written as decimal strings.
type consultingDocument struct {
	BaseValue        string `json:"baseValue" bson:"baseValue"`
	PaymentMethod    string `json:"paymentMethod" bson:"paymentMethod"`
	HasDownPayment   bool   `json:"hasDownPayment" bson:"hasDownPayment"`
	DownPaymentValue string `json:"downPaymentValue" bson:"downPaymentValue"`
	Part1Paid        bool   `json:"part1Paid" bson:"part1Paid"`
	Part2Paid        bool   `json:"part2Paid" bson:"part2Paid"`
}

// recurringDocument may carry the legacy flat payments array, the month
// list, or both.
type recurringDocument struct {
	Months        []monthDocument `json:"months,omitempty" bson:"months,omitempty"`
	Payments      []bool          `json:"payments,omitempty" bson:"payments,omitempty"`
	ToolOnlySince *time.Time      `json:"toolOnlySince,omitempty" bson:"toolOnlySince,omitempty"`
	PlanID        string          `json:"subscriptionPlanId,omitempty" bson:"subscriptionPlanId,omitempty"`
	MonthlyValue  string          `json:"monthlyValue,omitempty" bson:"monthlyValue,omitempty"`
}

type monthDocument struct {
	Paid  bool   `json:"paid" bson:"paid"`
	Value string `json:"value" bson:"value"`
}

type stepDocument struct {
	SubItems map[string]subItemDocument `json:"subItems" bson:"subItems"`
}

type subItemDocument struct {
	Checked       bool                   `json:"checked" bson:"checked"`
	Value         string                 `json:"value,omitempty" bson:"value,omitempty"`
	ExpenseLimits []expenseLimitDocument `json:"expenseLimits,omitempty" bson:"expenseLimits,omitempty"`
	Negotiations  []negotiationDocument  `json:"negotiations,omitempty" bson:"negotiations,omitempty"`
}

type expenseLimitDocument struct {
	Category string `json:"category" bson:"category"`
	Limit    string `json:"limit" bson:"limit"`
}

type negotiationDocument struct {
	DebtID   string `json:"debtId" bson:"debtId"`
	Creditor string `json:"creditor,omitempty" bson:"creditor,omitempty"`
	Proposal string `json:"proposal,omitempty" bson:"proposal,omitempty"`
	Status   string `json:"status,omitempty" bson:"status,omitempty"`
}

func toDocument(c *domain.Client) clientDocument {
	return clientDocument{
		ID:              c.ID,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Role:            string(c.Role),
		Status:          string(c.Status),
		ChecklistAccess: string(c.ChecklistAccess),
		Billing:         billingToDocument(c.Billing),
		ChecklistData:   checklistToDocument(c.Checklist),
		CompletedSteps:  completedToDocument(c.Checklist.CompletedIDs()),
		CreatedAt:       c.CreatedAt.UTC(),
		UpdatedAt:       c.UpdatedAt.UTC(),
	}
}

func billingToDocument(b domain.BillingRecord) billingDocument {
	var out billingDocument
	if c := b.Consulting; c != nil {
		out.Consulting = &consultingDocument{
			BaseValue:        c.BaseValue.String(),
			PaymentMethod:    string(c.PaymentMethod),
			HasDownPayment:   c.HasDownPayment,
			DownPaymentValue: c.DownPaymentValue.String(),
			Part1Paid:        c.Part1Paid,
			Part2Paid:        c.Part2Paid,
		}
	}
	out.Mentorship = recurringToDocument(b.Mentorship)
	out.FollowUp = recurringToDocument(b.FollowUp)
	return out
}

func recurringToDocument(r *domain.RecurringBilling) *recurringDocument {
	if r == nil {
		return nil
	}
	out := &recurringDocument{
		ToolOnlySince: r.ToolOnlySince,
		PlanID:        string(r.PlanID),
	}
	if !r.MonthlyValue.IsZero() {
		out.MonthlyValue = r.MonthlyValue.String()
	}
	if len(r.Months) > 0 {
		out.Months = make([]monthDocument, len(r.Months))
		for i, m := range r.Months {
			out.Months[i] = monthDocument{Paid: m.Paid, Value: m.Value.String()}
		}
	}
	// Legacy flags are written back untouched until a mutation absorbs them.
	if len(r.LegacyPayments) > 0 {
		out.Payments = append([]bool(nil), r.LegacyPayments...)
	}
	return out
}

func checklistToDocument(rec domain.ChecklistRecord) map[string]stepDocument {
	out := make(map[string]stepDocument, len(rec.Steps))
	for id, st := range rec.Steps {
		subs := make(map[string]subItemDocument, len(st.SubItems))
		for sid, s := range st.SubItems {
			sd := subItemDocument{Checked: s.Checked, Value: s.Value}
			for _, l := range s.ExpenseLimits {
				sd.ExpenseLimits = append(sd.ExpenseLimits, expenseLimitDocument{Category: l.Category, Limit: l.Limit})
			}
			for _, n := range s.Negotiations {
				sd.Negotiations = append(sd.Negotiations, negotiationDocument{
					DebtID: n.DebtID, Creditor: n.Creditor, Proposal: n.Proposal, Status: n.Status,
				})
			}
			subs[string(sid)] = sd
		}
		out[strconv.Itoa(int(id))] = stepDocument{SubItems: subs}
	}
	return out
}

func completedToDocument(ids []domain.StepID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

// Reading works on the generic tree the decoders produce (maps, []any and
// scalars, see plain) so that one oddly typed field never costs the rest of
// the document. Each reader also reports whether everything it found was
// understood; writers refuse to overwrite a field that was not.

// clientFromTree builds a client from a whole stored document.
func clientFromTree(v any) *domain.Client {
	m, _ := v.(map[string]any)
	id := coerceString(m["_id"])
	if id == "" {
		id = coerceString(m["id"])
	}
	billing, _ := billingFromTree(m[keyBilling])
	rec, _ := checklistFromTree(m[keyChecklist], m[keyCompleted])

	c := &domain.Client{
		ID:              id,
		Name:            coerceString(m["name"]),
		Email:           coerceString(m["email"]),
		Phone:           coerceString(m["phone"]),
		Role:            domain.Role(coerceString(m["role"])),
		Status:          domain.ClientStatus(coerceString(m["status"])),
		ChecklistAccess: domain.ChecklistAccess(coerceString(m["checklistAccess"])),
		Billing:         billing,
		Checklist:       rec,
	}
	if t, ok := coerceTime(m["createdAt"]); ok && t != nil {
		c.CreatedAt = *t
	}
	if t, ok := coerceTime(m["updatedAt"]); ok && t != nil {
		c.UpdatedAt = *t
	}
	if c.Role == "" {
		c.Role = domain.RoleRegular
	}
	if c.Status == "" {
		c.Status = domain.StatusPreRegistration
	}
	if c.ChecklistAccess == "" {
		c.ChecklistAccess = domain.AccessLocked
	}
	return c
}

// fieldReadable reports whether the stored value of key was fully understood.
func fieldReadable(key string, v any) bool {
	switch key {
	case keyBilling:
		_, ok := billingFromTree(v)
		return ok
	case keyChecklist:
		rec := domain.NewChecklistRecord()
		return checklistDataFromTree(&rec, v)
	case keyCompleted:
		_, ok := completedFromTree(v)
		return ok
	default:
		return true
	}
}

// writeGuards lists the stored fields that must be readable before key is
// overwritten. Progress is derived from the checklist data, so it depends
// on both.
func writeGuards(key string) []string {
	switch key {
	case keyBilling, keyChecklist:
		return []string{key}
	case keyCompleted:
		return []string{keyChecklist, keyCompleted}
	default:
		return nil
	}
}

// object returns v as a map. Absent or empty values read as a nil map;
// anything else that is not an object is reported as not understood.
func object(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	return nil, isEmpty(v)
}

// list is the slice counterpart of object.
func list(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	return nil, isEmpty(v)
}

func billingFromTree(v any) (domain.BillingRecord, bool) {
	var out domain.BillingRecord
	m, ok := object(v)
	if !ok {
		return out, false
	}
	var consultingOK, mentorshipOK, followUpOK bool
	out.Consulting, consultingOK = consultingFromTree(m["consulting"])
	out.Mentorship, mentorshipOK = recurringFromTree(m["mentorship"])
	out.FollowUp, followUpOK = recurringFromTree(m["followUp"])
	return out, consultingOK && mentorshipOK && followUpOK
}

func consultingFromTree(v any) (*domain.ConsultingBilling, bool) {
	m, ok := object(v)
	if m == nil {
		return nil, ok
	}
	c := &domain.ConsultingBilling{
		BaseValue:        coerceDecimal(m["baseValue"]),
		PaymentMethod:    domain.PaymentMethod(coerceString(m["paymentMethod"])),
		HasDownPayment:   coerceBool(m["hasDownPayment"]),
		DownPaymentValue: coerceDecimal(m["downPaymentValue"]),
		Part1Paid:        coerceBool(m["part1Paid"]),
		Part2Paid:        coerceBool(m["part2Paid"]),
	}
	if c.PaymentMethod == "" {
		c.PaymentMethod = domain.PaymentSingle
	}
	return c, true
}

func recurringFromTree(v any) (*domain.RecurringBilling, bool) {
	m, ok := object(v)
	if m == nil {
		return nil, ok
	}
	since, sinceOK := coerceTime(m["toolOnlySince"])
	months, monthsOK := monthsFromTree(m["months"])
	return &domain.RecurringBilling{
		Months:         months,
		LegacyPayments: coerceBools(m["payments"]),
		ToolOnlySince:  since,
		PlanID:         domain.PlanID(coerceString(m["subscriptionPlanId"])),
		MonthlyValue:   coerceDecimal(m["monthlyValue"]),
	}, sinceOK && monthsOK
}

func monthsFromTree(v any) ([]domain.Month, bool) {
	items, ok := list(v)
	if len(items) == 0 {
		return nil, ok
	}
	out := make([]domain.Month, 0, len(items))
	for _, item := range items {
		m, isObject := item.(map[string]any)
		if !isObject {
			ok = false
			continue
		}
		out = append(out, domain.Month{Paid: coerceBool(m["paid"]), Value: coerceDecimal(m["value"])})
	}
	return out, ok
}

// checklistFromTree rebuilds the record, upgrades nested lists stored as
// text by older writers and recomputes the completed set from the data.
func checklistFromTree(data, completed any) (domain.ChecklistRecord, bool) {
	rec := domain.NewChecklistRecord()
	dataOK := checklistDataFromTree(&rec, data)
	ids, completedOK := completedFromTree(completed)
	for _, id := range ids {
		rec.Completed[id] = true
	}
	checklist.UpgradeNested(&rec)
	checklist.Reconcile(&rec)
	return rec, dataOK && completedOK
}

func checklistDataFromTree(rec *domain.ChecklistRecord, v any) bool {
	steps, ok := object(v)
	for key, sv := range steps {
		id, err := strconv.Atoi(key)
		step, isObject := object(sv)
		if err != nil || !isObject {
			ok = false
			continue
		}
		subs, isObject := object(step["subItems"])
		if !isObject {
			ok = false
			continue
		}
		for sid, raw := range subs {
			state, stateOK := subItemFromTree(raw)
			if !stateOK {
				ok = false
			}
			rec.SetSubItem(domain.StepID(id), domain.SubItemID(sid), state)
		}
	}
	return ok
}

func subItemFromTree(v any) (domain.SubItemState, bool) {
	m, ok := object(v)
	state := domain.SubItemState{
		Checked: coerceBool(m["checked"]),
		Value:   textValue(m["value"]),
	}

	limits, limitsOK := list(m["expenseLimits"])
	for _, item := range limits {
		l, isObject := item.(map[string]any)
		if !isObject {
			limitsOK = false
			continue
		}
		state.ExpenseLimits = append(state.ExpenseLimits, domain.ExpenseLimit{
			Category: coerceString(l["category"]),
			Limit:    coerceString(l["limit"]),
		})
	}

	negs, negsOK := list(m["negotiations"])
	for _, item := range negs {
		n, isObject := item.(map[string]any)
		if !isObject {
			negsOK = false
			continue
		}
		state.Negotiations = append(state.Negotiations, domain.DebtNegotiation{
			DebtID:   coerceString(n["debtId"]),
			Creditor: coerceString(n["creditor"]),
			Proposal: coerceString(n["proposal"]),
			Status:   coerceString(n["status"]),
		})
	}

	return state, ok && limitsOK && negsOK
}

// completedFromTree reads the completed-step list. Entries that are not
// step numbers are skipped.
func completedFromTree(v any) ([]domain.StepID, bool) {
	items, ok := list(v)
	var out []domain.StepID
	for _, item := range items {
		if id, isInt := coerceInt(item); isInt {
			out = append(out, domain.StepID(id))
		}
	}
	return out, ok
}

// textValue returns free text as stored. Structured values written by
// older clients are kept as JSON text so the nested-list upgrade can parse
// them.
func textValue(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	default:
		return coerceString(v)
	}
}

// decodeTree unmarshals JSON keeping numbers as json.Number so amounts do
// not pass through float64 on the way in. Empty input is an absent value.
func decodeTree(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return v, nil
}

// textReadable reports whether stored JSON text for key can be read and
// fully understood.
func textReadable(key, text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	tree, err := decodeTree([]byte(text))
	if err != nil {
		return false
	}
	return fieldReadable(key, tree)
}

func sortClients(clients []*domain.Client) {
	sort.SliceStable(clients, func(i, j int) bool {
		return clients[i].Name < clients[j].Name
	})
}
