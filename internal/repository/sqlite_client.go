package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/coachdesk/internal/db"
	"github.com/alexanderramin/coachdesk/internal/domain"
)

// SQLiteClientRepo implements ClientRepo with one row per client. The
// billing and checklist sub-documents live in JSON text columns.
type SQLiteClientRepo struct {
	db db.DBTX
}

// NewSQLiteClientRepo creates a new SQLiteClientRepo.
func NewSQLiteClientRepo(conn db.DBTX) *SQLiteClientRepo {
	return &SQLiteClientRepo{db: conn}
}

const clientColumns = `id, name, email, phone, role, status, checklist_access,
	billing, checklist_data, completed_steps, created_at, updated_at`

func (r *SQLiteClientRepo) Create(ctx context.Context, c *domain.Client) error {
	doc := toDocument(c)
	billing, err := json.Marshal(doc.Billing)
	if err != nil {
		return fmt.Errorf("encoding billing: %w", err)
	}
	data, err := json.Marshal(doc.ChecklistData)
	if err != nil {
		return fmt.Errorf("encoding checklist data: %w", err)
	}
	completed, err := json.Marshal(doc.CompletedSteps)
	if err != nil {
		return fmt.Errorf("encoding checklist progress: %w", err)
	}

	query := `INSERT INTO clients (` + clientColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		doc.ID,
		doc.Name,
		doc.Email,
		doc.Phone,
		doc.Role,
		doc.Status,
		doc.ChecklistAccess,
		string(billing),
		string(data),
		string(completed),
		doc.CreatedAt.Format(time.RFC3339),
		doc.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting client: %w", err)
	}
	return nil
}

func (r *SQLiteClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	c, err := r.scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name, created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		c, err := r.scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clients: %w", err)
	}
	return clients, nil
}

func (r *SQLiteClientRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	return requireAffected(res, id)
}

func (r *SQLiteClientRepo) UpdateProfile(ctx context.Context, c *domain.Client) error {
	query := `UPDATE clients SET name = ?, email = ?, phone = ?, role = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Name,
		c.Email,
		c.Phone,
		string(c.Role),
		string(c.Status),
		nowUTC(),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating client profile: %w", err)
	}
	return requireAffected(res, c.ID)
}

func (r *SQLiteClientRepo) UpdateBillingRecord(ctx context.Context, id string, rec domain.BillingRecord) error {
	billing, err := json.Marshal(billingToDocument(rec))
	if err != nil {
		return fmt.Errorf("encoding billing: %w", err)
	}
	return r.replaceDocument(ctx, id, keyBilling, string(billing))
}

func (r *SQLiteClientRepo) UpdateChecklistProgress(ctx context.Context, id string, completed []domain.StepID) error {
	data, err := json.Marshal(completedToDocument(completed))
	if err != nil {
		return fmt.Errorf("encoding checklist progress: %w", err)
	}
	return r.replaceDocument(ctx, id, keyCompleted, string(data))
}

func (r *SQLiteClientRepo) UpdateChecklistData(ctx context.Context, id string, rec domain.ChecklistRecord) error {
	data, err := json.Marshal(checklistToDocument(rec))
	if err != nil {
		return fmt.Errorf("encoding checklist data: %w", err)
	}
	return r.replaceDocument(ctx, id, keyChecklist, string(data))
}

func (r *SQLiteClientRepo) UpdateChecklistPhase(ctx context.Context, id string, access domain.ChecklistAccess) error {
	return r.updateColumn(ctx, id, "checklist_access", string(access))
}

var documentColumns = map[string]string{
	keyBilling:   "billing",
	keyChecklist: "checklist_data",
	keyCompleted: "completed_steps",
}

// replaceDocument overwrites a JSON column only while the columns it
// depends on still hold text that reads back fully. The update is
// conditional on those columns being unchanged since the check.
func (r *SQLiteClientRepo) replaceDocument(ctx context.Context, id, key, value string) error {
	guards := writeGuards(key)
	cols := make([]string, len(guards))
	for i, g := range guards {
		cols[i] = documentColumns[g]
	}

	current := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range current {
		dest[i] = &current[i]
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+strings.Join(cols, ", ")+` FROM clients WHERE id = ?`, id)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("client %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("reading client %s: %w", documentColumns[key], err)
	}

	query := `UPDATE clients SET ` + documentColumns[key] + ` = ?, updated_at = ? WHERE id = ?`
	args := []any{value, nowUTC(), id}
	for i, g := range guards {
		if !textReadable(g, current[i].String) {
			return fmt.Errorf("client %s %s: %w", id, cols[i], ErrUnreadableDocument)
		}
		query += ` AND ` + cols[i] + ` IS ?`
		args = append(args, current[i])
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating client %s: %w", documentColumns[key], err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("client %s: %w", id, ErrConcurrentUpdate)
	}
	return nil
}

// updateColumn overwrites one scalar column. column is always a constant
// chosen by the caller above.
func (r *SQLiteClientRepo) updateColumn(ctx context.Context, id, column string, value any) error {
	query := `UPDATE clients SET ` + column + ` = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, value, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating client %s: %w", column, err)
	}
	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteClientRepo) scanClient(s scanner) (*domain.Client, error) {
	var (
		id, name, email, phone   string
		role, status             string
		access                   sql.NullString
		billing, data, completed string
		createdAt, updatedAt     string
	)
	err := s.Scan(
		&id,
		&name,
		&email,
		&phone,
		&role,
		&status,
		&access,
		&billing,
		&data,
		&completed,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning client: %w", err)
	}

	tree := map[string]any{
		"id":              id,
		"name":            name,
		"email":           email,
		"phone":           phone,
		"role":            role,
		"status":          status,
		"checklistAccess": access.String,
		"createdAt":       createdAt,
		"updatedAt":       updatedAt,
	}
	// Columns that are not JSON read as empty. replaceDocument keeps them
	// from being overwritten.
	for key, text := range map[string]string{keyBilling: billing, keyChecklist: data, keyCompleted: completed} {
		if v, err := decodeTree([]byte(text)); err == nil {
			tree[key] = v
		}
	}
	return clientFromTree(tree), nil
}
