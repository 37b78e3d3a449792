package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tablepos/internal/domain"
	"tablepos/internal/pos"
)

type TableRepo struct{ db Queryer }

func NewTableRepo(db Queryer) *TableRepo { return &TableRepo{db: db} }

const tableCols = `id, number, seats, status, current_order_id, server, occupied_since, version`

type tableRow struct {
	ID             string         `db:"id"`
	Number         int            `db:"number"`
	Seats          int            `db:"seats"`
	Status         string         `db:"status"`
	CurrentOrderID sql.NullString `db:"current_order_id"`
	Server         sql.NullString `db:"server"`
	OccupiedSince  sql.NullString `db:"occupied_since"`
	Version        int            `db:"version"`
}

func (row tableRow) toDomain() (domain.Table, error) {
	t := domain.Table{
		ID:             row.ID,
		Number:         row.Number,
		Seats:          row.Seats,
		Status:         domain.TableStatus(row.Status),
		CurrentOrderID: row.CurrentOrderID.String,
		Server:         row.Server.String,
		Version:        row.Version,
	}
	if row.OccupiedSince.Valid {
		since, err := parseTime(row.OccupiedSince.String)
		if err != nil {
			return domain.Table{}, err
		}
		t.OccupiedSince = &since
	}
	return t, nil
}

// List returns the floor ordered by table number.
func (r *TableRepo) List(ctx context.Context) ([]domain.Table, error) {
	var rows []tableRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, `SELECT `+tableCols+` FROM dining_tables ORDER BY number`); err != nil {
		return nil, err
	}
	out := make([]domain.Table, 0, len(rows))
	for _, row := range rows {
		t, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *TableRepo) Get(ctx context.Context, id string) (domain.Table, error) {
	var row tableRow
	err := sqlx.GetContext(ctx, r.db, &row, `SELECT `+tableCols+` FROM dining_tables WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Table{}, fmt.Errorf("%w: %s", pos.ErrTableNotFound, id)
	}
	if err != nil {
		return domain.Table{}, err
	}
	return row.toDomain()
}

func (r *TableRepo) Insert(ctx context.Context, t domain.Table) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dining_tables(id, number, seats, status, version) VALUES(?,?,?,?,0)
	`, t.ID, t.Number, t.Seats, string(t.Status))
	return err
}

// Save writes occupancy fields if the stored version still equals t.Version,
// then bumps t.Version.
func (r *TableRepo) Save(ctx context.Context, t *domain.Table) error {
	var since sql.NullString
	if t.OccupiedSince != nil {
		since = sql.NullString{String: formatTime(*t.OccupiedSince), Valid: true}
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE dining_tables
		SET status = ?, current_order_id = ?, server = ?, occupied_since = ?, version = version + 1
		WHERE id = ? AND version = ?
	`, string(t.Status), nullString(t.CurrentOrderID), nullString(t.Server), since, t.ID, t.Version)
	if err := mustAffect(res, err, pos.ErrConflict, t.ID); err != nil {
		return err
	}
	t.Version++
	return nil
}

// Delete removes the table unless it changed since it was read.
func (r *TableRepo) Delete(ctx context.Context, t domain.Table) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dining_tables WHERE id = ? AND version = ?`, t.ID, t.Version)
	return mustAffect(res, err, pos.ErrConflict, t.ID)
}
