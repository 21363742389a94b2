package supabase

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"yutai_notification_bot/internal/domain/benefit"

	postgrest "github.com/supabase-community/postgrest-go"
)

// row mirrors the JSON shape of the benefit table. The id column is the
// table's bigserial primary key.
type row struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Amount     *int64     `json:"amount"`
	ExpiryDate string     `json:"expiry_date"`
	Memo       *string    `json:"memo"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// writeRow is the body of insert and full-field update requests.
type writeRow struct {
	Name       string  `json:"name"`
	Amount     *int64  `json:"amount"`
	ExpiryDate string  `json:"expiry_date"`
	Memo       *string `json:"memo"`
}

func (r row) toDomain() *benefit.Benefit {
	b := &benefit.Benefit{
		ID:         benefit.ID(r.ID),
		Name:       r.Name,
		ExpiryDate: r.ExpiryDate,
	}
	if r.Amount != nil {
		b.Amount = sql.NullInt64{Int64: *r.Amount, Valid: true}
	}
	if r.Memo != nil {
		b.Memo = sql.NullString{String: *r.Memo, Valid: true}
	}
	if r.CreatedAt != nil {
		b.CreatedAt = *r.CreatedAt
	}
	return b
}

func fromInput(in benefit.Input) writeRow {
	w := writeRow{
		Name:       in.Name,
		ExpiryDate: benefit.FormatDate(in.ExpiryDate),
	}
	if in.Amount.Valid {
		amount := in.Amount.Int64
		w.Amount = &amount
	}
	if in.Memo.Valid {
		memo := in.Memo.String
		w.Memo = &memo
	}
	return w
}

// BenefitRepository implements benefit.Repository over a Supabase table.
// The PostgREST client takes no context, so ctx is only checked before each call.
type BenefitRepository struct {
	client *postgrest.Client
	table  string
}

func NewBenefitRepository(client *postgrest.Client, table string) *BenefitRepository {
	return &BenefitRepository{client: client, table: table}
}

func (r *BenefitRepository) List(ctx context.Context) ([]*benefit.Benefit, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("error listing benefits: %w", err)
	}

	var rows []row
	if _, err := r.client.From(r.table).Select("*", "", false).ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("error listing benefits: %w", err)
	}

	benefits := make([]*benefit.Benefit, 0, len(rows))
	for _, rw := range rows {
		benefits = append(benefits, rw.toDomain())
	}
	return benefits, nil
}

func (r *BenefitRepository) Insert(ctx context.Context, in benefit.Input) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("error inserting benefit: %w", err)
	}

	if _, _, err := r.client.From(r.table).Insert(fromInput(in), false, "", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("error inserting benefit: %w", err)
	}
	return nil
}

// Update rewrites every field of one row. An empty representation means no row
// matched the id.
func (r *BenefitRepository) Update(ctx context.Context, id benefit.ID, in benefit.Input) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("error updating benefit %d: %w", id, err)
	}

	var updated []row
	_, err := r.client.From(r.table).
		Update(fromInput(in), "representation", "").
		Eq("id", id.String()).
		ExecuteTo(&updated)
	if err != nil {
		return fmt.Errorf("error updating benefit %d: %w", id, err)
	}
	if len(updated) == 0 {
		return benefit.ErrBenefitNotFound
	}
	return nil
}

func (r *BenefitRepository) Delete(ctx context.Context, id benefit.ID) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("error deleting benefit %d: %w", id, err)
	}

	var deleted []row
	_, err := r.client.From(r.table).
		Delete("representation", "").
		Eq("id", id.String()).
		ExecuteTo(&deleted)
	if err != nil {
		return fmt.Errorf("error deleting benefit %d: %w", id, err)
	}
	if len(deleted) == 0 {
		return benefit.ErrBenefitNotFound
	}
	return nil
}
