package database

import (
	"context"
	"database/sql"
	"fmt" // For error wrapping

	"yutai_notification_bot/internal/domain/benefit"
)

type PostgresBenefitRepository struct {
	db *sql.DB
}

func NewPostgresBenefitRepository(db *sql.DB) *PostgresBenefitRepository {
	return &PostgresBenefitRepository{db: db}
}

func (r *PostgresBenefitRepository) List(ctx context.Context) ([]*benefit.Benefit, error) {
	query := `SELECT id, name, amount, to_char(expiry_date, 'YYYY-MM-DD'), memo, created_at
               FROM yutai ORDER BY expiry_date, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing benefits: %w", err)
	}
	defer rows.Close()

	benefits := make([]*benefit.Benefit, 0)
	for rows.Next() {
		b := &benefit.Benefit{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Amount, &b.ExpiryDate, &b.Memo, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning benefit: %w", err)
		}
		benefits = append(benefits, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating benefits: %w", err)
	}
	return benefits, nil
}

func (r *PostgresBenefitRepository) Insert(ctx context.Context, in benefit.Input) error {
	query := `INSERT INTO yutai (name, amount, expiry_date, memo)
               VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, in.Name, in.Amount, benefit.FormatDate(in.ExpiryDate), in.Memo)
	if err != nil {
		return fmt.Errorf("error inserting benefit: %w", err)
	}
	return nil
}

func (r *PostgresBenefitRepository) Update(ctx context.Context, id benefit.ID, in benefit.Input) error {
	query := `UPDATE yutai
               SET name = $1, amount = $2, expiry_date = $3, memo = $4
               WHERE id = $5`

	res, err := r.db.ExecContext(ctx, query, in.Name, in.Amount, benefit.FormatDate(in.ExpiryDate), in.Memo, int64(id))
	if err != nil {
		return fmt.Errorf("error updating benefit %d: %w", id, err)
	}
	return expectOneRow(res, id)
}

func (r *PostgresBenefitRepository) Delete(ctx context.Context, id benefit.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM yutai WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("error deleting benefit %d: %w", id, err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id benefit.ID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected for benefit %d: %w", id, err)
	}
	if n == 0 {
		return benefit.ErrBenefitNotFound
	}
	return nil
}
