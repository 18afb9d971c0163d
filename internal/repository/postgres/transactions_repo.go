package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oyilmaz/carmarket-backend/internal/models"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

func (r *transactionsRepo) Insert(ctx context.Context, tx pgx.Tx, t models.Transaction) (models.Transaction, error) {
	err := tx.QueryRow(ctx, `
		INSERT INTO transactions (vehicle_id, user_id, amount_cents, transaction_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		t.VehicleID, t.UserID, t.AmountCents, t.TransactionDate,
	).Scan(&t.ID)
	return t, err
}

func (r *transactionsRepo) GetByID(ctx context.Context, id int64) (models.Transaction, error) {
	var t models.Transaction
	err := r.pool.QueryRow(ctx, `
		SELECT id, vehicle_id, user_id, amount_cents, transaction_date
		  FROM transactions
		 WHERE id=$1`, id,
	).Scan(&t.ID, &t.VehicleID, &t.UserID, &t.AmountCents, &t.TransactionDate)
	return t, err
}

func (r *transactionsRepo) ListAll(ctx context.Context) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, vehicle_id, user_id, amount_cents, transaction_date
		  FROM transactions
		 ORDER BY transaction_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.VehicleID, &t.UserID, &t.AmountCents, &t.TransactionDate); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *transactionsRepo) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
