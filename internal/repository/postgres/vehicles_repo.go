package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oyilmaz/carmarket-backend/internal/models"
)

type vehiclesRepo struct{ pool *pgxpool.Pool }

const vehicleCols = `id, brand, model, year, price_cents, status, created_at, updated_at`

func scanVehicle(row pgx.Row) (models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(&v.ID, &v.Brand, &v.Model, &v.Year, &v.PriceCents, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (r *vehiclesRepo) Create(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	return scanVehicle(r.pool.QueryRow(ctx, `
		INSERT INTO vehicles (brand, model, year, price_cents, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+vehicleCols,
		v.Brand, v.Model, v.Year, v.PriceCents, v.Status,
	))
}

func (r *vehiclesRepo) GetByID(ctx context.Context, id int64) (models.Vehicle, error) {
	return scanVehicle(r.pool.QueryRow(ctx,
		`SELECT `+vehicleCols+` FROM vehicles WHERE id=$1`, id))
}

// GetByIDForUpdate locks the vehicle row for the rest of tx, so a
// concurrent sale against the same vehicle waits here and then sees the
// committed status.
func (r *vehiclesRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (models.Vehicle, error) {
	return scanVehicle(tx.QueryRow(ctx,
		`SELECT `+vehicleCols+` FROM vehicles WHERE id=$1 FOR UPDATE`, id))
}

func (r *vehiclesRepo) list(ctx context.Context, q string, args ...any) ([]models.Vehicle, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *vehiclesRepo) List(ctx context.Context) ([]models.Vehicle, error) {
	return r.list(ctx, `SELECT `+vehicleCols+` FROM vehicles ORDER BY id`)
}

func (r *vehiclesRepo) ListByBrand(ctx context.Context, brand string) ([]models.Vehicle, error) {
	return r.list(ctx, `SELECT `+vehicleCols+` FROM vehicles WHERE brand=$1 ORDER BY id`, brand)
}

func (r *vehiclesRepo) ListByModel(ctx context.Context, model string) ([]models.Vehicle, error) {
	return r.list(ctx, `SELECT `+vehicleCols+` FROM vehicles WHERE model=$1 ORDER BY id`, model)
}

func (r *vehiclesRepo) ListByYear(ctx context.Context, year int) ([]models.Vehicle, error) {
	return r.list(ctx, `SELECT `+vehicleCols+` FROM vehicles WHERE year=$1 ORDER BY id`, year)
}

// Update changes the descriptive fields only; status moves through
// UpdateStatus inside the sale workflow.
func (r *vehiclesRepo) Update(ctx context.Context, v models.Vehicle) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE vehicles
		   SET brand=$2, model=$3, year=$4, price_cents=$5, updated_at=now()
		 WHERE id=$1`,
		v.ID, v.Brand, v.Model, v.Year, v.PriceCents,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *vehiclesRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status models.VehicleStatus) error {
	ct, err := tx.Exec(ctx,
		`UPDATE vehicles SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *vehiclesRepo) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM vehicles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
