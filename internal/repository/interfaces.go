package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/oyilmaz/carmarket-backend/internal/models"
)

type Vehicles interface {
	Create(ctx context.Context, v models.Vehicle) (models.Vehicle, error)
	GetByID(ctx context.Context, id int64) (models.Vehicle, error)
	List(ctx context.Context) ([]models.Vehicle, error)
	ListByBrand(ctx context.Context, brand string) ([]models.Vehicle, error)
	ListByModel(ctx context.Context, model string) ([]models.Vehicle, error)
	ListByYear(ctx context.Context, year int) ([]models.Vehicle, error)
	Update(ctx context.Context, v models.Vehicle) error
	Delete(ctx context.Context, id int64) error

	// Tx-scoped reads/writes used by the sale workflow. GetByIDForUpdate
	// locks the row until the enclosing transaction ends.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (models.Vehicle, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status models.VehicleStatus) error
}

type Transactions interface {
	// Insert is only callable with a transaction handle obtained from
	// WithTx; there is no auto-commit insert path.
	Insert(ctx context.Context, tx pgx.Tx, t models.Transaction) (models.Transaction, error)
	GetByID(ctx context.Context, id int64) (models.Transaction, error)
	ListAll(ctx context.Context) ([]models.Transaction, error)

	// WithTx runs fn inside a single DB transaction: commit if fn returns
	// nil, rollback otherwise.
	WithTx(ctx context.Context, fn func(pgx.Tx) error) error
}

type Users interface {
	Create(ctx context.Context, username, email, passwordHash, role string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id, role string) error
	Delete(ctx context.Context, id string) error
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
