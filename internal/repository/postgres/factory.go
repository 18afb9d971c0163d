package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	repo "github.com/oyilmaz/carmarket-backend/internal/repository"
)

type Repositories struct {
	Vehicles     repo.Vehicles
	Transactions repo.Transactions
	Users        repo.Users
	AuditLogs    repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Vehicles:     &vehiclesRepo{pool},
		Transactions: &transactionsRepo{pool},
		Users:        &usersRepo{pool},
		AuditLogs:    &auditLogsRepo{pool},
	}
}
