package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oyilmaz/carmarket-backend/internal/metrics"
	"github.com/oyilmaz/carmarket-backend/internal/models"
	repo "github.com/oyilmaz/carmarket-backend/internal/repository"
	"github.com/oyilmaz/carmarket-backend/internal/worker"
)

type TransactionService struct {
	trx repo.Transactions
	veh repo.Vehicles
	log repo.AuditLogs
	wp  *worker.Pool
}

func NewTransactionService(t repo.Transactions, v repo.Vehicles, l repo.AuditLogs, wp *worker.Pool) *TransactionService {
	return &TransactionService{trx: t, veh: v, log: l, wp: wp}
}

func (s *TransactionService) audit(entityID, action string, details map[string]any) {
	id := entityID
	s.wp.Submit(func() {
		_ = s.log.Create(context.Background(), models.AuditLog{
			EntityType: "transaction",
			EntityID:   &id,
			Action:     action,
			Details:    details,
		})
	})
}

// CreateSale records the sale of a vehicle: one new transaction row plus
// the vehicle's status flip to sold, committed as a single unit. The
// vehicle row is locked for the duration, so concurrent sales against the
// same vehicle serialize and the loser gets ErrVehicleSold.
func (s *TransactionService) CreateSale(ctx context.Context, vehicleID int64, userID string, amountCents int64) (models.Transaction, error) {
	if strings.TrimSpace(userID) == "" {
		return models.Transaction{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	if vehicleID <= 0 {
		return models.Transaction{}, fmt.Errorf("%w: vehicle id must be positive", ErrInvalidInput)
	}
	if amountCents <= 0 {
		return models.Transaction{}, fmt.Errorf("%w: amount must be > 0", ErrInvalidInput)
	}

	var created models.Transaction
	err := s.trx.WithTx(ctx, func(tx pgx.Tx) error {
		v, err := s.veh.GetByIDForUpdate(ctx, tx, vehicleID)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: vehicle %d", ErrNotFound, vehicleID)
		}
		if err != nil {
			return fmt.Errorf("%w: fetch vehicle: %v", ErrPersistence, err)
		}
		if v.Status == models.VehicleSold {
			return fmt.Errorf("%w: vehicle %d", ErrVehicleSold, vehicleID)
		}

		created, err = s.trx.Insert(ctx, tx, models.Transaction{
			VehicleID:       vehicleID,
			UserID:          userID,
			AmountCents:     amountCents,
			TransactionDate: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("%w: insert transaction: %v", ErrPersistence, err)
		}

		if err := s.veh.UpdateStatus(ctx, tx, vehicleID, models.VehicleSold); err != nil {
			return fmt.Errorf("%w: mark vehicle sold: %v", ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrVehicleSold), errors.Is(err, ErrPersistence):
		default:
			// begin/commit failure surfaces as a raw pgx error
			err = fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		metrics.SalesFailed.Inc()
		return models.Transaction{}, err
	}

	metrics.SalesTotal.Inc()
	s.audit(fmt.Sprintf("%d", created.ID), "sale_completed", map[string]any{
		"vehicle_id":   vehicleID,
		"user_id":      userID,
		"amount_cents": amountCents,
	})
	return created, nil
}

func (s *TransactionService) GetByID(ctx context.Context, id int64) (models.Transaction, error) {
	t, err := s.trx.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Transaction{}, fmt.Errorf("%w: transaction %d", ErrNotFound, id)
	}
	return t, err
}

func (s *TransactionService) ListAll(ctx context.Context) ([]models.Transaction, error) {
	return s.trx.ListAll(ctx)
}
