package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/oyilmaz/carmarket-backend/internal/models"
	repo "github.com/oyilmaz/carmarket-backend/internal/repository"
	"github.com/oyilmaz/carmarket-backend/internal/worker"
)

type VehicleService struct {
	r   repo.Vehicles
	log repo.AuditLogs
	wp  *worker.Pool
}

func NewVehicleService(r repo.Vehicles, l repo.AuditLogs, wp *worker.Pool) *VehicleService {
	return &VehicleService{r: r, log: l, wp: wp}
}

func (s *VehicleService) audit(id int64, action string) {
	eid := strconv.FormatInt(id, 10)
	s.wp.Submit(func() {
		_ = s.log.Create(context.Background(), models.AuditLog{
			EntityType: "vehicle",
			EntityID:   &eid,
			Action:     action,
		})
	})
}

// Add registers a new vehicle; intake is always available regardless of
// what the caller sent.
func (s *VehicleService) Add(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	v.Status = models.VehicleAvailable
	if err := v.Validate(); err != nil {
		return models.Vehicle{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	created, err := s.r.Create(ctx, v)
	if err != nil {
		return models.Vehicle{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.audit(created.ID, "created")
	return created, nil
}

func (s *VehicleService) GetByID(ctx context.Context, id int64) (models.Vehicle, error) {
	v, err := s.r.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Vehicle{}, fmt.Errorf("%w: vehicle %d", ErrNotFound, id)
	}
	return v, err
}

func (s *VehicleService) List(ctx context.Context) ([]models.Vehicle, error) {
	return s.r.List(ctx)
}

func (s *VehicleService) SearchByBrand(ctx context.Context, brand string) ([]models.Vehicle, error) {
	return s.r.ListByBrand(ctx, brand)
}

func (s *VehicleService) SearchByModel(ctx context.Context, model string) ([]models.Vehicle, error) {
	return s.r.ListByModel(ctx, model)
}

func (s *VehicleService) SearchByYear(ctx context.Context, year int) ([]models.Vehicle, error) {
	return s.r.ListByYear(ctx, year)
}

// Update rewrites brand/model/year/price. Status is not updatable here;
// it only moves through the sale workflow.
func (s *VehicleService) Update(ctx context.Context, v models.Vehicle) error {
	if v.ID <= 0 {
		return fmt.Errorf("%w: vehicle id must be positive", ErrInvalidInput)
	}
	v.Status = models.VehicleAvailable // satisfy Validate; repo ignores it
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	err := s.r.Update(ctx, v)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: vehicle %d", ErrNotFound, v.ID)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.audit(v.ID, "updated")
	return nil
}

func (s *VehicleService) Delete(ctx context.Context, id int64) error {
	err := s.r.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: vehicle %d", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.audit(id, "deleted")
	return nil
}
