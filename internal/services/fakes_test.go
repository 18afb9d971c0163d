package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/oyilmaz/carmarket-backend/internal/models"
)

var errStoreDown = errors.New("store down")

// fakeStore backs the repository fakes with plain maps. WithTx holds txMu
// for the whole unit (standing in for the row lock) and snapshots state so
// a failed unit rolls back, which makes atomicity observable in tests.
type fakeStore struct {
	txMu sync.Mutex

	vehicles map[int64]models.Vehicle
	txs      map[int64]models.Transaction
	nextTxID int64

	calls []string

	failBegin        bool
	failInsert       bool
	failUpdateStatus bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		vehicles: map[int64]models.Vehicle{},
		txs:      map[int64]models.Transaction{},
	}
}

func (s *fakeStore) record(call string) { s.calls = append(s.calls, call) }

func (s *fakeStore) snapshot() (map[int64]models.Vehicle, map[int64]models.Transaction, int64) {
	vs := make(map[int64]models.Vehicle, len(s.vehicles))
	for k, v := range s.vehicles {
		vs[k] = v
	}
	ts := make(map[int64]models.Transaction, len(s.txs))
	for k, v := range s.txs {
		ts[k] = v
	}
	return vs, ts, s.nextTxID
}

type fakeVehicles struct{ s *fakeStore }

func (f *fakeVehicles) Create(_ context.Context, v models.Vehicle) (models.Vehicle, error) {
	f.s.record("vehicles.create")
	v.ID = int64(len(f.s.vehicles) + 1)
	f.s.vehicles[v.ID] = v
	return v, nil
}

func (f *fakeVehicles) GetByID(_ context.Context, id int64) (models.Vehicle, error) {
	f.s.record("vehicles.get")
	v, ok := f.s.vehicles[id]
	if !ok {
		return models.Vehicle{}, pgx.ErrNoRows
	}
	return v, nil
}

func (f *fakeVehicles) GetByIDForUpdate(_ context.Context, _ pgx.Tx, id int64) (models.Vehicle, error) {
	f.s.record("vehicles.get_for_update")
	v, ok := f.s.vehicles[id]
	if !ok {
		return models.Vehicle{}, pgx.ErrNoRows
	}
	return v, nil
}

func (f *fakeVehicles) List(_ context.Context) ([]models.Vehicle, error) {
	var out []models.Vehicle
	for _, v := range f.s.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeVehicles) ListByBrand(ctx context.Context, brand string) ([]models.Vehicle, error) {
	all, _ := f.List(ctx)
	var out []models.Vehicle
	for _, v := range all {
		if v.Brand == brand {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVehicles) ListByModel(ctx context.Context, model string) ([]models.Vehicle, error) {
	all, _ := f.List(ctx)
	var out []models.Vehicle
	for _, v := range all {
		if v.Model == model {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVehicles) ListByYear(ctx context.Context, year int) ([]models.Vehicle, error) {
	all, _ := f.List(ctx)
	var out []models.Vehicle
	for _, v := range all {
		if v.Year == year {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVehicles) Update(_ context.Context, v models.Vehicle) error {
	f.s.record("vehicles.update")
	cur, ok := f.s.vehicles[v.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	cur.Brand, cur.Model, cur.Year, cur.PriceCents = v.Brand, v.Model, v.Year, v.PriceCents
	f.s.vehicles[v.ID] = cur
	return nil
}

func (f *fakeVehicles) UpdateStatus(_ context.Context, _ pgx.Tx, id int64, status models.VehicleStatus) error {
	f.s.record("vehicles.update_status")
	if f.s.failUpdateStatus {
		return errStoreDown
	}
	v, ok := f.s.vehicles[id]
	if !ok {
		return pgx.ErrNoRows
	}
	v.Status = status
	f.s.vehicles[id] = v
	return nil
}

func (f *fakeVehicles) Delete(_ context.Context, id int64) error {
	f.s.record("vehicles.delete")
	if _, ok := f.s.vehicles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.s.vehicles, id)
	for tid, t := range f.s.txs {
		if t.VehicleID == id {
			delete(f.s.txs, tid)
		}
	}
	return nil
}

type fakeTransactions struct{ s *fakeStore }

func (f *fakeTransactions) Insert(_ context.Context, _ pgx.Tx, t models.Transaction) (models.Transaction, error) {
	f.s.record("transactions.insert")
	if f.s.failInsert {
		return models.Transaction{}, errStoreDown
	}
	f.s.nextTxID++
	t.ID = f.s.nextTxID
	f.s.txs[t.ID] = t
	return t, nil
}

func (f *fakeTransactions) GetByID(_ context.Context, id int64) (models.Transaction, error) {
	f.s.record("transactions.get")
	t, ok := f.s.txs[id]
	if !ok {
		return models.Transaction{}, pgx.ErrNoRows
	}
	return t, nil
}

func (f *fakeTransactions) ListAll(_ context.Context) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range f.s.txs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.After(out[j].TransactionDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeTransactions) WithTx(_ context.Context, fn func(pgx.Tx) error) error {
	f.s.txMu.Lock()
	defer f.s.txMu.Unlock()

	f.s.record("tx.begin")
	if f.s.failBegin {
		return errStoreDown
	}
	vs, ts, next := f.s.snapshot()
	if err := fn(nil); err != nil {
		f.s.vehicles, f.s.txs, f.s.nextTxID = vs, ts, next
		f.s.record("tx.rollback")
		return err
	}
	f.s.record("tx.commit")
	return nil
}

type fakeAuditLogs struct {
	mu   sync.Mutex
	logs []models.AuditLog
}

func (f *fakeAuditLogs) Create(_ context.Context, l models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, l)
	return nil
}

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]models.User
	seq  int
	fail bool
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]models.User{}} }

func (f *fakeUsers) Create(_ context.Context, username, email, passwordHash, role string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return models.User{}, errStoreDown
	}
	f.seq++
	u := models.User{
		ID:           "u-" + strconv.Itoa(f.seq),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, pgx.ErrNoRows
}

func (f *fakeUsers) List(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Role = role
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}
