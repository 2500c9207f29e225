package commands_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"agritrade/internal/core/application/usecases/commands"
	"agritrade/internal/core/domain/model/audit"
	"agritrade/internal/core/domain/model/contract"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/listing"
	"agritrade/internal/core/domain/model/lot"
	"agritrade/internal/core/domain/model/order"
	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/domain/model/storage"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/core/ports"
	"agritrade/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the database shared by every unit of work
// of a test. Lots are kept as snapshots so the compare-and-swap behaves like postgres;
// other aggregates are stored by pointer.
type memStore struct {
	mu sync.Mutex

	lots         map[kernel.UUID]lotRow
	declarations map[kernel.UUID]*lot.HarvestDeclaration
	listings     map[kernel.UUID]*listing.Listing
	orders       map[kernel.UUID]*order.Order
	contracts    map[kernel.UUID]*contract.Contract
	transporters map[kernel.UUID]*transport.Transporter
	requests     map[kernel.UUID]*transport.Request
	facilities   map[kernel.UUID]*storage.Facility
	bookings     map[kernel.UUID]*storage.Booking
	entries      map[kernel.UUID]*settlement.LedgerEntry
	balances     map[kernel.UUID]*settlement.FarmerBalance
	audits       []*audit.Record

	commits int
}

type lotRow struct {
	l         *lot.Lot
	available decimal.Decimal
	status    lot.Status
	version   int64
}

func newMemStore() *memStore {
	return &memStore{
		lots:         map[kernel.UUID]lotRow{},
		declarations: map[kernel.UUID]*lot.HarvestDeclaration{},
		listings:     map[kernel.UUID]*listing.Listing{},
		orders:       map[kernel.UUID]*order.Order{},
		contracts:    map[kernel.UUID]*contract.Contract{},
		transporters: map[kernel.UUID]*transport.Transporter{},
		requests:     map[kernel.UUID]*transport.Request{},
		facilities:   map[kernel.UUID]*storage.Facility{},
		bookings:     map[kernel.UUID]*storage.Booking{},
		entries:      map[kernel.UUID]*settlement.LedgerEntry{},
		balances:     map[kernel.UUID]*settlement.FarmerBalance{},
	}
}

func (s *memStore) Create() commands.UoW { return &memUoW{s: s} }

func (s *memStore) lot(id kernel.UUID) lotRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lots[id]
}

func (s *memStore) auditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, 0, len(s.audits))
	for _, r := range s.audits {
		actions = append(actions, r.Action())
	}
	return actions
}

type memUoW struct {
	s *memStore
}

func (u *memUoW) Begin(context.Context) error { return nil }

func (u *memUoW) Commit(context.Context) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	u.s.commits++
	return nil
}

func (u *memUoW) Rollback(context.Context) error { return nil }

func (u *memUoW) LotRepository() ports.LotRepository { return memLots{u.s} }
func (u *memUoW) HarvestDeclarationRepository() ports.HarvestDeclarationRepository {
	return memDeclarations{u.s}
}
func (u *memUoW) ListingRepository() ports.ListingRepository         { return memListings{u.s} }
func (u *memUoW) OrderRepository() ports.OrderRepository             { return memOrders{u.s} }
func (u *memUoW) ContractRepository() ports.ContractRepository       { return memContracts{u.s} }
func (u *memUoW) TransporterRepository() ports.TransporterRepository { return memTransporters{u.s} }
func (u *memUoW) TransportRequestRepository() ports.TransportRequestRepository {
	return memRequests{u.s}
}
func (u *memUoW) StorageFacilityRepository() ports.StorageFacilityRepository {
	return memFacilities{u.s}
}
func (u *memUoW) StorageBookingRepository() ports.StorageBookingRepository { return memBookings{u.s} }
func (u *memUoW) LedgerRepository() ports.LedgerRepository                 { return memEntries{u.s} }
func (u *memUoW) FarmerBalanceRepository() ports.FarmerBalanceRepository   { return memBalances{u.s} }
func (u *memUoW) AuditRepository() ports.AuditRepository                   { return memAudits{u.s} }

type memLots struct{ s *memStore }

func (r memLots) Add(_ context.Context, l *lot.Lot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lots[l.ID()] = lotRow{l: l, available: l.AvailableKg(), status: l.Status(), version: l.Version()}
	return nil
}

func (r memLots) Update(_ context.Context, l *lot.Lot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.lots[l.ID()]
	if !ok || row.version != l.Version() {
		return errs.NewVersionIsInvalidError("lot")
	}
	r.s.lots[l.ID()] = lotRow{l: l, available: l.AvailableKg(), status: l.Status(), version: row.version + 1}
	return nil
}

func (r memLots) Get(_ context.Context, id kernel.UUID) (*lot.Lot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.lots[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("lot", id)
	}
	return lot.RestoreLot(id, row.l.CooperativeID(), row.l.FarmerID(), row.l.Crop(), row.l.QuantityKg(),
		row.available, row.l.QualityGrade(), row.l.ExpectedHarvestDate(), row.status, row.l.Verified(), row.version)
}

func (r memLots) Reserve(_ context.Context, l *lot.Lot, expected decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.lots[l.ID()]
	if !ok || row.version != l.Version() || row.status != lot.Listed || !row.available.Equal(expected) {
		return errs.NewVersionIsInvalidError("lot")
	}
	r.s.lots[l.ID()] = lotRow{l: l, available: l.AvailableKg(), status: l.Status(), version: row.version + 1}
	return nil
}

func (r memLots) SumListedKg(_ context.Context, cooperativeID kernel.UUID, crop string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := decimal.Zero
	for _, row := range r.s.lots {
		if row.status == lot.Listed && row.l.CooperativeID().IsEqual(cooperativeID) && row.l.Crop() == crop {
			sum = sum.Add(row.available)
		}
	}
	return sum, nil
}

type memDeclarations struct{ s *memStore }

func (r memDeclarations) Add(_ context.Context, d *lot.HarvestDeclaration) error {
	return put(r.s, r.s.declarations, d.ID(), d)
}

func (r memDeclarations) Update(_ context.Context, d *lot.HarvestDeclaration) error {
	return put(r.s, r.s.declarations, d.ID(), d)
}

func (r memDeclarations) Get(_ context.Context, id kernel.UUID) (*lot.HarvestDeclaration, error) {
	return get(r.s, r.s.declarations, "harvest declaration", id)
}

type memListings struct{ s *memStore }

func (r memListings) Add(_ context.Context, l *listing.Listing) error {
	return put(r.s, r.s.listings, l.ID(), l)
}

func (r memListings) Update(_ context.Context, l *listing.Listing) error {
	return put(r.s, r.s.listings, l.ID(), l)
}

func (r memListings) Get(_ context.Context, id kernel.UUID) (*listing.Listing, error) {
	return get(r.s, r.s.listings, "listing", id)
}

func (r memListings) GetExpired(_ context.Context, now time.Time, limit int) ([]*listing.Listing, error) {
	return filter(r.s, r.s.listings, limit, func(l *listing.Listing) bool {
		return l.Status() == listing.Active && l.Window().HasEnded(now)
	}), nil
}

type memOrders struct{ s *memStore }

func (r memOrders) Add(_ context.Context, o *order.Order) error {
	return put(r.s, r.s.orders, o.ID(), o)
}

func (r memOrders) Update(_ context.Context, o *order.Order) error {
	return put(r.s, r.s.orders, o.ID(), o)
}

func (r memOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	return get(r.s, r.s.orders, "order", id)
}

func (r memOrders) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

type memContracts struct{ s *memStore }

func (r memContracts) Add(_ context.Context, c *contract.Contract) error {
	return put(r.s, r.s.contracts, c.ID(), c)
}

func (r memContracts) Update(_ context.Context, c *contract.Contract) error {
	return put(r.s, r.s.contracts, c.ID(), c)
}

func (r memContracts) Get(_ context.Context, id kernel.UUID) (*contract.Contract, error) {
	return get(r.s, r.s.contracts, "contract", id)
}

func (r memContracts) GetByOrderID(_ context.Context, orderID kernel.UUID) (*contract.Contract, error) {
	found := filter(r.s, r.s.contracts, 1, func(c *contract.Contract) bool { return c.OrderID().IsEqual(orderID) })
	if len(found) == 0 {
		return nil, errs.NewObjectNotFoundError("orderId", orderID)
	}
	return found[0], nil
}

type memTransporters struct{ s *memStore }

func (r memTransporters) Add(_ context.Context, t *transport.Transporter) error {
	return put(r.s, r.s.transporters, t.ID(), t)
}

func (r memTransporters) Update(_ context.Context, t *transport.Transporter) error {
	return put(r.s, r.s.transporters, t.ID(), t)
}

func (r memTransporters) Get(_ context.Context, id kernel.UUID) (*transport.Transporter, error) {
	return get(r.s, r.s.transporters, "transporter", id)
}

func (r memTransporters) GetAllActive(context.Context) ([]*transport.Transporter, error) {
	return filter(r.s, r.s.transporters, 0, (*transport.Transporter).IsActive), nil
}

type memRequests struct{ s *memStore }

func (r memRequests) Add(_ context.Context, req *transport.Request) error {
	return put(r.s, r.s.requests, req.ID(), req)
}

func (r memRequests) Update(_ context.Context, req *transport.Request) error {
	return put(r.s, r.s.requests, req.ID(), req)
}

func (r memRequests) Get(_ context.Context, id kernel.UUID) (*transport.Request, error) {
	return get(r.s, r.s.requests, "transport request", id)
}

func (r memRequests) GetByContractID(_ context.Context, contractID kernel.UUID) ([]*transport.Request, error) {
	return filter(r.s, r.s.requests, 0, func(req *transport.Request) bool {
		return req.ContractID() != nil && req.ContractID().IsEqual(contractID)
	}), nil
}

func (r memRequests) GetByTransporter(
	_ context.Context,
	transporterID kernel.UUID,
	statuses []transport.Status,
) ([]*transport.Request, error) {
	return filter(r.s, r.s.requests, 0, func(req *transport.Request) bool {
		if !req.IsAssignedTo(transporterID) {
			return false
		}
		for _, st := range statuses {
			if req.Status() == st {
				return true
			}
		}
		return false
	}), nil
}

func (r memRequests) CommittedLoadKg(_ context.Context, transporterID kernel.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, req := range filter(r.s, r.s.requests, 0, func(req *transport.Request) bool {
		return req.IsAssignedTo(transporterID) && req.Status().CountsTowardsCapacity()
	}) {
		sum = sum.Add(req.LoadKg())
	}
	return sum, nil
}

type memFacilities struct{ s *memStore }

func (r memFacilities) Add(_ context.Context, f *storage.Facility) error {
	return put(r.s, r.s.facilities, f.ID(), f)
}

func (r memFacilities) Update(_ context.Context, f *storage.Facility) error {
	return put(r.s, r.s.facilities, f.ID(), f)
}

func (r memFacilities) Get(_ context.Context, id kernel.UUID) (*storage.Facility, error) {
	return get(r.s, r.s.facilities, "storage facility", id)
}

type memBookings struct{ s *memStore }

func (r memBookings) Add(_ context.Context, b *storage.Booking) error {
	return put(r.s, r.s.bookings, b.ID(), b)
}

func (r memBookings) Update(_ context.Context, b *storage.Booking) error {
	return put(r.s, r.s.bookings, b.ID(), b)
}

func (r memBookings) Get(_ context.Context, id kernel.UUID) (*storage.Booking, error) {
	return get(r.s, r.s.bookings, "storage booking", id)
}

func (r memBookings) GetOpenByContractID(_ context.Context, contractID kernel.UUID) ([]*storage.Booking, error) {
	return filter(r.s, r.s.bookings, 0, func(b *storage.Booking) bool {
		open := b.Status() == storage.Reserved || b.Status() == storage.Active
		return open && b.ContractID() != nil && b.ContractID().IsEqual(contractID)
	}), nil
}

func (r memBookings) GetDue(_ context.Context, now time.Time, limit int) ([]*storage.Booking, error) {
	return filter(r.s, r.s.bookings, limit, func(b *storage.Booking) bool {
		return b.IsDueForActivation(now) || b.IsExpired(now)
	}), nil
}

type memEntries struct{ s *memStore }

func (r memEntries) Add(_ context.Context, e *settlement.LedgerEntry) error {
	return put(r.s, r.s.entries, e.ID(), e)
}

func (r memEntries) Update(_ context.Context, e *settlement.LedgerEntry) error {
	return put(r.s, r.s.entries, e.ID(), e)
}

func (r memEntries) GetEscrow(_ context.Context, contractID kernel.UUID) (*settlement.LedgerEntry, error) {
	found := filter(r.s, r.s.entries, 1, func(e *settlement.LedgerEntry) bool {
		return e.Type() == settlement.Escrow && e.ContractID().IsEqual(contractID)
	})
	if len(found) == 0 {
		return nil, errs.NewObjectNotFoundError("escrow", contractID)
	}
	return found[0], nil
}

type memBalances struct{ s *memStore }

func (r memBalances) Add(_ context.Context, b *settlement.FarmerBalance) error {
	return put(r.s, r.s.balances, b.ID(), b)
}

func (r memBalances) Update(_ context.Context, b *settlement.FarmerBalance) error {
	return put(r.s, r.s.balances, b.ID(), b)
}

func (r memBalances) Get(_ context.Context, id kernel.UUID) (*settlement.FarmerBalance, error) {
	return get(r.s, r.s.balances, "farmer balance", id)
}

func (r memBalances) GetByContractID(_ context.Context, contractID kernel.UUID) ([]*settlement.FarmerBalance, error) {
	return filter(r.s, r.s.balances, 0, func(b *settlement.FarmerBalance) bool {
		return b.ContractID().IsEqual(contractID)
	}), nil
}

func (r memBalances) GetPending(_ context.Context, limit int) ([]*settlement.FarmerBalance, error) {
	pending := filter(r.s, r.s.balances, 0, func(b *settlement.FarmerBalance) bool {
		return b.Status() == settlement.PayoutPending
	})
	sort.Slice(pending, func(i, j int) bool { return pending[i].FarmerID().String() < pending[j].FarmerID().String() })
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

type memAudits struct{ s *memStore }

func (r memAudits) Add(_ context.Context, record *audit.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audits = append(r.s.audits, record)
	return nil
}

func put[T any](s *memStore, m map[kernel.UUID]T, id kernel.UUID, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m[id] = v
	return nil
}

func get[T any](s *memStore, m map[kernel.UUID]T, name string, id kernel.UUID) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := m[id]
	if !ok {
		var zero T
		return zero, errs.NewObjectNotFoundError(name, id)
	}
	return v, nil
}

func filter[T any](s *memStore, m map[kernel.UUID]T, limit int, keep func(T) bool) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0)
	for _, v := range m {
		if keep(v) {
			out = append(out, v)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// allowAll passes every role check; party checks still apply.
type allowAll struct{}

func (allowAll) Authorize(kernel.Actor, string, string) error { return nil }

// memLocker hands out one holder per key.
type memLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemLocker() *memLocker { return &memLocker{held: map[string]bool{}} }

func (l *memLocker) Obtain(_ context.Context, key string, _ time.Duration) (ports.Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, ports.ErrLockNotObtained
	}
	l.held[key] = true
	return memLock{l: l, key: key}, nil
}

type memLock struct {
	l   *memLocker
	key string
}

func (m memLock) Release(context.Context) error {
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	delete(m.l.held, m.key)
	return nil
}
