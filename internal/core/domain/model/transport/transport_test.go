package transport_test

import (
	"testing"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 3, 6, 0, 0, 0, time.UTC)

func newRequest(t *testing.T, start time.Time) *transport.Request {
	t.Helper()
	w, err := kernel.NewTimeWindowFrom(start, 4*time.Hour)
	require.NoError(t, err)
	contractID := kernel.NewUUID()
	r, err := transport.NewRequest(transport.Params{
		ID:           kernel.NewUUID(),
		ContractID:   &contractID,
		Origin:       "Musanze cooperative store",
		Destination:  "Kigali",
		LoadKg:       decimal.NewFromInt(500),
		PickupWindow: w,
	}, now)
	require.NoError(t, err)
	return r
}

func TestDefaults(t *testing.T) {
	assert.True(t, transport.DefaultPrice(decimal.NewFromInt(500)).Equal(decimal.NewFromInt(35000)))

	w, err := transport.DefaultPickupWindow(now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(6*time.Hour), w.Start())
	assert.Equal(t, now.Add(18*time.Hour), w.End())

	r := newRequest(t, now)
	assert.True(t, r.Price().Equal(decimal.NewFromInt(35000)))
	assert.Equal(t, transport.Pending, r.Status())
	assert.Equal(t, "TransportRequested", r.DomainEvents()[0].Name)
}

func TestRequest_HappyPath(t *testing.T) {
	r := newRequest(t, now)
	driver := kernel.NewUUID()

	require.NoError(t, r.Assign(driver, now))
	require.NoError(t, r.Accept(driver, "RAB 123 A", "+250788000000"))
	require.NoError(t, r.PickUp(driver, now.Add(time.Hour)))
	require.NoError(t, r.MarkInTransit(driver))
	require.NoError(t, r.Deliver(driver, "left at gate", "https://proof/1.jpg", now.Add(3*time.Hour)))
	require.NoError(t, r.Complete())

	assert.Equal(t, transport.Completed, r.Status())
	assert.Equal(t, "RAB 123 A", r.Truck())
	assert.Equal(t, "left at gate", r.Notes())
	require.NotNil(t, r.PickedUpAt())
	require.NotNil(t, r.DeliveredAt())

	names := make([]string, 0)
	for _, e := range r.DomainEvents() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{
		"TransportRequested", "TransportAssigned", "TransportAccepted", "TransportPickedUp",
		"TransportInTransit", "TransportDelivered", "TransportCompleted",
	}, names)
}

func TestRequest_Transitions(t *testing.T) {
	driver := kernel.NewUUID()

	t.Run("reassignment while assigned", func(t *testing.T) {
		r := newRequest(t, now)
		other := kernel.NewUUID()
		require.NoError(t, r.Assign(driver, now))
		require.NoError(t, r.Assign(other, now))
		assert.True(t, r.IsAssignedTo(other))
		assert.ErrorIs(t, r.Accept(driver, "RAB", "07"), transport.ErrNotAssignee)
	})

	t.Run("no reassignment after acceptance", func(t *testing.T) {
		r := newRequest(t, now)
		require.NoError(t, r.Assign(driver, now))
		require.NoError(t, r.Accept(driver, "RAB", "07"))
		require.ErrorIs(t, r.Assign(kernel.NewUUID(), now), errs.ErrInvalidTransition)
		assert.True(t, r.IsAssignedTo(driver))
	})

	t.Run("delivery straight from pickup", func(t *testing.T) {
		r := newRequest(t, now)
		require.NoError(t, r.Assign(driver, now))
		require.NoError(t, r.Accept(driver, "RAB", "07"))
		require.NoError(t, r.PickUp(driver, now))
		require.NoError(t, r.Deliver(driver, "", "", now))
		assert.Equal(t, transport.Delivered, r.Status())
	})

	t.Run("pickup before acceptance fails and keeps status", func(t *testing.T) {
		r := newRequest(t, now)
		require.NoError(t, r.Assign(driver, now))
		require.ErrorIs(t, r.PickUp(driver, now), errs.ErrInvalidTransition)
		assert.Equal(t, transport.Assigned, r.Status())
	})

	t.Run("accept requires truck and driver", func(t *testing.T) {
		r := newRequest(t, now)
		require.NoError(t, r.Assign(driver, now))
		err := r.Accept(driver, "", "")
		require.ErrorIs(t, err, transport.ErrNoTruck)
		require.ErrorIs(t, err, transport.ErrNoDriver)
		assert.Equal(t, transport.Assigned, r.Status())
	})

	t.Run("cancel until picked up", func(t *testing.T) {
		r := newRequest(t, now)
		require.NoError(t, r.Cancel())
		assert.Equal(t, transport.Cancelled, r.Status())

		picked := newRequest(t, now)
		require.NoError(t, picked.Assign(driver, now))
		require.NoError(t, picked.Accept(driver, "RAB", "07"))
		require.NoError(t, picked.PickUp(driver, now))
		require.ErrorIs(t, picked.Cancel(), errs.ErrInvalidTransition)
		assert.True(t, picked.Status().HasGoods())
	})

	t.Run("unassigned request cannot be moved by anyone", func(t *testing.T) {
		r := newRequest(t, now)
		require.ErrorIs(t, r.Accept(driver, "RAB", "07"), errs.ErrInvalidTransition)
		require.ErrorIs(t, r.PickUp(driver, now), errs.ErrInvalidTransition)
		require.ErrorIs(t, r.MarkInTransit(driver), errs.ErrInvalidTransition)
		require.ErrorIs(t, r.Deliver(driver, "", "", now), errs.ErrInvalidTransition)
		assert.NotErrorIs(t, r.Accept(driver, "RAB", "07"), transport.ErrNotAssignee)
		assert.Equal(t, transport.Pending, r.Status())
	})

	t.Run("out of order move reports the state before the assignee", func(t *testing.T) {
		r := newRequest(t, now)
		require.NoError(t, r.Assign(driver, now))
		require.ErrorIs(t, r.Deliver(kernel.NewUUID(), "", "", now), errs.ErrInvalidTransition)
		require.ErrorIs(t, r.PickUp(kernel.NewUUID(), now), errs.ErrInvalidTransition)
	})

	t.Run("complete only after delivery", func(t *testing.T) {
		r := newRequest(t, now)
		require.ErrorIs(t, r.Complete(), errs.ErrInvalidTransition)
	})
}

func TestRequest_ConflictsWith(t *testing.T) {
	a := newRequest(t, now)
	overlapping := newRequest(t, now.Add(2*time.Hour))
	later := newRequest(t, now.Add(5*time.Hour))

	assert.True(t, a.ConflictsWith(overlapping))
	assert.False(t, a.ConflictsWith(later))
	assert.False(t, a.ConflictsWith(a))

	require.NoError(t, overlapping.Cancel())
	assert.False(t, a.ConflictsWith(overlapping))
}

func TestTransporter(t *testing.T) {
	tr, err := transport.NewTransporter(kernel.NewUUID(), "Kivu Haulage", decimal.NewFromInt(1000), "RAB 123 A", "+250788")
	require.NoError(t, err)
	assert.True(t, tr.IsActive())
	assert.False(t, tr.IsVerified())

	require.NoError(t, tr.CanCarry(decimal.NewFromInt(400), decimal.NewFromInt(600)))
	require.ErrorIs(t, tr.CanCarry(decimal.NewFromInt(401), decimal.NewFromInt(600)), transport.ErrCapacityExceeded)
	assert.True(t, tr.SpareCapacityKg(decimal.NewFromInt(600)).Equal(decimal.NewFromInt(400)))

	tr.Deactivate()
	require.ErrorIs(t, tr.CanCarry(decimal.NewFromInt(1), decimal.Zero), transport.ErrTransporterInactive)

	_, err = transport.NewTransporter(kernel.NewUUID(), "", decimal.Zero, "", "")
	require.ErrorIs(t, err, transport.ErrNameIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus(t *testing.T) {
	assert.ElementsMatch(t, []transport.Status{
		transport.Assigned, transport.Accepted, transport.PickedUp, transport.InTransit,
	}, transport.CapacityStatuses())
	for _, s := range transport.CapacityStatuses() {
		assert.True(t, s.CountsTowardsCapacity())
	}
	st, err := transport.StatusFromString("InTransit")
	require.NoError(t, err)
	assert.Equal(t, transport.InTransit, st)
	_, err = transport.StatusFromString("Lost")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
