package commands_test

import (
	"testing"
	"time"

	"agritrade/internal/core/application/usecases/commands"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormContractCommand(t *testing.T) {
	actor, _ := newBuyer(t)
	lotID := kernel.NewUUID()

	tests := []struct {
		name    string
		lots    []kernel.UUID
		price   decimal.Decimal
		wantErr error
	}{
		{name: "valid", lots: []kernel.UUID{lotID}, price: decimal.NewFromInt(1000)},
		{name: "zero price takes the offer", lots: []kernel.UUID{lotID}, price: decimal.Zero},
		{name: "no lots", lots: nil, price: decimal.Zero, wantErr: errs.ErrValueIsRequired},
		{name: "empty lot id", lots: []kernel.UUID{{}}, price: decimal.Zero, wantErr: errs.ErrValueIsRequired},
		{name: "negative price", lots: []kernel.UUID{lotID}, price: decimal.NewFromInt(-1), wantErr: errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := commands.NewFormContractCommand(actor, kernel.NewUUID(), kernel.NewUUID(), tt.lots, tt.price)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, cmd.Validate(), commands.ErrFormContractCommandIsNotConstructed)
				return
			}
			require.NoError(t, err)
			require.NoError(t, cmd.Validate())
			assert.Equal(t, tt.lots, cmd.LotIDs())
		})
	}
}

func TestNewFormContractCommand_CopiesLots(t *testing.T) {
	actor, _ := newBuyer(t)
	lots := []kernel.UUID{kernel.NewUUID()}
	cmd, err := commands.NewFormContractCommand(actor, kernel.NewUUID(), kernel.NewUUID(), lots, decimal.Zero)
	require.NoError(t, err)

	lots[0] = kernel.NewUUID()

	assert.NotEqual(t, lots[0], cmd.LotIDs()[0])
}

func TestNewCreateOrderCommand_RequiresTarget(t *testing.T) {
	actor, buyerID := newBuyer(t)

	_, err := commands.NewCreateOrderCommand(actor, newOrderRequest(t, buyerID, nil, nil))

	require.ErrorIs(t, err, commands.ErrOrderTargetIsRequired)
}

func TestNewCreateOrderCommand_Validation(t *testing.T) {
	actor, buyerID := newBuyer(t)
	coopID := kernel.NewUUID()
	req := newOrderRequest(t, buyerID, nil, &coopID)
	req.QuantityKg = decimal.Zero
	req.DeliveryLocation = ""

	_, err := commands.NewCreateOrderCommand(actor, req)

	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "quantityKg")
	assert.Contains(t, err.Error(), "deliveryLocation")
}

func TestNewAcceptJobCommand(t *testing.T) {
	transporterID := kernel.NewUUID()
	actor, err := kernel.NewActor(kernel.NewUUID(), kernel.Transporter, &transporterID)
	require.NoError(t, err)

	_, err = commands.NewAcceptJobCommand(actor, kernel.NewUUID(), "RAD 123 A", "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	cmd, err := commands.NewAcceptJobCommand(actor, kernel.NewUUID(), "RAD 123 A", "+250788000000")
	require.NoError(t, err)
	assert.Equal(t, "RAD 123 A", cmd.Truck())
	assert.Equal(t, "+250788000000", cmd.DriverPhone())
}

func TestNewFailPayoutCommand_RequiresReason(t *testing.T) {
	admin, err := kernel.NewActor(kernel.NewUUID(), kernel.Admin, nil)
	require.NoError(t, err)

	_, err = commands.NewFailPayoutCommand(admin, kernel.NewUUID(), "")

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestScheduledCommands_DefaultBatchSize(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 100, commands.NewExpireListingsCommand(now, 0).BatchSize())
	assert.Equal(t, 100, commands.NewDispatchPayoutsCommand(now, -5).BatchSize())
	assert.Equal(t, 25, commands.NewAdvanceStorageBookingsCommand(now, 25).BatchSize())
	assert.Equal(t, 100, commands.NewRelayOutboxCommand(0).BatchSize())
}
