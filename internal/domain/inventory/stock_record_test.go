package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shopfront/backend/internal/domain/shared"
)

func newRecord(t *testing.T, onHand, threshold int64) *StockRecord {
	t.Helper()
	record, err := NewStockRecord(NewItemRef(uuid.New(), nil), decimal.NewFromInt(onHand), decimal.NewFromInt(threshold))
	assert.NoError(t, err)
	return record
}

func TestStockRecord_Apply_Deduct(t *testing.T) {
	record := newRecord(t, 20, 5)

	audit, err := record.Apply(decimal.NewFromInt(-3), ReasonOrderPlaced)

	assert.NoError(t, err)
	assert.True(t, record.OnHand.Equal(decimal.NewFromInt(17)))
	assert.True(t, audit.PreviousQuantity.Equal(decimal.NewFromInt(20)))
	assert.True(t, audit.NewQuantity.Equal(decimal.NewFromInt(17)))
	assert.True(t, audit.Delta.Equal(decimal.NewFromInt(-3)))
	assert.Equal(t, ReasonOrderPlaced, audit.Reason)
}

func TestStockRecord_Apply_RejectsNegativeResult(t *testing.T) {
	record := newRecord(t, 2, 0)

	_, err := record.Apply(decimal.NewFromInt(-3), ReasonOrderPlaced)

	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.True(t, record.OnHand.Equal(decimal.NewFromInt(2)))
}

func TestStockRecord_Apply_RejectsZeroDelta(t *testing.T) {
	record := newRecord(t, 2, 0)
	_, err := record.Apply(decimal.Zero, ReasonAdjustment)
	assert.Error(t, err)
}

func TestStockRecord_ThresholdCrossing_Below(t *testing.T) {
	record := newRecord(t, 12, 10)

	_, err := record.Apply(decimal.NewFromInt(-3), ReasonOrderPlaced)

	assert.NoError(t, err)
	events := record.GetDomainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, EventTypeStockBelowThreshold, events[0].EventType())
}

func TestStockRecord_Threshold_DeductionBelowThresholdAlertsAgain(t *testing.T) {
	record := newRecord(t, 8, 10)

	// Already below the threshold; every further deduction still alerts.
	_, err := record.Apply(decimal.NewFromInt(-2), ReasonOrderPlaced)

	assert.NoError(t, err)
	events := record.GetDomainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, EventTypeStockBelowThreshold, events[0].EventType())
}

func TestStockRecord_Threshold_DeductionStartingBelowAlerts(t *testing.T) {
	// Stock 5 with threshold 10: a paid checkout deducting 3 lands at 2 and
	// must raise a low-stock alert even though no crossing happened.
	record := newRecord(t, 5, 10)

	_, err := record.Apply(decimal.NewFromInt(-3), ReasonOrderPlaced)

	assert.NoError(t, err)
	events := record.GetDomainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, EventTypeStockBelowThreshold, events[0].EventType())
	assert.True(t, record.OnHand.Equal(decimal.NewFromInt(2)))
}

func TestStockRecord_Threshold_RestockStayingBelowIsQuiet(t *testing.T) {
	record := newRecord(t, 1, 10)

	// An increase that stays at or below the threshold is not a replenishment.
	_, err := record.Apply(decimal.NewFromInt(2), ReasonRestock)

	assert.NoError(t, err)
	assert.Empty(t, record.GetDomainEvents())
}

func TestStockRecord_ThresholdCrossing_Depleted(t *testing.T) {
	record := newRecord(t, 3, 10)

	_, err := record.Apply(decimal.NewFromInt(-3), ReasonOrderPlaced)

	assert.NoError(t, err)
	events := record.GetDomainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, EventTypeStockDepleted, events[0].EventType())
}

func TestStockRecord_ThresholdCrossing_Replenished(t *testing.T) {
	record := newRecord(t, 4, 10)

	_, err := record.Apply(decimal.NewFromInt(20), ReasonRestock)

	assert.NoError(t, err)
	events := record.GetDomainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, EventTypeStockReplenished, events[0].EventType())
}

func TestInsufficientStockError_Message(t *testing.T) {
	item := NewItemRef(uuid.New(), nil)
	err := &InsufficientStockError{Shortages: []Shortage{{
		Item:      item,
		Requested: decimal.NewFromInt(3),
		Available: decimal.NewFromInt(1),
	}}}

	assert.Contains(t, err.Error(), "requested 3, available 1")
}
