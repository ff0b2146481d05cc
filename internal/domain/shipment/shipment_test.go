package shipment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
)

func TestNewShipment(t *testing.T) {
	t.Run("Creates batch with all counters at initial quantity", func(t *testing.T) {
		s, err := NewShipment(
			uuid.New(), "S-001", day(2024, 1, 1), 100,
			decimal.NewFromFloat(5.00), decimal.NewFromFloat(9.00),
		)
		require.NoError(t, err)
		assert.Equal(t, int64(100), s.InitialQuantity)
		assert.Equal(t, int64(100), s.CurrentQuantity)
		assert.Equal(t, int64(100), s.RemainingQuantity)
		assert.True(t, s.Active)
	})

	t.Run("Rejects empty product", func(t *testing.T) {
		_, err := NewShipment(uuid.Nil, "S-001", day(2024, 1, 1), 100, decimal.NewFromInt(5), decimal.NewFromInt(9))
		assert.Error(t, err)
	})

	t.Run("Rejects non-positive quantity", func(t *testing.T) {
		_, err := NewShipment(uuid.New(), "S-001", day(2024, 1, 1), 0, decimal.NewFromInt(5), decimal.NewFromInt(9))
		assert.Error(t, err)
	})

	t.Run("Rejects non-positive prices", func(t *testing.T) {
		_, err := NewShipment(uuid.New(), "S-001", day(2024, 1, 1), 100, decimal.Zero, decimal.NewFromInt(9))
		assert.ErrorIs(t, err, shared.ErrInvalidPrice)
	})

	t.Run("Rejects zero arrival date", func(t *testing.T) {
		_, err := NewShipment(uuid.New(), "S-001", time.Time{}, 100, decimal.NewFromInt(5), decimal.NewFromInt(9))
		assert.Error(t, err)
	})
}

func TestApplyAdjustment(t *testing.T) {
	newBatch := func(t *testing.T) *Shipment {
		s, err := NewShipment(uuid.New(), "S-001", day(2024, 1, 1), 10, decimal.NewFromInt(5), decimal.NewFromInt(9))
		require.NoError(t, err)
		return s
	}

	t.Run("Positive delta raises both counters", func(t *testing.T) {
		s := newBatch(t)
		require.NoError(t, s.ApplyAdjustment(5))
		assert.Equal(t, int64(15), s.CurrentQuantity)
		assert.Equal(t, int64(15), s.RemainingQuantity)
		assert.Equal(t, int64(10), s.InitialQuantity)
	})

	t.Run("Negative delta within remaining stock succeeds", func(t *testing.T) {
		s := newBatch(t)
		require.NoError(t, s.ApplyAdjustment(-10))
		assert.Equal(t, int64(0), s.RemainingQuantity)
	})

	t.Run("Negative delta below zero is rejected", func(t *testing.T) {
		s := newBatch(t)
		err := s.ApplyAdjustment(-11)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(10), s.RemainingQuantity)
	})

	t.Run("Zero delta is rejected", func(t *testing.T) {
		s := newBatch(t)
		assert.Error(t, s.ApplyAdjustment(0))
	})
}

func TestShipmentCommitConsumption(t *testing.T) {
	s, err := NewShipment(uuid.New(), "S-001", day(2024, 1, 1), 10, decimal.NewFromInt(5), decimal.NewFromInt(9))
	require.NoError(t, err)

	t.Run("Decrements remaining but not current", func(t *testing.T) {
		require.NoError(t, s.CommitConsumption(4))
		assert.Equal(t, int64(6), s.RemainingQuantity)
		assert.Equal(t, int64(10), s.CurrentQuantity)
	})

	t.Run("Rejects over-consumption", func(t *testing.T) {
		err := s.CommitConsumption(7)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})
}

func TestNewStockAdjustment(t *testing.T) {
	t.Run("Subtract carries a negative delta", func(t *testing.T) {
		adj, err := NewStockAdjustment(uuid.New(), AdjustmentTypeSubtract, 3, "damage", day(2024, 5, 1))
		require.NoError(t, err)
		assert.Equal(t, int64(-3), adj.Delta)
	})

	t.Run("Add carries a positive delta", func(t *testing.T) {
		adj, err := NewStockAdjustment(uuid.New(), AdjustmentTypeAdd, 3, "recount", day(2024, 5, 1))
		require.NoError(t, err)
		assert.Equal(t, int64(3), adj.Delta)
	})

	t.Run("Rejects invalid type", func(t *testing.T) {
		_, err := NewStockAdjustment(uuid.New(), AdjustmentType("remove"), 3, "", day(2024, 5, 1))
		assert.Error(t, err)
	})
}
