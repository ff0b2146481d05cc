package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appshipment "github.com/paul-kim93/ablcrossborder/internal/application/shipment"
	"github.com/paul-kim93/ablcrossborder/internal/domain/ledger"
	"github.com/paul-kim93/ablcrossborder/internal/domain/shared"
)

func seedCatalog(t *testing.T, env *testEnv) (*ledger.Seller, *ledger.Product) {
	t.Helper()
	ctx := context.Background()

	seller, err := ledger.NewSeller("Seller A", "a@example.com")
	require.NoError(t, err)
	require.NoError(t, env.sellers.Save(ctx, seller))

	product, err := ledger.NewProduct(seller.ID, "Widget", "W-1", decimal.NewFromInt(5), decimal.NewFromInt(9))
	require.NoError(t, err)
	require.NoError(t, env.products.Save(ctx, product))
	return seller, product
}

func seedStock(t *testing.T, env *testEnv, productID uuid.UUID, quantity int64) {
	t.Helper()
	_, err := env.shipmentService.CreateShipment(context.Background(), appshipment.CreateShipmentInput{
		ProductID:   productID,
		ShipmentNo:  "SH-" + uuid.NewString()[:8],
		ArrivalDate: time.Now().AddDate(0, -1, 0),
		Quantity:    quantity,
		SupplyPrice: decimal.NewFromInt(5),
		SalePrice:   decimal.NewFromInt(9),
	})
	require.NoError(t, err)
}

func TestIngestOrder(t *testing.T) {
	ctx := context.Background()
	orderTime := time.Now().Add(-time.Hour)

	t.Run("matches lines by product code", func(t *testing.T) {
		env := newTestEnv()
		_, product := seedCatalog(t, env)
		seedStock(t, env, product.ID, 10)

		order, err := env.orderService.IngestOrder(ctx, IngestOrderInput{
			OrderNo:   "O-1",
			BuyerID:   "buyer-1",
			OrderTime: orderTime,
			Status:    ledger.OrderStatusCompleted,
			Lines:     []IngestLineInput{{ProductCode: "W-1", Quantity: 3}},
		})
		require.NoError(t, err)

		lines, err := env.orders.LineItemsByOrder(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		require.NotNil(t, lines[0].ProductID)
		assert.Equal(t, product.ID, *lines[0].ProductID)
		assert.True(t, lines[0].SupplyPrice.Equal(decimal.NewFromInt(5)))

		total, err := env.summaries.Find(ctx, ledger.TotalScope())
		require.NoError(t, err)
		assert.Equal(t, int64(3), total.Cumulative.Quantity)
		assert.Equal(t, "27", total.Cumulative.SaleAmount.String())

		stock, err := env.shipmentService.ProductStock(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(7), stock)
	})

	t.Run("resolves lines through the code mapping table", func(t *testing.T) {
		env := newTestEnv()
		_, product := seedCatalog(t, env)
		mapping, err := ledger.NewProductCodeMapping(product.ID, "BOX-W1", 4)
		require.NoError(t, err)
		require.NoError(t, env.products.SaveMapping(ctx, mapping))

		order, err := env.orderService.IngestOrder(ctx, IngestOrderInput{
			OrderNo:   "O-1",
			BuyerID:   "buyer-1",
			OrderTime: orderTime,
			Status:    ledger.OrderStatusCompleted,
			Lines:     []IngestLineInput{{ProductCode: "BOX-W1", Quantity: 2}},
		})
		require.NoError(t, err)

		lines, err := env.orders.LineItemsByOrder(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, int64(8), lines[0].Quantity)
		assert.True(t, lines[0].SalePrice.Equal(decimal.NewFromInt(9)))
	})

	t.Run("stores unknown codes as unmatched lines", func(t *testing.T) {
		env := newTestEnv()
		seedCatalog(t, env)

		order, err := env.orderService.IngestOrder(ctx, IngestOrderInput{
			OrderNo:   "O-1",
			BuyerID:   "buyer-1",
			OrderTime: orderTime,
			Status:    ledger.OrderStatusCompleted,
			Lines:     []IngestLineInput{{ProductCode: "MYSTERY", Quantity: 2}},
		})
		require.NoError(t, err)

		lines, err := env.orders.LineItemsByOrder(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Nil(t, lines[0].ProductID)
		assert.True(t, lines[0].SupplyPrice.IsZero())

		_, err = env.summaries.Find(ctx, ledger.TotalScope())
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("rejects a duplicate order number", func(t *testing.T) {
		env := newTestEnv()
		_, product := seedCatalog(t, env)
		seedStock(t, env, product.ID, 10)

		input := IngestOrderInput{
			OrderNo:   "O-1",
			BuyerID:   "buyer-1",
			OrderTime: orderTime,
			Status:    ledger.OrderStatusCompleted,
			Lines:     []IngestLineInput{{ProductCode: "W-1", Quantity: 3}},
		}
		_, err := env.orderService.IngestOrder(ctx, input)
		require.NoError(t, err)

		_, err = env.orderService.IngestOrder(ctx, input)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_ORDER", domainErr.Code)

		total, err := env.summaries.Find(ctx, ledger.TotalScope())
		require.NoError(t, err)
		assert.Equal(t, int64(3), total.Cumulative.Quantity)
	})

	t.Run("cancelled orders count nothing and hold no stock", func(t *testing.T) {
		env := newTestEnv()
		_, product := seedCatalog(t, env)
		seedStock(t, env, product.ID, 10)

		_, err := env.orderService.IngestOrder(ctx, IngestOrderInput{
			OrderNo:   "O-1",
			BuyerID:   "buyer-1",
			OrderTime: orderTime,
			Status:    ledger.OrderStatusCancelled,
			Lines:     []IngestLineInput{{ProductCode: "W-1", Quantity: 3}},
		})
		require.NoError(t, err)

		_, err = env.summaries.Find(ctx, ledger.TotalScope())
		assert.True(t, shared.IsNotFound(err))

		stock, err := env.shipmentService.ProductStock(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), stock)
	})

	t.Run("a shortfall does not fail the ingest", func(t *testing.T) {
		env := newTestEnv()
		_, product := seedCatalog(t, env)
		seedStock(t, env, product.ID, 2)

		_, err := env.orderService.IngestOrder(ctx, IngestOrderInput{
			OrderNo:   "O-1",
			BuyerID:   "buyer-1",
			OrderTime: orderTime,
			Status:    ledger.OrderStatusCompleted,
			Lines:     []IngestLineInput{{ProductCode: "W-1", Quantity: 5}},
		})
		require.NoError(t, err)

		total, err := env.summaries.Find(ctx, ledger.TotalScope())
		require.NoError(t, err)
		assert.Equal(t, int64(5), total.Cumulative.Quantity)

		stock, err := env.shipmentService.ProductStock(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stock)
	})
}

func TestChangeOrderStatus(t *testing.T) {
	ctx := context.Background()
	orderTime := time.Now().Add(-time.Hour)

	env := newTestEnv()
	_, product := seedCatalog(t, env)
	seedStock(t, env, product.ID, 10)

	order, err := env.orderService.IngestOrder(ctx, IngestOrderInput{
		OrderNo:   "O-1",
		BuyerID:   "buyer-1",
		OrderTime: orderTime,
		Status:    ledger.OrderStatusCompleted,
		Lines:     []IngestLineInput{{ProductCode: "W-1", Quantity: 3}},
	})
	require.NoError(t, err)

	t.Run("crossing out of the counted side removes the order", func(t *testing.T) {
		require.NoError(t, env.orderService.ChangeOrderStatus(ctx, order.ID, ledger.OrderStatusRefundReturn))

		stored, err := env.orders.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, ledger.OrderStatusRefundReturn, stored.Status)

		total, err := env.summaries.Find(ctx, ledger.TotalScope())
		require.NoError(t, err)
		assert.True(t, total.Cumulative.IsZero())
	})

	t.Run("crossing back restores it", func(t *testing.T) {
		require.NoError(t, env.orderService.ChangeOrderStatus(ctx, order.ID, ledger.OrderStatusCompleted))

		total, err := env.summaries.Find(ctx, ledger.TotalScope())
		require.NoError(t, err)
		assert.Equal(t, int64(3), total.Cumulative.Quantity)
	})

	t.Run("unknown order is rejected", func(t *testing.T) {
		err := env.orderService.ChangeOrderStatus(ctx, uuid.New(), ledger.OrderStatusCompleted)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		err := env.orderService.ChangeOrderStatus(ctx, order.ID, ledger.OrderStatus("SHRUG"))
		assert.Error(t, err)
	})
}

func TestEditLinePrices(t *testing.T) {
	ctx := context.Background()
	orderTime := time.Now().Add(-time.Hour)

	env := newTestEnv()
	_, product := seedCatalog(t, env)
	seedStock(t, env, product.ID, 10)

	order, err := env.orderService.IngestOrder(ctx, IngestOrderInput{
		OrderNo:   "O-1",
		BuyerID:   "buyer-1",
		OrderTime: orderTime,
		Status:    ledger.OrderStatusCompleted,
		Lines:     []IngestLineInput{{ProductCode: "W-1", Quantity: 2}},
	})
	require.NoError(t, err)
	lines, err := env.orders.LineItemsByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	t.Run("rebuilds the statistics from the new prices", func(t *testing.T) {
		require.NoError(t, env.orderService.EditLinePrices(ctx, lines[0].ID, decimal.NewFromInt(6), decimal.NewFromInt(11)))

		total, err := env.summaries.Find(ctx, ledger.TotalScope())
		require.NoError(t, err)
		assert.Equal(t, "12", total.Cumulative.SupplyAmount.String())
		assert.Equal(t, "22", total.Cumulative.SaleAmount.String())
	})

	t.Run("rejects non-positive prices", func(t *testing.T) {
		err := env.orderService.EditLinePrices(ctx, lines[0].ID, decimal.Zero, decimal.NewFromInt(11))
		assert.ErrorIs(t, err, shared.ErrInvalidPrice)
	})

	t.Run("rejects unmatched lines", func(t *testing.T) {
		unmatched, err := ledger.NewUnmatchedLineItem(order.ID, "MYSTERY", 1)
		require.NoError(t, err)
		require.NoError(t, env.orders.SaveLineItem(ctx, unmatched))

		err = env.orderService.EditLinePrices(ctx, unmatched.ID, decimal.NewFromInt(6), decimal.NewFromInt(11))
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestCreateCodeMapping(t *testing.T) {
	ctx := context.Background()
	orderTime := time.Now().Add(-time.Hour)

	env := newTestEnv()
	_, product := seedCatalog(t, env)

	order, err := env.orderService.IngestOrder(ctx, IngestOrderInput{
		OrderNo:   "O-1",
		BuyerID:   "buyer-1",
		OrderTime: orderTime,
		Status:    ledger.OrderStatusCompleted,
		Lines:     []IngestLineInput{{ProductCode: "BOX-W1", Quantity: 2}},
	})
	require.NoError(t, err)

	t.Run("rejects unknown products", func(t *testing.T) {
		_, err := env.orderService.CreateCodeMapping(ctx, uuid.New(), "BOX-W1", 4)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("resolves lines waiting on the code", func(t *testing.T) {
		mapping, err := env.orderService.CreateCodeMapping(ctx, product.ID, "BOX-W1", 4)
		require.NoError(t, err)
		assert.Equal(t, int64(4), mapping.QuantityMultiplier)

		lines, err := env.orders.LineItemsByOrder(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		require.NotNil(t, lines[0].ProductID)
		assert.Equal(t, int64(8), lines[0].Quantity)

		total, err := env.summaries.Find(ctx, ledger.TotalScope())
		require.NoError(t, err)
		assert.Equal(t, int64(8), total.Cumulative.Quantity)
		assert.Equal(t, "72", total.Cumulative.SaleAmount.String())
	})
}
