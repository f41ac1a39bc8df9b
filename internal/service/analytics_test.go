package service

import (
	"context"
	"testing"
	"time"

	"github.com/Priyanshusingh0818/GORUS/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, env *testEnv, userID uint, at time.Time, status models.OrderStatus, items ...models.OrderItem) {
	t.Helper()
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	o := &models.Order{
		UserID:          userID,
		OrderNumber:     "GOR" + at.Format("20060102150405.000"),
		TotalAmount:     total,
		ShippingName:    "Asha",
		ShippingAddress: "Lane 1",
		ShippingPhone:   "999",
		PaymentMethod:   models.PaymentCOD,
		PaymentStatus:   models.PaymentCashOnDelivery,
		Status:          status,
		CreatedAt:       at,
		Items:           items,
	}
	require.NoError(t, env.store.CreateOrder(context.Background(), o))
}

func line(name string, price int64, qty int) models.OrderItem {
	p := decimal.NewFromInt(price)
	return models.OrderItem{ProductID: 1, ProductName: name, ProductPrice: p, Quantity: qty, Subtotal: p.Mul(decimal.NewFromInt(int64(qty)))}
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ist := time.FixedZone("IST", 5*3600+1800)
	env.analytics.loc = ist
	env.analytics.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, ist) }

	recent := &models.User{Email: "new@x.com", PasswordHash: "x", CreatedAt: time.Date(2024, 5, 5, 9, 0, 0, 0, ist)}
	old := &models.User{Email: "old@x.com", PasswordHash: "x", CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, ist)}
	require.NoError(t, env.store.CreateUser(ctx, recent))
	require.NoError(t, env.store.CreateUser(ctx, old))
	env.product(t, "Ghee", 1800, 5)

	seedOrder(t, env, recent.ID, time.Date(2024, 5, 10, 0, 30, 0, 0, ist), models.StatusPending, line("Ghee", 100, 1))
	// 23:30 IST is still the 9th locally even though it is 18:00 UTC.
	seedOrder(t, env, recent.ID, time.Date(2024, 5, 9, 23, 30, 0, 0, ist), models.StatusDelivered, line("Milk", 100, 2))
	seedOrder(t, env, recent.ID, time.Date(2024, 5, 1, 8, 0, 0, 0, ist), models.StatusCancelled, line("Ghee", 50, 1))

	d, err := env.analytics.Dashboard(ctx)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(350).Equal(d.Stats.TotalSales))
	assert.Equal(t, 3, d.Stats.TotalOrders)
	assert.Equal(t, int64(2), d.Stats.TotalUsers)
	assert.Equal(t, int64(1), d.Stats.TotalProducts)
	assert.Equal(t, 1, d.Stats.NewUsersCount)
	require.Len(t, d.NewUsers, 1)
	assert.Equal(t, "new@x.com", d.NewUsers[0].Email)

	assert.True(t, decimal.NewFromInt(100).Equal(d.SalesByStatus[models.StatusPending]))
	assert.True(t, decimal.NewFromInt(200).Equal(d.SalesByStatus[models.StatusDelivered]))
	assert.True(t, decimal.NewFromInt(50).Equal(d.SalesByStatus[models.StatusCancelled]))
	assert.Equal(t, map[models.OrderStatus]int{
		models.StatusPending: 1, models.StatusDelivered: 1, models.StatusCancelled: 1,
	}, d.OrdersByStatus)

	require.Len(t, d.SalesByProduct, 2)
	assert.Equal(t, "Milk", d.SalesByProduct[0].Name)
	assert.Equal(t, 2, d.SalesByProduct[0].Quantity)
	assert.True(t, decimal.NewFromInt(200).Equal(d.SalesByProduct[0].Revenue))
	assert.Equal(t, "Ghee", d.SalesByProduct[1].Name)
	assert.Equal(t, 2, d.SalesByProduct[1].Quantity)
	assert.True(t, decimal.NewFromInt(150).Equal(d.SalesByProduct[1].Revenue))

	require.Len(t, d.SalesOverTime, 7)
	assert.Equal(t, "2024-05-04", d.SalesOverTime[0].Date)
	assert.Equal(t, "2024-05-10", d.SalesOverTime[6].Date)
	assert.Equal(t, 1, d.SalesOverTime[5].Orders)
	assert.True(t, decimal.NewFromInt(200).Equal(d.SalesOverTime[5].Sales))
	assert.Equal(t, 1, d.SalesOverTime[6].Orders)
	assert.True(t, decimal.NewFromInt(100).Equal(d.SalesOverTime[6].Sales))
	for _, day := range d.SalesOverTime[:5] {
		assert.Zero(t, day.Orders)
		assert.True(t, day.Sales.IsZero())
	}

	require.Len(t, d.RecentOrders, 3)
	assert.True(t, decimal.NewFromInt(100).Equal(d.RecentOrders[0].TotalAmount), "newest first")
	assert.Len(t, d.RecentOrders[0].Items, 1)
}

func TestDashboardRecentOrdersCapped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := &models.User{Email: "a@x.com", PasswordHash: "x"}
	require.NoError(t, env.store.CreateUser(ctx, u))

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		seedOrder(t, env, u.ID, base.Add(time.Duration(i)*time.Minute), models.StatusPending, line("Milk", 60, 1))
	}

	d, err := env.analytics.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, d.Stats.TotalOrders)
	assert.Len(t, d.RecentOrders, 10)
	assert.True(t, d.RecentOrders[0].CreatedAt.After(d.RecentOrders[9].CreatedAt))
}

func TestDashboardEmpty(t *testing.T) {
	env := newTestEnv(t)
	d, err := env.analytics.Dashboard(context.Background())
	require.NoError(t, err)
	assert.True(t, d.Stats.TotalSales.IsZero())
	assert.Empty(t, d.RecentOrders)
	assert.NotNil(t, d.SalesByProduct)
	assert.Len(t, d.SalesOverTime, 7)
}

func TestSalesReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ist := time.FixedZone("IST", 5*3600+1800)
	env.analytics.loc = ist
	env.analytics.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, ist) }

	u := &models.User{Email: "a@x.com", PasswordHash: "x"}
	require.NoError(t, env.store.CreateUser(ctx, u))
	seedOrder(t, env, u.ID, time.Date(2024, 5, 10, 9, 0, 0, 0, ist), models.StatusPending, line("Ghee", 100, 2), line("Milk", 60, 1))
	seedOrder(t, env, u.ID, time.Date(2024, 5, 8, 23, 59, 0, 0, ist), models.StatusDelivered, line("Milk", 60, 3))
	seedOrder(t, env, u.ID, time.Date(2024, 5, 9, 10, 0, 0, 0, ist), models.StatusCancelled, line("Ghee", 100, 5))
	seedOrder(t, env, u.ID, time.Date(2024, 3, 1, 10, 0, 0, 0, ist), models.StatusDelivered, line("Paneer", 320, 1))

	r, err := env.analytics.SalesReport(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-04-11", r.From)
	assert.Equal(t, "2024-05-10", r.To)
	assert.Equal(t, 2, r.Summary.TotalTransactions)
	assert.Equal(t, 6, r.Summary.ProductsSold)
	assert.True(t, decimal.NewFromInt(440).Equal(r.Summary.TotalRevenue), r.Summary.TotalRevenue.String())

	r, err = env.analytics.SalesReport(ctx, "2024-05-08", "2024-05-08")
	require.NoError(t, err)
	require.Len(t, r.Transactions, 1)
	assert.Equal(t, 3, r.Summary.ProductsSold)

	r, err = env.analytics.SalesReport(ctx, "2024-01-01", "2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, 3, r.Summary.TotalTransactions)

	r, err = env.analytics.SalesReport(ctx, "2023-01-01", "2023-01-31")
	require.NoError(t, err)
	assert.NotNil(t, r.Transactions)
	assert.Empty(t, r.Transactions)

	_, err = env.analytics.SalesReport(ctx, "10/05/2024", "")
	requireKind(t, err, KindValidation)
	_, err = env.analytics.SalesReport(ctx, "2024-05-10", "2024-05-01")
	requireKind(t, err, KindValidation)
}
