package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seededStore(t *testing.T) *MemStore {
	t.Helper()

	s := NewMemStore()
	require.NoError(t, SeedDemo(context.Background(), s))
	return s
}

func orderIDs(orders []Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.OrderID)
	}
	return out
}

func TestSeedDemoIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	require.NoError(t, SeedDemo(ctx, s))

	lines, err := s.CustomerOrderLines(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 5)
}

func TestOrdersByCustomer(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	orders, err := s.OrdersByCustomer(ctx, JohnDoeID, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ORD123456", "ORD123457"}, orderIDs(orders))

	orders, err = s.OrdersByCustomer(ctx, CarolWhiteID, false)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrdersByCustomerName(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	orders, err := s.OrdersByCustomerName(ctx, "John Doe")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ORD123456", "ORD123457"}, orderIDs(orders))

	orders, err = s.OrdersByCustomerName(ctx, "Nobody")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCustomerForOrder(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	c, found, err := s.CustomerForOrder(ctx, "ORD123458")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Jane Smith", c.Name)

	_, found, err = s.CustomerForOrder(ctx, "ORD000000")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateAndDeleteOrder(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	ok, err := s.UpdateOrderStatus(ctx, "ORD123456", StatusDelivered)
	require.NoError(t, err)
	require.True(t, ok)

	orders, err := s.OrdersByCustomer(ctx, JohnDoeID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, orders[0].Status)

	ok, err = s.UpdateOrderStatus(ctx, "ORD000000", StatusShipped)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteOrder(ctx, "ORD123456")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.DeleteOrder(ctx, "ORD123456")
	require.NoError(t, err)
	assert.False(t, ok)

	_, found, err := s.CustomerForOrder(ctx, "ORD123456")
	require.NoError(t, err)
	assert.False(t, found)

	customers, err := s.CustomersWithoutOrders(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1, "deleting one of two orders must not orphan the customer")
}

func TestCreateOrderRequiresCustomer(t *testing.T) {
	s := seededStore(t)

	_, err := s.CreateOrder(context.Background(), NewOrder(primitive.NewObjectID(), []Item{{ProductName: "Pen", Quantity: 1, Price: 1}}, time.Now()))
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCreateOrderForExistingCustomer(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	o, err := s.CreateOrder(ctx, NewOrder(JaneSmithID, []Item{
		{ProductName: "Smartphone", Quantity: 1, Price: 999},
		{ProductName: "Headphones", Quantity: 1, Price: 199},
	}, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 1198.0, o.TotalValue)

	orders, err := s.OrdersByCustomer(ctx, JaneSmithID, true)
	require.NoError(t, err)
	assert.Equal(t, o.OrderID, orders[len(orders)-1].OrderID)
}

func TestSpendByCustomer(t *testing.T) {
	s := seededStore(t)

	rows, err := s.SpendByCustomer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []CustomerSpend{
		{CustomerID: JohnDoeID, CustomerName: "John Doe", TotalSpent: 1850},
		{CustomerID: JaneSmithID, CustomerName: "Jane Smith", TotalSpent: 1198},
		{CustomerID: AliceJohnsonID, CustomerName: "Alice Johnson", TotalSpent: 135},
		{CustomerID: BobBrownID, CustomerName: "Bob Brown", TotalSpent: 450},
	}, rows)
}

func TestSpendSkipsOrdersWithoutCustomer(t *testing.T) {
	s := seededStore(t)
	s.orders = append(s.orders, Order{ID: primitive.NewObjectID(), OrderID: "ORPHAN", CustomerID: primitive.NewObjectID(), TotalValue: 1e6})

	rows, err := s.SpendByCustomer(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	top, err := s.TopCustomersBySpend(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, JohnDoeID, top[0].CustomerID)
}

func TestCountByStatus(t *testing.T) {
	s := seededStore(t)

	rows, err := s.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []StatusCount{
		{Status: StatusDelivered, Count: 2},
		{Status: StatusPending, Count: 1},
		{Status: StatusShipped, Count: 2},
	}, rows)
}

func TestMostRecentAndMostExpensiveOrders(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	recent, err := s.MostRecentOrders(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	assert.Equal(t, JohnDoeID, recent[0].CustomerID)
	assert.Equal(t, "ORD123457", recent[0].Order.OrderID)

	expensive, err := s.MostExpensiveOrders(ctx)
	require.NoError(t, err)
	require.Len(t, expensive, 4)
	assert.Equal(t, "ORD123456", expensive[0].Order.OrderID)
	assert.Equal(t, 1550.0, expensive[0].Order.TotalValue)
}

func TestMostExpensiveTieBreak(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	c, err := s.CreateCustomer(ctx, Customer{Name: "Tie"})
	require.NoError(t, err)

	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, o := range []Order{
		{OrderID: "B", CustomerID: c.ID, OrderDate: feb, TotalValue: 100},
		{OrderID: "C", CustomerID: c.ID, OrderDate: jan, TotalValue: 100},
		{OrderID: "A", CustomerID: c.ID, OrderDate: jan, TotalValue: 100},
		{OrderID: "D", CustomerID: c.ID, OrderDate: feb, TotalValue: 50},
	} {
		_, err := s.CreateOrder(ctx, o)
		require.NoError(t, err)
	}

	expensive, err := s.MostExpensiveOrders(ctx)
	require.NoError(t, err)
	require.Len(t, expensive, 1)
	assert.Equal(t, "A", expensive[0].Order.OrderID, "earliest date, then smallest order_id")

	recent, err := s.MostRecentOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B", recent[0].Order.OrderID)
}

func TestCustomersWithoutOrders(t *testing.T) {
	s := seededStore(t)

	rows, err := s.CustomersWithoutOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, CarolWhiteID, rows[0].ID)
}

func TestAverageItemsPerOrder(t *testing.T) {
	avg, err := NewMemStore().AverageItemsPerOrder(context.Background())
	require.NoError(t, err)
	assert.Zero(t, avg)

	avg, err = seededStore(t).AverageItemsPerOrder(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1.8, avg, 1e-9)
}

func TestTopCustomersBySpend(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	rows, err := s.TopCustomersBySpend(ctx, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []primitive.ObjectID{JohnDoeID, JaneSmithID, BobBrownID},
		[]primitive.ObjectID{rows[0].CustomerID, rows[1].CustomerID, rows[2].CustomerID})

	rows, err = s.TopCustomersBySpend(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	_, err = s.TopCustomersBySpend(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCustomersWithOrdersSince(t *testing.T) {
	s := seededStore(t)

	rows, err := s.CustomersWithOrdersSince(context.Background(), day("2023-06-05T00:00:00Z"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, AliceJohnsonID, rows[0].CustomerID)
	assert.Equal(t, day("2023-06-10T16:45:00Z"), rows[0].MostRecentOrder)
	assert.Equal(t, BobBrownID, rows[1].CustomerID)
}

func TestProductsOrderedBy(t *testing.T) {
	s := seededStore(t)

	rows, err := s.ProductsOrderedBy(context.Background(), "John Doe")
	require.NoError(t, err)
	assert.Equal(t, []ProductQuantity{
		{ProductName: "Laptop", TotalQuantity: 1},
		{ProductName: "Monitor", TotalQuantity: 1},
		{ProductName: "Mouse", TotalQuantity: 2},
	}, rows)
}

func TestCustomerOrderLines(t *testing.T) {
	s := seededStore(t)

	rows, err := s.CustomerOrderLines(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "ORD123456", rows[0].Order.OrderID)
	assert.Equal(t, "ORD123457", rows[1].Order.OrderID)
	assert.Equal(t, BobBrownID, rows[4].CustomerID)
}

func TestReadsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	first, err := s.MostExpensiveOrders(ctx)
	require.NoError(t, err)
	second, err := s.MostExpensiveOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
