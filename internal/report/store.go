package report

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound         = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrConflict         = errors.New("document already exists")
)

// Store is the report query set. Every read is idempotent over unchanged data;
// only CreateCustomer, CreateOrder, UpdateOrderStatus and DeleteOrder mutate,
// and each touches a single document.
type Store interface {
	Ping(ctx context.Context) error

	CreateCustomer(ctx context.Context, c Customer) (Customer, error)
	CreateOrder(ctx context.Context, o Order) (Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status Status) (bool, error)
	DeleteOrder(ctx context.Context, orderID string) (bool, error)

	OrdersByCustomer(ctx context.Context, customerID primitive.ObjectID, byDate bool) ([]Order, error)
	OrdersByCustomerName(ctx context.Context, name string) ([]Order, error)
	CustomerForOrder(ctx context.Context, orderID string) (Customer, bool, error)

	SpendByCustomer(ctx context.Context) ([]CustomerSpend, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	MostRecentOrders(ctx context.Context) ([]CustomerOrder, error)
	MostExpensiveOrders(ctx context.Context) ([]CustomerOrder, error)
	CustomersWithoutOrders(ctx context.Context) ([]Customer, error)
	AverageItemsPerOrder(ctx context.Context) (float64, error)
	TopCustomersBySpend(ctx context.Context, n int) ([]CustomerSpend, error)
	CustomersWithOrdersSince(ctx context.Context, since time.Time) ([]CustomerActivity, error)
	ProductsOrderedBy(ctx context.Context, customerName string) ([]ProductQuantity, error)
	CustomerOrderLines(ctx context.Context) ([]CustomerOrderLine, error)
}

func checkTopN(n int) error {
	if n < 1 {
		return ErrInvalidArgument
	}
	return nil
}
