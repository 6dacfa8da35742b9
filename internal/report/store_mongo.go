package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 1 * time.Second
	queryTimeout   = 5 * time.Second
)

// Connect dials MongoDB and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

type MongoStore struct {
	db        *mongo.Database
	customers *mongo.Collection
	orders    *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		db:        db,
		customers: db.Collection(customersCollection),
		orders:    db.Collection(ordersCollection),
	}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.Client().Ping(ctx, readpref.Primary())
	})
}

func (s *MongoStore) CreateCustomer(ctx context.Context, c Customer) (Customer, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.customers.InsertOne(ctx, c)
		return err
	})
	if mongo.IsDuplicateKeyError(err) {
		return Customer{}, ErrConflict
	}
	if err != nil {
		return Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return c, nil
}

func (s *MongoStore) CreateOrder(ctx context.Context, o Order) (Order, error) {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		n, err := s.customers.CountDocuments(ctx, bson.D{{Key: "_id", Value: o.CustomerID}}, options.Count().SetLimit(1))
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrCustomerNotFound
		}
		_, err = s.orders.InsertOne(ctx, o)
		return err
	})
	switch {
	case errors.Is(err, ErrCustomerNotFound):
		return Order{}, err
	case mongo.IsDuplicateKeyError(err):
		return Order{}, ErrConflict
	case err != nil:
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

func (s *MongoStore) UpdateOrderStatus(ctx context.Context, orderID string, status Status) (bool, error) {
	var matched bool
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.orders.UpdateOne(ctx, OrderFilter(orderID), StatusUpdate(status))
		if err != nil {
			return err
		}
		matched = res.MatchedCount > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return matched, nil
}

func (s *MongoStore) DeleteOrder(ctx context.Context, orderID string) (bool, error) {
	var deleted bool
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.orders.DeleteOne(ctx, OrderFilter(orderID))
		if err != nil {
			return err
		}
		deleted = res.DeletedCount > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete order: %w", err)
	}
	return deleted, nil
}

func (s *MongoStore) OrdersByCustomer(ctx context.Context, customerID primitive.ObjectID, byDate bool) ([]Order, error) {
	opts := options.Find()
	if byDate {
		opts.SetSort(Sort{Keys: []SortKey{Asc("order_date"), Asc("order_id")}}.Spec())
	}

	out := make([]Order, 0)
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		cur, err := s.orders.Find(ctx, bson.D{{Key: "customer_id", Value: customerID}}, opts)
		if err != nil {
			return err
		}
		return cur.All(ctx, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	return out, nil
}

func (s *MongoStore) OrdersByCustomerName(ctx context.Context, name string) ([]Order, error) {
	return aggregate[Order](ctx, s.orders, OrdersByCustomerNamePipeline(name))
}

func (s *MongoStore) CustomerForOrder(ctx context.Context, orderID string) (Customer, bool, error) {
	rows, err := aggregate[Customer](ctx, s.orders, CustomerForOrderPipeline(orderID))
	if err != nil || len(rows) == 0 {
		return Customer{}, false, err
	}
	return rows[0], true, nil
}

func (s *MongoStore) SpendByCustomer(ctx context.Context) ([]CustomerSpend, error) {
	return aggregate[CustomerSpend](ctx, s.orders, SpendByCustomerPipeline())
}

func (s *MongoStore) TopCustomersBySpend(ctx context.Context, n int) ([]CustomerSpend, error) {
	if err := checkTopN(n); err != nil {
		return nil, err
	}
	return aggregate[CustomerSpend](ctx, s.orders, TopCustomersBySpendPipeline(n))
}

func (s *MongoStore) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	return aggregate[StatusCount](ctx, s.orders, CountByStatusPipeline())
}

func (s *MongoStore) MostRecentOrders(ctx context.Context) ([]CustomerOrder, error) {
	return aggregate[CustomerOrder](ctx, s.orders, MostRecentOrdersPipeline())
}

func (s *MongoStore) MostExpensiveOrders(ctx context.Context) ([]CustomerOrder, error) {
	return aggregate[CustomerOrder](ctx, s.orders, MostExpensiveOrdersPipeline())
}

func (s *MongoStore) CustomersWithoutOrders(ctx context.Context) ([]Customer, error) {
	return aggregate[Customer](ctx, s.customers, CustomersWithoutOrdersPipeline())
}

func (s *MongoStore) AverageItemsPerOrder(ctx context.Context) (float64, error) {
	rows, err := aggregate[averageRow](ctx, s.orders, AverageItemsPerOrderPipeline())
	if err != nil || len(rows) == 0 {
		return 0, err
	}
	return rows[0].AverageItems, nil
}

func (s *MongoStore) CustomersWithOrdersSince(ctx context.Context, since time.Time) ([]CustomerActivity, error) {
	return aggregate[CustomerActivity](ctx, s.customers, CustomersWithOrdersSincePipeline(since))
}

func (s *MongoStore) ProductsOrderedBy(ctx context.Context, customerName string) ([]ProductQuantity, error) {
	return aggregate[ProductQuantity](ctx, s.orders, ProductsOrderedByPipeline(customerName))
}

func (s *MongoStore) CustomerOrderLines(ctx context.Context) ([]CustomerOrderLine, error) {
	return aggregate[CustomerOrderLine](ctx, s.customers, CustomerOrderLinesPipeline())
}

type averageRow struct {
	AverageItems float64 `bson:"averageItems"`
}

func aggregate[T any](ctx context.Context, coll *mongo.Collection, p Pipeline) ([]T, error) {
	out := make([]T, 0)
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		cur, err := coll.Aggregate(ctx, p.BSON())
		if err != nil {
			return err
		}
		return cur.All(ctx, &out)
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
