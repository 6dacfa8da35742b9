package report

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	customersCollection = "customers"
	ordersCollection    = "orders"
)

func joinCustomer() Pipeline {
	return Pipeline{
		Lookup{From: customersCollection, LocalField: "customer_id", ForeignField: "_id", As: "customer"},
	}
}

func joinOrders(as string) Lookup {
	return Lookup{From: ordersCollection, LocalField: "_id", ForeignField: "customer_id", As: as}
}

// OrdersByCustomerNamePipeline runs on orders.
func OrdersByCustomerNamePipeline(name string) Pipeline {
	return joinCustomer().Then(
		Match{Filter: bson.D{{Key: "customer.name", Value: name}}},
		Project{Fields: bson.D{{Key: "customer", Value: 0}}},
	)
}

// CustomerForOrderPipeline runs on orders and yields at most one customer.
func CustomerForOrderPipeline(orderID string) Pipeline {
	return Pipeline{
		Match{Filter: OrderFilter(orderID)},
		Limit{N: 1},
	}.Then(joinCustomer()...).Then(
		Unwind{Path: "customer"},
		ReplaceRoot{Path: "customer"},
	)
}

func spendPerCustomer() Pipeline {
	return joinCustomer().Then(
		Unwind{Path: "customer"},
		Group{
			ID: "$customer_id",
			Fields: bson.D{
				{Key: "customerName", Value: bson.M{"$first": "$customer.name"}},
				{Key: "totalSpent", Value: bson.M{"$sum": "$total_value"}},
			},
		},
	)
}

// SpendByCustomerPipeline runs on orders.
func SpendByCustomerPipeline() Pipeline {
	return spendPerCustomer().Then(Sort{Keys: []SortKey{Asc("_id")}})
}

// TopCustomersBySpendPipeline runs on orders. Equal totals keep customer id order.
func TopCustomersBySpendPipeline(n int) Pipeline {
	return spendPerCustomer().Then(
		Sort{Keys: []SortKey{Desc("totalSpent"), Asc("_id")}},
		Limit{N: int64(n)},
	)
}

// CountByStatusPipeline runs on orders.
func CountByStatusPipeline() Pipeline {
	return Pipeline{
		Group{ID: "$status", Fields: bson.D{{Key: "count", Value: bson.M{"$sum": 1}}}},
		Sort{Keys: []SortKey{Asc("_id")}},
	}
}

var (
	mostRecentOrder    = []SortKey{Desc("order_date"), Asc("order_id")}
	mostExpensiveOrder = []SortKey{Desc("total_value"), Asc("order_date"), Asc("order_id")}
)

// MostRecentOrdersPipeline runs on orders.
func MostRecentOrdersPipeline() Pipeline {
	return firstOrderPerCustomer(mostRecentOrder)
}

// MostExpensiveOrdersPipeline runs on orders. Ties on total_value go to the
// earliest order_date, then the smallest order_id.
func MostExpensiveOrdersPipeline() Pipeline {
	return firstOrderPerCustomer(mostExpensiveOrder)
}

func firstOrderPerCustomer(order []SortKey) Pipeline {
	return joinCustomer().Then(
		Unwind{Path: "customer"},
		Sort{Keys: order},
		Group{
			ID: "$customer_id",
			Fields: bson.D{
				{Key: "customerName", Value: bson.M{"$first": "$customer.name"}},
				{Key: "order", Value: bson.M{"$first": bson.D{
					{Key: "order_id", Value: "$order_id"},
					{Key: "order_date", Value: "$order_date"},
					{Key: "total_value", Value: "$total_value"},
				}}},
			},
		},
		Sort{Keys: []SortKey{Asc("_id")}},
	)
}

// CustomersWithoutOrdersPipeline runs on customers.
func CustomersWithoutOrdersPipeline() Pipeline {
	return Pipeline{
		joinOrders("orders"),
		Match{Filter: bson.D{{Key: "orders", Value: bson.M{"$size": 0}}}},
		Project{Fields: bson.D{{Key: "orders", Value: 0}}},
		Sort{Keys: []SortKey{Asc("_id")}},
	}
}

// AverageItemsPerOrderPipeline runs on orders and yields no document when
// there are no orders.
func AverageItemsPerOrderPipeline() Pipeline {
	return Pipeline{
		Project{Fields: bson.D{{Key: "numberOfItems", Value: bson.M{
			"$size": bson.M{"$ifNull": bson.A{"$items", bson.A{}}},
		}}}},
		Group{ID: nil, Fields: bson.D{{Key: "averageItems", Value: bson.M{"$avg": "$numberOfItems"}}}},
	}
}

// CustomersWithOrdersSincePipeline runs on customers.
func CustomersWithOrdersSincePipeline(since time.Time) Pipeline {
	return Pipeline{
		joinOrders("recent_orders"),
		Match{Filter: bson.D{{Key: "recent_orders.order_date", Value: bson.M{"$gte": since}}}},
		Project{Fields: bson.D{
			{Key: "name", Value: 1},
			{Key: "email", Value: 1},
			{Key: "most_recent_order", Value: bson.M{"$max": "$recent_orders.order_date"}},
		}},
		Sort{Keys: []SortKey{Asc("_id")}},
	}
}

// ProductsOrderedByPipeline runs on orders.
func ProductsOrderedByPipeline(customerName string) Pipeline {
	return joinCustomer().Then(
		Match{Filter: bson.D{{Key: "customer.name", Value: customerName}}},
		Unwind{Path: "items"},
		Group{
			ID:     "$items.product_name",
			Fields: bson.D{{Key: "totalQuantity", Value: bson.M{"$sum": "$items.quantity"}}},
		},
		Sort{Keys: []SortKey{Asc("_id")}},
	)
}

// CustomerOrderLinesPipeline runs on customers; one row per (customer, order).
func CustomerOrderLinesPipeline() Pipeline {
	return Pipeline{
		joinOrders("orders"),
		Unwind{Path: "orders"},
		Project{Fields: bson.D{
			{Key: "name", Value: 1},
			{Key: "email", Value: 1},
			{Key: "orders.order_id", Value: 1},
			{Key: "orders.total_value", Value: 1},
			{Key: "orders.order_date", Value: 1},
		}},
		Sort{Keys: []SortKey{Asc("_id"), Asc("orders.order_date"), Asc("orders.order_id")}},
	}
}

func OrderFilter(orderID string) bson.D {
	return bson.D{{Key: "order_id", Value: orderID}}
}

func StatusUpdate(status Status) bson.D {
	return bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}}}}
}
