package report

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewOrder builds a pending order for customerID with total_value derived
// from the items, so sum(quantity*price) == total_value holds for every order
// the service writes.
func NewOrder(customerID primitive.ObjectID, items []Item, now time.Time) Order {
	return Order{
		ID:         primitive.NewObjectID(),
		OrderID:    newOrderID(),
		CustomerID: customerID,
		OrderDate:  now.UTC(),
		Status:     StatusPending,
		Items:      items,
		TotalValue: OrderTotal(items),
	}
}

func OrderTotal(items []Item) float64 {
	total := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Float64()
	return f
}

func newOrderID() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
