package report

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	Zipcode string `json:"zipcode" bson:"zipcode"`
}

type Customer struct {
	ID               primitive.ObjectID `json:"id" bson:"_id"`
	Name             string             `json:"name" bson:"name"`
	Email            string             `json:"email" bson:"email"`
	Address          Address            `json:"address" bson:"address"`
	Phone            string             `json:"phone" bson:"phone"`
	RegistrationDate time.Time          `json:"registration_date" bson:"registration_date"`
}

// Status is open-ended; the constants are the values the shop itself writes.
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
)

type Item struct {
	ProductName string  `json:"product_name" bson:"product_name"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Price       float64 `json:"price" bson:"price"`
}

// Order references its customer by id only; deleting an order never touches
// the customer and customers do not own orders.
type Order struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	OrderID    string             `json:"order_id" bson:"order_id"`
	CustomerID primitive.ObjectID `json:"customer_id" bson:"customer_id"`
	OrderDate  time.Time          `json:"order_date" bson:"order_date"`
	Status     Status             `json:"status" bson:"status"`
	Items      []Item             `json:"items" bson:"items"`
	TotalValue float64            `json:"total_value" bson:"total_value"`
}

type CustomerSpend struct {
	CustomerID   primitive.ObjectID `json:"customer_id" bson:"_id"`
	CustomerName string             `json:"customer_name" bson:"customerName"`
	TotalSpent   float64            `json:"total_spent" bson:"totalSpent"`
}

type StatusCount struct {
	Status Status `json:"status" bson:"_id"`
	Count  int64  `json:"count" bson:"count"`
}

type OrderSummary struct {
	OrderID    string    `json:"order_id" bson:"order_id"`
	OrderDate  time.Time `json:"order_date" bson:"order_date"`
	TotalValue float64   `json:"total_value" bson:"total_value"`
}

func summarize(o Order) OrderSummary {
	return OrderSummary{OrderID: o.OrderID, OrderDate: o.OrderDate, TotalValue: o.TotalValue}
}

// CustomerOrder pairs a customer with one selected order (most recent or most expensive).
type CustomerOrder struct {
	CustomerID   primitive.ObjectID `json:"customer_id" bson:"_id"`
	CustomerName string             `json:"customer_name" bson:"customerName"`
	Order        OrderSummary       `json:"order" bson:"order"`
}

type CustomerActivity struct {
	CustomerID      primitive.ObjectID `json:"customer_id" bson:"_id"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email" bson:"email"`
	MostRecentOrder time.Time          `json:"most_recent_order" bson:"most_recent_order"`
}

type ProductQuantity struct {
	ProductName   string `json:"product_name" bson:"_id"`
	TotalQuantity int64  `json:"total_quantity" bson:"totalQuantity"`
}

type CustomerOrderLine struct {
	CustomerID primitive.ObjectID `json:"customer_id" bson:"_id"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	Order      OrderSummary       `json:"order" bson:"orders"`
}
