package report

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	JohnDoeID      = mustObjectID("65a000000000000000000001")
	JaneSmithID    = mustObjectID("65a000000000000000000002")
	AliceJohnsonID = mustObjectID("65a000000000000000000003")
	BobBrownID     = mustObjectID("65a000000000000000000004")
	CarolWhiteID   = mustObjectID("65a000000000000000000005")
)

func mustObjectID(hex string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(err)
	}
	return id
}

func day(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleCustomers() []Customer {
	return []Customer{
		{ID: JohnDoeID, Name: "John Doe", Email: "johndoe@example.com", Phone: "555-1234",
			Address:          Address{Street: "123 Main St", City: "Springfield", Zipcode: "12345"},
			RegistrationDate: day("2023-01-01T12:00:00Z")},
		{ID: JaneSmithID, Name: "Jane Smith", Email: "janesmith@example.com", Phone: "555-5678",
			Address:          Address{Street: "456 Oak Ave", City: "Springfield", Zipcode: "12346"},
			RegistrationDate: day("2023-02-01T12:00:00Z")},
		{ID: AliceJohnsonID, Name: "Alice Johnson", Email: "alice.johnson@example.com", Phone: "555-9012",
			Address:          Address{Street: "789 Pine Rd", City: "Shelbyville", Zipcode: "12347"},
			RegistrationDate: day("2023-03-01T12:00:00Z")},
		{ID: BobBrownID, Name: "Bob Brown", Email: "bob.brown@example.com", Phone: "555-3456",
			Address:          Address{Street: "321 Elm St", City: "Shelbyville", Zipcode: "12348"},
			RegistrationDate: day("2023-03-15T12:00:00Z")},
		{ID: CarolWhiteID, Name: "Carol White", Email: "carol.white@example.com", Phone: "555-7890",
			Address:          Address{Street: "654 Maple Dr", City: "Capital City", Zipcode: "12349"},
			RegistrationDate: day("2023-04-01T12:00:00Z")},
	}
}

func sampleOrders() []Order {
	mk := func(hex, orderID string, customer primitive.ObjectID, date string, status Status, items ...Item) Order {
		return Order{
			ID:         mustObjectID(hex),
			OrderID:    orderID,
			CustomerID: customer,
			OrderDate:  day(date),
			Status:     status,
			Items:      items,
			TotalValue: OrderTotal(items),
		}
	}
	return []Order{
		mk("65b000000000000000000001", "ORD123456", JohnDoeID, "2023-05-15T14:00:00Z", StatusShipped,
			Item{ProductName: "Laptop", Quantity: 1, Price: 1500},
			Item{ProductName: "Mouse", Quantity: 2, Price: 25}),
		mk("65b000000000000000000002", "ORD123457", JohnDoeID, "2023-06-01T09:30:00Z", StatusDelivered,
			Item{ProductName: "Monitor", Quantity: 1, Price: 300}),
		mk("65b000000000000000000003", "ORD123458", JaneSmithID, "2023-05-20T10:00:00Z", StatusPending,
			Item{ProductName: "Smartphone", Quantity: 1, Price: 999},
			Item{ProductName: "Headphones", Quantity: 1, Price: 199}),
		mk("65b000000000000000000004", "ORD123459", AliceJohnsonID, "2023-06-10T16:45:00Z", StatusShipped,
			Item{ProductName: "Keyboard", Quantity: 1, Price: 80},
			Item{ProductName: "Mouse", Quantity: 1, Price: 25},
			Item{ProductName: "USB Cable", Quantity: 3, Price: 10}),
		mk("65b000000000000000000005", "ORD123460", BobBrownID, "2023-06-12T08:15:00Z", StatusDelivered,
			Item{ProductName: "Tablet", Quantity: 1, Price: 450}),
	}
}

// SeedDemo loads the sample customers and orders. Documents that already
// exist are skipped, so seeding a populated database is harmless.
func SeedDemo(ctx context.Context, s Store) error {
	for _, c := range sampleCustomers() {
		if _, err := s.CreateCustomer(ctx, c); err != nil && !errors.Is(err, ErrConflict) {
			return err
		}
	}
	for _, o := range sampleOrders() {
		if _, err := s.CreateOrder(ctx, o); err != nil && !errors.Is(err, ErrConflict) {
			return err
		}
	}
	return nil
}
