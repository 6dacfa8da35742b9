package catalog

// SeedDemo loads the demo catalog. Products already present are left alone.
func SeedDemo(s Store) {
	for _, np := range []NewProduct{
		{ID: "1", Name: "Laptop", Category: "Electronics", Price: price(999.99)},
		{ID: "2", Name: "Headphones", Category: "Electronics", Price: price(99.99), Available: flag(false)},
		{ID: "3", Name: "Mouse", Category: "Electronics", Price: price(29.99)},
	} {
		_, _ = s.Add(np)
	}
}

func price(v float64) *float64 { return &v }
func flag(v bool) *bool        { return &v }
