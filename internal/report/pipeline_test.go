package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func operators(p Pipeline) []string {
	out := make([]string, 0, len(p))
	for _, s := range p {
		out = append(out, s.Operator())
	}
	return out
}

func TestTopCustomersBySpendPipelineBSON(t *testing.T) {
	got := TopCustomersBySpendPipeline(3).BSON()

	want := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "customers"},
			{Key: "localField", Value: "customer_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "customer"},
		}}},
		{{Key: "$unwind", Value: "$customer"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$customer_id"},
			{Key: "customerName", Value: bson.M{"$first": "$customer.name"}},
			{Key: "totalSpent", Value: bson.M{"$sum": "$total_value"}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalSpent", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: int64(3)}},
	}
	assert.Equal(t, want, got)
}

func TestPipelineShapes(t *testing.T) {
	cases := map[string]struct {
		p    Pipeline
		want []string
	}{
		"orders by customer name": {OrdersByCustomerNamePipeline("John Doe"), []string{"$lookup", "$match", "$project"}},
		"customer for order":      {CustomerForOrderPipeline("ORD1"), []string{"$match", "$limit", "$lookup", "$unwind", "$replaceRoot"}},
		"spend":                   {SpendByCustomerPipeline(), []string{"$lookup", "$unwind", "$group", "$sort"}},
		"status counts":           {CountByStatusPipeline(), []string{"$group", "$sort"}},
		"most recent":             {MostRecentOrdersPipeline(), []string{"$lookup", "$unwind", "$sort", "$group", "$sort"}},
		"most expensive":          {MostExpensiveOrdersPipeline(), []string{"$lookup", "$unwind", "$sort", "$group", "$sort"}},
		"without orders":          {CustomersWithoutOrdersPipeline(), []string{"$lookup", "$match", "$project", "$sort"}},
		"average items":           {AverageItemsPerOrderPipeline(), []string{"$project", "$group"}},
		"products by customer":    {ProductsOrderedByPipeline("John Doe"), []string{"$lookup", "$match", "$unwind", "$group", "$sort"}},
		"customer order lines":    {CustomerOrderLinesPipeline(), []string{"$lookup", "$unwind", "$project", "$sort"}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, operators(tc.p))
			assert.Len(t, tc.p.BSON(), len(tc.want))
		})
	}
}

func TestMostExpensiveSortsForTieBreak(t *testing.T) {
	p := MostExpensiveOrdersPipeline()
	require.IsType(t, Sort{}, p[2])

	assert.Equal(t, bson.D{
		{Key: "total_value", Value: -1},
		{Key: "order_date", Value: 1},
		{Key: "order_id", Value: 1},
	}, p[2].Spec())
}

func TestThenDoesNotAlias(t *testing.T) {
	base := make(Pipeline, 1, 4)
	base[0] = Limit{N: 1}

	a := base.Then(Limit{N: 2})
	b := base.Then(Limit{N: 3})

	assert.Equal(t, Limit{N: 2}, a[1])
	assert.Equal(t, Limit{N: 3}, b[1])
}

func TestMutationDocuments(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "order_id", Value: "ORD123456"}}, OrderFilter("ORD123456"))
	assert.Equal(t,
		bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: StatusDelivered}}}},
		StatusUpdate(StatusDelivered))
}
