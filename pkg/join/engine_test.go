package join

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/halilanisa/ecommerce-insights/pkg/model"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(zap.NewNop())
	require.NoError(t, err)
	return e
}

func deliveredOrder(id, customerID string) model.DeliveredOrder {
	return model.DeliveredOrder{
		Order: model.Order{
			OrderID:     id,
			CustomerID:  customerID,
			Status:      model.StatusDelivered,
			PurchasedAt: time.Date(2018, 6, 1, 10, 0, 0, 0, time.UTC),
		},
		Timeliness: model.OnTime,
	}
}

func product(id, category string) model.Product {
	photos := 1
	return model.Product{ProductID: id, Category: category, Photos: &photos}
}

func baseInputs() Inputs {
	return Inputs{
		Orders: []model.DeliveredOrder{
			deliveredOrder("o1", "c1"),
			deliveredOrder("o2", "c2"),
		},
		Items: []model.OrderItem{
			{OrderID: "o1", ItemSeq: 1, ProductID: "p1", Price: 100},
			{OrderID: "o1", ItemSeq: 2, ProductID: "p2", Price: 50},
			{OrderID: "o2", ItemSeq: 1, ProductID: "p1", Price: 100},
		},
		Products: []model.Product{
			product("p1", "beleza_saude"),
			product("p2", "esporte_lazer"),
		},
		Translations: []model.CategoryTranslation{
			{Category: "beleza_saude", English: "health_beauty"},
		},
		Customers: []model.Customer{
			{CustomerID: "c1", CustomerUniqueID: "u1", ZipPrefix: "01001", City: "sao paulo", State: "SP"},
			{CustomerID: "c2", CustomerUniqueID: "u2", ZipPrefix: "20040", City: "rio de janeiro", State: "RJ"},
		},
		Payments: []model.Payment{
			{OrderID: "o1", Sequential: 1, Type: "credit_card", Value: 120},
			{OrderID: "o2", Sequential: 1, Type: "boleto", Value: 100},
		},
		Reviews: []model.Review{
			{ReviewID: "r1", OrderID: "o1", Score: 5, Comment: "muito bom"},
		},
	}
}

func TestBuildItemsWithUnknownProductAreDropped(t *testing.T) {
	e := newEngine(t)
	in := baseInputs()
	in.Items = append(in.Items, model.OrderItem{OrderID: "o1", ItemSeq: 3, ProductID: "missing", Price: 10})

	tables := e.Build(in, model.NoFilter())

	assert.Equal(t, 1, tables.DroppedItems)
	assert.Len(t, tables.OrderLines, 3, "the unknown-product item must not surface")
}

func TestBuildTranslationIsLeftJoin(t *testing.T) {
	e := newEngine(t)
	tables := e.Build(baseInputs(), model.NoFilter())

	byProduct := map[string]string{}
	for _, l := range tables.OrderLines {
		byProduct[l.ProductID] = l.CategoryEnglish
	}
	assert.Equal(t, "health_beauty", byProduct["p1"])
	assert.Equal(t, "esporte_lazer", byProduct["p2"], "untranslated category keeps its raw name")
}

func TestBuildOrderWithoutItemsProducesNoLines(t *testing.T) {
	e := newEngine(t)
	in := baseInputs()
	in.Orders = append(in.Orders, deliveredOrder("o3", "c1"))

	tables := e.Build(in, model.NoFilter())

	for _, l := range tables.OrderLines {
		assert.NotEqual(t, "o3", l.OrderID)
	}
	// The order still reaches the customer-orders table.
	ids := map[string]bool{}
	for _, co := range tables.CustomerOrders {
		ids[co.OrderID] = true
	}
	assert.True(t, ids["o3"])
}

func TestBuildCustomerOrdersOneRowPerOrder(t *testing.T) {
	e := newEngine(t)
	tables := e.Build(baseInputs(), model.NoFilter())

	require.Len(t, tables.CustomerOrders, 2)
	seen := map[string]bool{}
	for _, co := range tables.CustomerOrders {
		assert.False(t, seen[co.OrderID])
		seen[co.OrderID] = true
	}
}

func TestBuildMultiPaymentFanOutIsPreserved(t *testing.T) {
	e := newEngine(t)
	in := baseInputs()
	in.Payments = append(in.Payments,
		model.Payment{OrderID: "o1", Sequential: 2, Type: "voucher", Value: 30})

	tables := e.Build(in, model.NoFilter())

	var o1Rows int
	for _, a := range tables.Activities {
		if a.OrderID == "o1" {
			o1Rows++
			assert.True(t, a.HasPayment)
		}
	}
	assert.Equal(t, 2, o1Rows, "one activity row per payment record")
}

func TestBuildOrderWithoutPaymentSurvivesLeftJoin(t *testing.T) {
	e := newEngine(t)
	in := baseInputs()
	in.Payments = in.Payments[:1] // drop o2's payment

	tables := e.Build(in, model.NoFilter())

	var found bool
	for _, a := range tables.Activities {
		if a.OrderID == "o2" {
			found = true
			assert.False(t, a.HasPayment)
			assert.Zero(t, a.PaymentValue)
		}
	}
	assert.True(t, found)
}

func TestBuildHasCommentDerivation(t *testing.T) {
	e := newEngine(t)
	in := baseInputs()
	in.Reviews = append(in.Reviews, model.Review{ReviewID: "r2", OrderID: "o2", Score: 3})

	tables := e.Build(in, model.NoFilter())

	comments := map[string]int{}
	reviewed := map[string]bool{}
	for _, a := range tables.Activities {
		comments[a.OrderID] = a.HasComment
		reviewed[a.OrderID] = a.HasReview
	}
	assert.Equal(t, 1, comments["o1"])
	assert.Equal(t, 0, comments["o2"], "review without text has no comment flag")
	assert.True(t, reviewed["o2"])
}

func TestBuildStateFilterPropagatesEverywhere(t *testing.T) {
	e := newEngine(t)
	tables := e.Build(baseInputs(), model.StateSet("SP"))

	require.Len(t, tables.Orders, 1)
	assert.Equal(t, "o1", tables.Orders[0].OrderID)

	for _, l := range tables.OrderLines {
		assert.Equal(t, "o1", l.OrderID)
	}
	for _, co := range tables.CustomerOrders {
		assert.Equal(t, "SP", co.State)
	}
	for _, a := range tables.Activities {
		assert.Equal(t, "o1", a.OrderID)
	}
}

func TestBuildStateFilterMatchingNothingYieldsEmptyTables(t *testing.T) {
	e := newEngine(t)
	tables := e.Build(baseInputs(), model.StateSet("AM"))

	assert.Empty(t, tables.Orders)
	assert.Empty(t, tables.OrderLines)
	assert.Empty(t, tables.CustomerOrders)
	assert.Empty(t, tables.Activities)
}
