// pkg/join/engine.go
package join

import (
	"errors"

	"go.uber.org/zap"

	"github.com/halilanisa/ecommerce-insights/pkg/model"
)

// Engine executes the fixed chain of relational merges connecting items,
// products, category names, orders, customers, payments and reviews. The
// chain is the single place joins happen; every summary reads its output.
type Engine struct {
	logger *zap.Logger
}

// New creates a join Engine.
func New(logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Engine{logger: logger}, nil
}

// Inputs carries the tables the merge chain consumes. Orders is the
// cleaned order view; Products is the normalized product table.
type Inputs struct {
	Orders       []model.DeliveredOrder
	Items        []model.OrderItem
	Products     []model.Product
	Translations []model.CategoryTranslation
	Customers    []model.Customer
	Payments     []model.Payment
	Reviews      []model.Review
}

// Tables is the merge chain's output. When a state filter is active it has
// already been applied to every table here, by order-id membership, so all
// downstream aggregations see one consistent subset.
type Tables struct {
	// Orders is the cleaned order view after state filtering.
	Orders []model.DeliveredOrder
	// OrderLines is the order-items-product wide table.
	OrderLines []model.OrderLine
	// CustomerOrders has exactly one row per order with customer attributes.
	CustomerOrders []model.CustomerOrder
	// Activities is the full joined table at payment-row granularity.
	Activities []model.OrderActivity
	// DroppedItems counts items that referenced an unknown product.
	DroppedItems int
}

// Build runs the six merge steps in order and returns the joined tables.
func (e *Engine) Build(in Inputs, filter model.Filter) *Tables {
	orders := in.Orders

	// Customer attributes are needed up front: the state filter restricts
	// customer-orders first and then propagates to every other table by
	// order-id membership.
	customersByID := make(map[string]model.Customer, len(in.Customers))
	for _, cu := range in.Customers {
		customersByID[cu.CustomerID] = cu
	}

	if filter.HasStates() {
		members := filter.StateMembers()
		kept := make([]model.DeliveredOrder, 0, len(orders))
		for _, o := range orders {
			cu, ok := customersByID[o.CustomerID]
			if !ok {
				continue
			}
			if _, ok := members[cu.State]; ok {
				kept = append(kept, o)
			}
		}
		e.logger.Info("Applied state filter",
			zap.Strings("states", filter.States),
			zap.Int("orders_in", len(orders)),
			zap.Int("orders_out", len(kept)))
		orders = kept
	}

	catalog := e.buildCatalog(in.Items, in.Products, in.Translations)

	t := &Tables{
		Orders:       orders,
		DroppedItems: len(in.Items) - len(catalog),
	}

	// Step 3: cleaned orders x catalog items, inner on order id. Orders
	// with zero items simply contribute no rows; that is a valid outcome,
	// not an error.
	ordersByID := make(map[string]model.DeliveredOrder, len(orders))
	for _, o := range orders {
		ordersByID[o.OrderID] = o
	}
	t.OrderLines = make([]model.OrderLine, 0, len(catalog))
	for _, ci := range catalog {
		o, ok := ordersByID[ci.OrderID]
		if !ok {
			continue
		}
		t.OrderLines = append(t.OrderLines, model.OrderLine{
			CatalogItem: ci,
			CustomerID:  o.CustomerID,
			PurchasedAt: o.PurchasedAt,
			Timeliness:  o.Timeliness,
		})
	}

	// Step 4: customers x cleaned orders, inner on customer id. One row
	// per delivered order.
	t.CustomerOrders = make([]model.CustomerOrder, 0, len(orders))
	for _, o := range orders {
		cu, ok := customersByID[o.CustomerID]
		if !ok {
			continue
		}
		t.CustomerOrders = append(t.CustomerOrders, model.CustomerOrder{
			OrderID:          o.OrderID,
			CustomerID:       cu.CustomerID,
			CustomerUniqueID: cu.CustomerUniqueID,
			ZipPrefix:        cu.ZipPrefix,
			City:             cu.City,
			State:            cu.State,
			PurchasedAt:      o.PurchasedAt,
			Timeliness:       o.Timeliness,
		})
	}
	if dropped := len(orders) - len(t.CustomerOrders); dropped > 0 {
		e.logger.Warn("Orders without customer record dropped",
			zap.Int("dropped", dropped))
	}

	// Steps 5 and 6.
	t.Activities = e.buildActivities(t.CustomerOrders, in.Payments, in.Reviews)

	e.logger.Info("Built joined tables",
		zap.Int("order_lines", len(t.OrderLines)),
		zap.Int("customer_orders", len(t.CustomerOrders)),
		zap.Int("activities", len(t.Activities)),
		zap.Int("items_dropped", t.DroppedItems))

	return t
}

// buildCatalog runs steps 1 and 2: items x products (inner, items with an
// unknown product reference are dropped and counted) and the left join
// onto the category translation (unmatched categories keep their raw or
// sentinel name; no row loss).
func (e *Engine) buildCatalog(items []model.OrderItem, products []model.Product, translations []model.CategoryTranslation) []model.CatalogItem {
	productsByID := make(map[string]model.Product, len(products))
	for _, p := range products {
		productsByID[p.ProductID] = p
	}
	english := make(map[string]string, len(translations))
	for _, tr := range translations {
		english[tr.Category] = tr.English
	}

	catalog := make([]model.CatalogItem, 0, len(items))
	dropped := 0
	for _, it := range items {
		p, ok := productsByID[it.ProductID]
		if !ok {
			dropped++
			continue
		}
		name := p.Category
		if en, ok := english[p.Category]; ok {
			name = en
		}
		photos := 0
		if p.Photos != nil {
			photos = *p.Photos
		}
		catalog = append(catalog, model.CatalogItem{
			OrderID:         it.OrderID,
			ItemSeq:         it.ItemSeq,
			ProductID:       it.ProductID,
			Price:           it.Price,
			Freight:         it.Freight,
			Category:        p.Category,
			CategoryEnglish: name,
			Photos:          photos,
		})
	}
	if dropped > 0 {
		e.logger.Warn("Items referencing unknown products dropped",
			zap.Int("dropped", dropped))
	}
	return catalog
}

// buildActivities runs steps 5 and 6: payments left-joined with reviews,
// then customer-orders left-joined with that result. Orders with several
// payment records appear once per payment row; payment statistics are
// computed at that granularity, so the fan-out is intentional and
// preserved.
func (e *Engine) buildActivities(customerOrders []model.CustomerOrder, payments []model.Payment, reviews []model.Review) []model.OrderActivity {
	// First review per order wins, keeping the join deterministic when an
	// order has more than one review.
	reviewsByOrder := make(map[string]model.Review, len(reviews))
	for _, r := range reviews {
		if _, ok := reviewsByOrder[r.OrderID]; !ok {
			reviewsByOrder[r.OrderID] = r
		}
	}

	// Step 5: payments x reviews, left. Payments without a review keep a
	// zero review with HasReview false; has_comment is derived here.
	paymentsByOrder := make(map[string][]model.PaymentReview, len(payments))
	for _, p := range payments {
		pr := model.PaymentReview{
			OrderID:      p.OrderID,
			PaymentType:  p.Type,
			PaymentValue: p.Value,
		}
		if r, ok := reviewsByOrder[p.OrderID]; ok {
			pr.HasReview = true
			pr.ReviewScore = r.Score
			if r.Comment != "" {
				pr.HasComment = 1
			}
		}
		paymentsByOrder[p.OrderID] = append(paymentsByOrder[p.OrderID], pr)
	}

	// Step 6: customer-orders x step-5 result, left. Orders without any
	// payment record survive with null-filled payment columns.
	activities := make([]model.OrderActivity, 0, len(customerOrders))
	for _, co := range customerOrders {
		prs, ok := paymentsByOrder[co.OrderID]
		if !ok {
			act := model.OrderActivity{CustomerOrder: co}
			if r, found := reviewsByOrder[co.OrderID]; found {
				act.HasReview = true
				act.ReviewScore = r.Score
				if r.Comment != "" {
					act.HasComment = 1
				}
			}
			activities = append(activities, act)
			continue
		}
		for _, pr := range prs {
			activities = append(activities, model.OrderActivity{
				CustomerOrder: co,
				HasPayment:    true,
				PaymentType:   pr.PaymentType,
				PaymentValue:  pr.PaymentValue,
				HasReview:     pr.HasReview,
				ReviewScore:   pr.ReviewScore,
				HasComment:    pr.HasComment,
			})
		}
	}
	return activities
}
