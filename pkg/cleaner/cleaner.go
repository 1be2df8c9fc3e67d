// pkg/cleaner/cleaner.go
package cleaner

import (
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/halilanisa/ecommerce-insights/pkg/model"
)

// Cleaner filters orders down to the analyzable delivered subset and
// normalizes product attributes. It never mutates source rows; cleaned
// views are freshly allocated.
type Cleaner struct {
	logger *zap.Logger
}

// New creates a Cleaner.
func New(logger *zap.Logger) (*Cleaner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Cleaner{logger: logger}, nil
}

// Orders returns the cleaned order view: status delivered, delivery
// timestamp present, purchase date inside the filter's date range. Every
// surviving order carries a timeliness label. Rows lacking a delivery
// timestamp are excluded before any comparison so a missing timestamp can
// never resolve to a label. State restrictions are applied later, after
// the customer join.
func (c *Cleaner) Orders(orders []model.Order, filter model.Filter) ([]model.DeliveredOrder, []model.CleanOperation) {
	cleaned := make([]model.DeliveredOrder, 0, len(orders))
	var ops []model.CleanOperation

	for _, o := range orders {
		if o.Status != model.StatusDelivered {
			continue
		}
		if o.DeliveredAt == nil {
			ops = append(ops, model.CleanOperation{
				Table:     "orders",
				Column:    "order_delivered_customer_date",
				RowID:     o.OrderID,
				Operation: "row_excluded",
				Reason:    "missing_delivery_timestamp",
			})
			continue
		}
		if !filter.InDateRange(o.PurchasedAt) {
			continue
		}
		cleaned = append(cleaned, model.DeliveredOrder{
			Order:      o,
			Timeliness: labelTimeliness(o),
		})
	}

	c.logger.Info("Cleaned order view",
		zap.Int("orders_in", len(orders)),
		zap.Int("orders_out", len(cleaned)),
		zap.Int("excluded", len(ops)))

	return cleaned, ops
}

// labelTimeliness derives the delivery label for an order whose delivery
// timestamp is known to be present. The comparison is inclusive: delivery
// on the estimated day is on time. An order without an estimate is labeled
// late, matching the source data's convention.
func labelTimeliness(o model.Order) model.Timeliness {
	if o.EstimatedAt != nil && !o.DeliveredAt.After(*o.EstimatedAt) {
		return model.OnTime
	}
	return model.Late
}

// Products normalizes the product table: a missing category name becomes
// the sentinel category, a missing photo count becomes 0. Dimensional
// columns are not part of the model and are dropped at load time.
func (c *Cleaner) Products(products []model.Product) ([]model.Product, []model.CleanOperation) {
	cleaned := make([]model.Product, 0, len(products))
	var ops []model.CleanOperation

	for _, p := range products {
		if p.Category == "" {
			p.Category = model.UncategorizedCategory
			ops = append(ops, model.CleanOperation{
				Table:     "products",
				Column:    "product_category_name",
				RowID:     p.ProductID,
				Value:     model.UncategorizedCategory,
				Operation: "sentinel_fill",
				Reason:    "missing_category",
			})
		}
		if p.Photos == nil {
			zero := 0
			p.Photos = &zero
			ops = append(ops, model.CleanOperation{
				Table:     "products",
				Column:    "product_photos_qty",
				RowID:     p.ProductID,
				Value:     strconv.Itoa(0),
				Operation: "zero_fill",
				Reason:    "missing_photo_count",
			})
		}
		cleaned = append(cleaned, p)
	}

	c.logger.Info("Normalized products",
		zap.Int("products", len(cleaned)),
		zap.Int("operations", len(ops)))

	return cleaned, ops
}
