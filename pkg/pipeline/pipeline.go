// pkg/pipeline/pipeline.go
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/halilanisa/ecommerce-insights/pkg/aggregate"
	"github.com/halilanisa/ecommerce-insights/pkg/cleaner"
	"github.com/halilanisa/ecommerce-insights/pkg/geo"
	"github.com/halilanisa/ecommerce-insights/pkg/join"
	"github.com/halilanisa/ecommerce-insights/pkg/model"
)

// Pipeline is the single parameterized computation from the loaded tables
// to the summary tables. One filter value in, one fully recomputed set of
// summaries out; there are no per-chart code paths that could drift apart.
type Pipeline struct {
	logger  *zap.Logger
	cleaner *cleaner.Cleaner
	joins   *join.Engine
	geo     *geo.Resolver
}

// New creates a Pipeline with its component stages.
func New(logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	cl, err := cleaner.New(logger.Named("cleaner"))
	if err != nil {
		return nil, fmt.Errorf("failed to create cleaner: %w", err)
	}
	je, err := join.New(logger.Named("join"))
	if err != nil {
		return nil, fmt.Errorf("failed to create join engine: %w", err)
	}
	gr, err := geo.New(logger.Named("geo"))
	if err != nil {
		return nil, fmt.Errorf("failed to create geo resolver: %w", err)
	}
	return &Pipeline{
		logger:  logger,
		cleaner: cl,
		joins:   je,
		geo:     gr,
	}, nil
}

// RowStats records the table sizes a run produced, for reporting row-count
// deltas without making them fatal.
type RowStats struct {
	OrdersIn       int `json:"orders_in"`
	OrdersCleaned  int `json:"orders_cleaned"`
	CleanOps       int `json:"clean_operations"`
	ItemsDropped   int `json:"items_dropped"`
	OrderLines     int `json:"order_lines"`
	CustomerOrders int `json:"customer_orders"`
	Activities     int `json:"activities"`
}

// Result carries everything one run produced: the six summary tables, the
// deduplicated geo-customer table, and run bookkeeping.
type Result struct {
	RunID    string        `json:"run_id"`
	Filter   model.Filter  `json:"filter"`
	Started  time.Time     `json:"started"`
	Finished time.Time     `json:"finished"`
	Duration time.Duration `json:"duration_ns"`
	Stats    RowStats      `json:"stats"`

	Totals          model.Totals             `json:"totals"`
	CategoryRevenue []model.CategoryRevenue  `json:"category_revenue"`
	TopCities       []model.CityCustomers    `json:"top_cities"`
	Payments        []model.PaymentSummary   `json:"payments"`
	Delivery        model.DeliveryRatio      `json:"delivery"`
	ReviewScores    []model.ReviewScoreCount `json:"review_scores"`
	GeoOrders       []model.GeoOrder         `json:"geo_orders"`
}

// Run executes one full recomputation against ds under the given filter.
// The dataset is read-only to the run and every output table is freshly
// allocated, so concurrent runs can never interleave state; callers that
// race filter changes get last-request-wins semantics for free.
func (p *Pipeline) Run(ds *model.Dataset, filter model.Filter) (*Result, error) {
	if ds == nil {
		return nil, errors.New("dataset cannot be nil")
	}
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	res := &Result{
		RunID:   uuid.New().String(),
		Filter:  filter,
		Started: time.Now(),
	}
	logger := p.logger.With(zap.String("run_id", res.RunID))
	logger.Info("Pipeline run starting",
		zap.Int("orders", len(ds.Orders)),
		zap.Bool("date_range", filter.HasDateRange()),
		zap.Strings("states", filter.States))

	orders, orderOps := p.cleaner.Orders(ds.Orders, filter)
	products, productOps := p.cleaner.Products(ds.Products)

	tables := p.joins.Build(join.Inputs{
		Orders:       orders,
		Items:        ds.Items,
		Products:     products,
		Translations: ds.Translations,
		Customers:    ds.Customers,
		Payments:     ds.Payments,
		Reviews:      ds.Reviews,
	}, filter)

	resolved := p.geo.Resolve(ds.Geolocation)
	res.GeoOrders = p.geo.Attach(resolved, tables.CustomerOrders)

	res.Totals = aggregate.Totals(tables.OrderLines, tables.Activities)
	res.CategoryRevenue = aggregate.CategoryRevenue(tables.OrderLines)
	res.TopCities = aggregate.CityCustomers(res.GeoOrders)
	res.Payments = aggregate.PaymentSummary(tables.Activities)
	res.Delivery = aggregate.DeliveryRatio(tables.Orders)
	res.ReviewScores = aggregate.ReviewScores(tables.Activities)

	res.Stats = RowStats{
		OrdersIn:       len(ds.Orders),
		OrdersCleaned:  len(orders),
		CleanOps:       len(orderOps) + len(productOps),
		ItemsDropped:   tables.DroppedItems,
		OrderLines:     len(tables.OrderLines),
		CustomerOrders: len(tables.CustomerOrders),
		Activities:     len(tables.Activities),
	}
	res.Finished = time.Now()
	res.Duration = res.Finished.Sub(res.Started)

	logger.Info("Pipeline run complete",
		zap.Duration("duration", res.Duration),
		zap.Int("orders_cleaned", res.Stats.OrdersCleaned),
		zap.Int("order_lines", res.Stats.OrderLines),
		zap.Int("activities", res.Stats.Activities))

	return res, nil
}
