// pkg/geo/resolver.go
package geo

import (
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/halilanisa/ecommerce-insights/pkg/model"
)

// Resolver collapses noisy per-address geolocation samples into one
// representative point per postal-code prefix and attaches it to customer
// orders, deduplicating the fan-out the prefix join creates.
type Resolver struct {
	logger *zap.Logger
}

// New creates a Resolver.
func New(logger *zap.Logger) (*Resolver, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Resolver{logger: logger}, nil
}

// Resolve groups samples by (postal prefix, city, state) and takes the
// coordinate-wise median of latitude and longitude independently. The
// median tolerates outlier pings without the skew a mean would pick up.
// Output is sorted by (prefix, city, state) so runs are reproducible.
func (r *Resolver) Resolve(samples []model.GeoSample) []model.ResolvedGeo {
	type key struct {
		prefix, city, state string
	}
	type coords struct {
		lats, lngs []float64
	}

	groups := make(map[key]*coords)
	order := make([]key, 0)
	for _, s := range samples {
		k := key{s.ZipPrefix, s.City, s.State}
		g, ok := groups[k]
		if !ok {
			g = &coords{}
			groups[k] = g
			order = append(order, k)
		}
		g.lats = append(g.lats, s.Lat)
		g.lngs = append(g.lngs, s.Lng)
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.prefix != b.prefix {
			return a.prefix < b.prefix
		}
		if a.city != b.city {
			return a.city < b.city
		}
		return a.state < b.state
	})

	resolved := make([]model.ResolvedGeo, 0, len(order))
	for _, k := range order {
		g := groups[k]
		resolved = append(resolved, model.ResolvedGeo{
			ZipPrefix: k.prefix,
			City:      k.city,
			State:     k.state,
			Lat:       median(g.lats),
			Lng:       median(g.lngs),
		})
	}

	r.logger.Info("Resolved geolocation samples",
		zap.Int("samples", len(samples)),
		zap.Int("points", len(resolved)))

	return resolved
}

// Attach left-joins the resolved points onto customer orders by postal
// prefix alone; customer city and state spellings do not match the
// geolocation table reliably enough to join on. A prefix can map to
// several (city, state) spellings, so the join result is deduplicated to
// exactly one row per order id, picking the lexicographically first
// (city, state) point. Orders whose prefix has no sample keep HasPoint
// false.
func (r *Resolver) Attach(resolved []model.ResolvedGeo, orders []model.CustomerOrder) []model.GeoOrder {
	// Resolve keeps its output sorted, so the first point per prefix is
	// already the tie-break winner.
	firstByPrefix := make(map[string]model.ResolvedGeo, len(resolved))
	for _, g := range resolved {
		if _, ok := firstByPrefix[g.ZipPrefix]; !ok {
			firstByPrefix[g.ZipPrefix] = g
		}
	}

	out := make([]model.GeoOrder, 0, len(orders))
	missing := 0
	for _, co := range orders {
		row := model.GeoOrder{
			OrderID:          co.OrderID,
			CustomerUniqueID: co.CustomerUniqueID,
			City:             co.City,
			State:            co.State,
			ZipPrefix:        co.ZipPrefix,
		}
		if g, ok := firstByPrefix[co.ZipPrefix]; ok {
			row.HasPoint = true
			row.Lat = g.Lat
			row.Lng = g.Lng
			row.GeoCity = g.City
		} else {
			missing++
		}
		out = append(out, row)
	}

	r.logger.Info("Attached geolocation to orders",
		zap.Int("orders", len(out)),
		zap.Int("without_point", missing))

	return out
}

// median returns the middle order statistic, averaging the two central
// values for even-length input. gonum's quantile estimators pick or
// interpolate single order statistics and disagree with this midpoint
// convention on even lengths, so it is computed directly.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
