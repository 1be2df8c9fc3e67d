// pkg/aggregate/aggregate.go
//
// Pure, stateless summary computations. Each function takes a joined table
// and returns a freshly allocated summary, recomputed fully on every
// filter change. Empty input always degrades to an empty or zero result.
package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/halilanisa/ecommerce-insights/pkg/model"
)

// TopN is the ranking depth of the category and city summaries.
const TopN = 10

// CategoryRevenue groups the order-items-product table by English category
// name and returns the top categories by price sum, sorted non-increasing.
// Categories with equal revenue keep their first-seen order.
func CategoryRevenue(lines []model.OrderLine) []model.CategoryRevenue {
	index := make(map[string]int, 64)
	rows := make([]model.CategoryRevenue, 0, 64)
	for _, l := range lines {
		i, ok := index[l.CategoryEnglish]
		if !ok {
			i = len(rows)
			index[l.CategoryEnglish] = i
			rows = append(rows, model.CategoryRevenue{Category: l.CategoryEnglish})
		}
		rows[i].Items++
		rows[i].Revenue += l.Price
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Revenue > rows[j].Revenue
	})
	if len(rows) > TopN {
		rows = rows[:TopN]
	}
	return rows
}

// CityCustomers groups the geo-customer table by customer city, counts
// distinct customer-unique ids, and returns the top cities sorted
// descending. Ties keep their first-seen order.
func CityCustomers(geoOrders []model.GeoOrder) []model.CityCustomers {
	index := make(map[string]int, 64)
	seen := make(map[string]map[string]struct{}, 64)
	rows := make([]model.CityCustomers, 0, 64)
	for _, g := range geoOrders {
		i, ok := index[g.City]
		if !ok {
			i = len(rows)
			index[g.City] = i
			seen[g.City] = make(map[string]struct{})
			rows = append(rows, model.CityCustomers{City: g.City})
		}
		if _, dup := seen[g.City][g.CustomerUniqueID]; dup {
			continue
		}
		seen[g.City][g.CustomerUniqueID] = struct{}{}
		rows[i].Customers++
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Customers > rows[j].Customers
	})
	if len(rows) > TopN {
		rows = rows[:TopN]
	}
	return rows
}

// PaymentSummary groups the full joined table by payment type. The order
// count is distinct order ids; min, max and mean are computed over the
// individual payment rows, so an order paying with three vouchers counts
// once but contributes three values. Rows without a payment record are
// not a payment method and are skipped. Output is sorted by type for
// reproducibility.
func PaymentSummary(activities []model.OrderActivity) []model.PaymentSummary {
	type group struct {
		orders map[string]struct{}
		values []float64
	}
	groups := make(map[string]*group, 8)
	for _, a := range activities {
		if !a.HasPayment {
			continue
		}
		g, ok := groups[a.PaymentType]
		if !ok {
			g = &group{orders: make(map[string]struct{})}
			groups[a.PaymentType] = g
		}
		g.orders[a.OrderID] = struct{}{}
		g.values = append(g.values, a.PaymentValue)
	}

	rows := make([]model.PaymentSummary, 0, len(groups))
	for typ, g := range groups {
		row := model.PaymentSummary{
			Type:   typ,
			Orders: len(g.orders),
			Min:    g.values[0],
			Max:    g.values[0],
			Mean:   stat.Mean(g.values, nil),
		}
		for _, v := range g.values[1:] {
			if v < row.Min {
				row.Min = v
			}
			if v > row.Max {
				row.Max = v
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Type < rows[j].Type })
	return rows
}

// DeliveryRatio counts on-time versus late deliveries over the cleaned
// order view. Both percentages are 0 when no order matched the filter;
// otherwise they sum to exactly 100.
func DeliveryRatio(orders []model.DeliveredOrder) model.DeliveryRatio {
	var ratio model.DeliveryRatio
	for _, o := range orders {
		if o.Timeliness == model.OnTime {
			ratio.OnTime++
		} else {
			ratio.Late++
		}
	}
	total := ratio.OnTime + ratio.Late
	if total == 0 {
		return ratio
	}
	ratio.OnTimePct = float64(ratio.OnTime) / float64(total) * 100
	ratio.LatePct = 100 - ratio.OnTimePct
	return ratio
}

// ReviewScores counts distinct orders per review score over the full
// joined table. Every score from 1 to 5 appears in the result; scores
// absent from the filtered data carry a zero count rather than being
// omitted.
func ReviewScores(activities []model.OrderActivity) []model.ReviewScoreCount {
	seen := make(map[int]map[string]struct{}, 5)
	for _, a := range activities {
		if !a.HasReview {
			continue
		}
		if a.ReviewScore < 1 || a.ReviewScore > 5 {
			continue
		}
		orders, ok := seen[a.ReviewScore]
		if !ok {
			orders = make(map[string]struct{})
			seen[a.ReviewScore] = orders
		}
		orders[a.OrderID] = struct{}{}
	}
	rows := make([]model.ReviewScoreCount, 0, 5)
	for score := 1; score <= 5; score++ {
		rows = append(rows, model.ReviewScoreCount{
			Score:  score,
			Orders: len(seen[score]),
		})
	}
	return rows
}

// Totals computes the headline figures: distinct customers over the full
// joined table, distinct orders and total item revenue over the
// order-items-product table.
func Totals(lines []model.OrderLine, activities []model.OrderActivity) model.Totals {
	customers := make(map[string]struct{}, len(activities))
	for _, a := range activities {
		customers[a.CustomerUniqueID] = struct{}{}
	}
	orders := make(map[string]struct{}, len(lines))
	var revenue float64
	for _, l := range lines {
		orders[l.OrderID] = struct{}{}
		revenue += l.Price
	}
	return model.Totals{
		Customers: len(customers),
		Orders:    len(orders),
		Revenue:   revenue,
	}
}
