// pkg/model/summary.go
package model

// Summary-table row types. Column names and types are part of the
// contract with the presentation layer and must not change between runs.

// CategoryRevenue is one row of the category revenue ranking: item count
// and price sum per English category name, sorted by revenue descending.
type CategoryRevenue struct {
	Category string  `json:"category"`
	Items    int     `json:"quantity_sold"`
	Revenue  float64 `json:"total_revenue"`
}

// CityCustomers is one row of the city ranking: distinct customers per
// customer city, sorted descending.
type CityCustomers struct {
	City      string `json:"city"`
	Customers int    `json:"customers"`
}

// PaymentSummary is one row of the payment-method statistics. Orders is a
// distinct order count; Min, Max and Mean are computed over individual
// payment rows.
type PaymentSummary struct {
	Type   string  `json:"payment_type"`
	Orders int     `json:"orders"`
	Min    float64 `json:"min_value"`
	Max    float64 `json:"max_value"`
	Mean   float64 `json:"mean_value"`
}

// DeliveryRatio is the on-time versus late breakdown over the cleaned
// order view. Percentages are 0 when no delivered order matched the
// filter, and sum to 100 otherwise.
type DeliveryRatio struct {
	OnTime    int     `json:"on_time"`
	Late      int     `json:"late"`
	OnTimePct float64 `json:"on_time_pct"`
	LatePct   float64 `json:"late_pct"`
}

// ReviewScoreCount is one row of the review-score distribution. Every
// score from 1 to 5 appears, with a zero count when absent from the
// filtered data.
type ReviewScoreCount struct {
	Score  int `json:"score"`
	Orders int `json:"orders"`
}

// Totals holds the headline figures for the current filter.
type Totals struct {
	Customers int     `json:"total_customers"`
	Orders    int     `json:"total_orders"`
	Revenue   float64 `json:"total_revenue"`
}
