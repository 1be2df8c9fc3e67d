// pkg/model/derived.go
package model

import "time"

// Timeliness is the binary delivery label derived by comparing the actual
// delivery date against the estimate. The comparison is inclusive: a
// delivery on the estimated day is on time.
type Timeliness string

const (
	OnTime Timeliness = "on_time"
	Late   Timeliness = "late"
)

// DeliveredOrder is an order that passed the cleaner: status delivered,
// delivery timestamp present, user filter applied.
type DeliveredOrder struct {
	Order
	Timeliness Timeliness `json:"timeliness"`
}

// CatalogItem is an order item joined with its product and the English
// category translation. Items referencing unknown products never reach
// this type.
type CatalogItem struct {
	OrderID         string  `json:"order_id"`
	ItemSeq         int     `json:"order_item_id"`
	ProductID       string  `json:"product_id"`
	Price           float64 `json:"price"`
	Freight         float64 `json:"freight_value"`
	Category        string  `json:"product_category_name"`
	CategoryEnglish string  `json:"product_category_name_english"`
	Photos          int     `json:"product_photos_qty"`
}

// OrderLine is a catalog item joined with its delivered order. This is the
// order-items-product wide table driving category revenue and totals.
type OrderLine struct {
	CatalogItem
	CustomerID  string     `json:"customer_id"`
	PurchasedAt time.Time  `json:"order_purchase_timestamp"`
	Timeliness  Timeliness `json:"timeliness"`
}

// CustomerOrder is one delivered order with its customer attributes
// attached. Exactly one row per delivered order.
type CustomerOrder struct {
	OrderID          string     `json:"order_id"`
	CustomerID       string     `json:"customer_id"`
	CustomerUniqueID string     `json:"customer_unique_id"`
	ZipPrefix        string     `json:"customer_zip_code_prefix"`
	City             string     `json:"customer_city"`
	State            string     `json:"customer_state"`
	PurchasedAt      time.Time  `json:"order_purchase_timestamp"`
	Timeliness       Timeliness `json:"timeliness"`
}

// PaymentReview is a payment row left-joined with the order's review.
// Orders without a review keep HasReview false.
type PaymentReview struct {
	OrderID      string  `json:"order_id"`
	PaymentType  string  `json:"payment_type"`
	PaymentValue float64 `json:"payment_value"`
	HasReview    bool    `json:"has_review"`
	ReviewScore  int     `json:"review_score"`
	HasComment   int     `json:"has_comment"`
}

// OrderActivity is the full joined table: customer order x payment x
// review. An order with several payment records appears once per payment
// row; payment statistics are computed at this granularity on purpose.
type OrderActivity struct {
	CustomerOrder
	HasPayment   bool    `json:"has_payment"`
	PaymentType  string  `json:"payment_type"`
	PaymentValue float64 `json:"payment_value"`
	HasReview    bool    `json:"has_review"`
	ReviewScore  int     `json:"review_score"`
	HasComment   int     `json:"has_comment"`
}

// ResolvedGeo is one representative coordinate per (postal prefix, city,
// state) triple, the coordinate-wise median of that triple's samples.
type ResolvedGeo struct {
	ZipPrefix string  `json:"zip_code_prefix"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

// GeoOrder is one analyzable order with its representative coordinate.
// Exactly one row per order id; HasPoint is false when no geolocation
// sample exists for the customer's postal prefix.
type GeoOrder struct {
	OrderID          string  `json:"order_id"`
	CustomerUniqueID string  `json:"customer_unique_id"`
	City             string  `json:"customer_city"`
	State            string  `json:"customer_state"`
	ZipPrefix        string  `json:"customer_zip_code_prefix"`
	HasPoint         bool    `json:"has_point"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	GeoCity          string  `json:"geolocation_city"`
}
