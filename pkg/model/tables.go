// pkg/model/tables.go
package model

import "time"

// OrderStatus is the lifecycle status of an order as recorded at the source.
type OrderStatus string

const (
	StatusCreated     OrderStatus = "created"
	StatusApproved    OrderStatus = "approved"
	StatusInvoiced    OrderStatus = "invoiced"
	StatusProcessing  OrderStatus = "processing"
	StatusShipped     OrderStatus = "shipped"
	StatusDelivered   OrderStatus = "delivered"
	StatusCanceled    OrderStatus = "canceled"
	StatusUnavailable OrderStatus = "unavailable"
)

// UncategorizedCategory is the sentinel category assigned to products
// whose category name is missing at the source.
const UncategorizedCategory = "uncategorized"

// Order is one row of the orders table. Timestamps past the purchase may
// be absent; a missing timestamp is nil and must never be compared as if
// present.
type Order struct {
	OrderID     string      `db:"order_id" json:"order_id"`
	CustomerID  string      `db:"customer_id" json:"customer_id"`
	Status      OrderStatus `db:"order_status" json:"order_status"`
	PurchasedAt time.Time   `db:"order_purchase_timestamp" json:"order_purchase_timestamp"`
	ApprovedAt  *time.Time  `db:"order_approved_at" json:"order_approved_at"`
	CarrierAt   *time.Time  `db:"order_delivered_carrier_date" json:"order_delivered_carrier_date"`
	DeliveredAt *time.Time  `db:"order_delivered_customer_date" json:"order_delivered_customer_date"`
	EstimatedAt *time.Time  `db:"order_estimated_delivery_date" json:"order_estimated_delivery_date"`
}

// OrderItem is one line item of an order. An order carries one or more items.
type OrderItem struct {
	OrderID   string  `db:"order_id" json:"order_id"`
	ItemSeq   int     `db:"order_item_id" json:"order_item_id"`
	ProductID string  `db:"product_id" json:"product_id"`
	Price     float64 `db:"price" json:"price"`
	Freight   float64 `db:"freight_value" json:"freight_value"`
}

// Product is one row of the products table. Category and Photos may be
// absent at the source; the cleaner fills both.
type Product struct {
	ProductID string `db:"product_id" json:"product_id"`
	Category  string `db:"product_category_name" json:"product_category_name"`
	Photos    *int   `db:"product_photos_qty" json:"product_photos_qty"`
}

// CategoryTranslation maps a source-language category name to English.
// Not every category has a translation.
type CategoryTranslation struct {
	Category string `db:"product_category_name" json:"product_category_name"`
	English  string `db:"product_category_name_english" json:"product_category_name_english"`
}

// Customer is one row of the customers table. CustomerID is per-order;
// CustomerUniqueID is stable across repeat orders by the same person.
type Customer struct {
	CustomerID       string `db:"customer_id" json:"customer_id"`
	CustomerUniqueID string `db:"customer_unique_id" json:"customer_unique_id"`
	ZipPrefix        string `db:"customer_zip_code_prefix" json:"customer_zip_code_prefix"`
	City             string `db:"customer_city" json:"customer_city"`
	State            string `db:"customer_state" json:"customer_state"`
}

// GeoSample is one noisy geolocation ping. Many samples share a postal
// prefix.
type GeoSample struct {
	ZipPrefix string  `db:"geolocation_zip_code_prefix" json:"geolocation_zip_code_prefix"`
	City      string  `db:"geolocation_city" json:"geolocation_city"`
	State     string  `db:"geolocation_state" json:"geolocation_state"`
	Lat       float64 `db:"geolocation_lat" json:"geolocation_lat"`
	Lng       float64 `db:"geolocation_lng" json:"geolocation_lng"`
}

// Payment is one payment record for an order. Installment purchases
// produce several rows per order.
type Payment struct {
	OrderID      string  `db:"order_id" json:"order_id"`
	Sequential   int     `db:"payment_sequential" json:"payment_sequential"`
	Type         string  `db:"payment_type" json:"payment_type"`
	Installments int     `db:"payment_installments" json:"payment_installments"`
	Value        float64 `db:"payment_value" json:"payment_value"`
}

// Review is one customer review of an order.
type Review struct {
	ReviewID   string     `db:"review_id" json:"review_id"`
	OrderID    string     `db:"order_id" json:"order_id"`
	Score      int        `db:"review_score" json:"review_score"`
	Comment    string     `db:"review_comment_message" json:"review_comment_message"`
	CreatedAt  *time.Time `db:"review_creation_date" json:"review_creation_date"`
	AnsweredAt *time.Time `db:"review_answer_timestamp" json:"review_answer_timestamp"`
}

// Dataset holds the eight source tables, fully materialized. The loader
// produces it once per source; the pipeline reads it and never mutates it.
type Dataset struct {
	Orders       []Order
	Items        []OrderItem
	Products     []Product
	Customers    []Customer
	Geolocation  []GeoSample
	Payments     []Payment
	Reviews      []Review
	Translations []CategoryTranslation
}
