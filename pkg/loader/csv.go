// pkg/loader/csv.go
package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/halilanisa/ecommerce-insights/pkg/model"
)

// Source CSV file names inside the dataset directory.
const (
	ordersFile       = "orders_dataset.csv"
	itemsFile        = "order_items_dataset.csv"
	productsFile     = "products_dataset.csv"
	customersFile    = "customers_dataset.csv"
	geolocationFile  = "geolocation_dataset.csv"
	paymentsFile     = "order_payments_dataset.csv"
	reviewsFile      = "order_reviews_dataset.csv"
	translationsFile = "product_category_name_translation.csv"
)

// CSVSource reads the eight tables from CSV files in a directory.
type CSVSource struct {
	dir    string
	logger *zap.Logger
}

// NewCSVSource creates a CSV source rooted at dir.
func NewCSVSource(dir string, logger *zap.Logger) (*CSVSource, error) {
	if dir == "" {
		return nil, errors.New("dataset directory cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &CSVSource{dir: dir, logger: logger.Named("csv-loader")}, nil
}

// Key identifies this source by its directory.
func (s *CSVSource) Key() string {
	return "csv:" + s.dir
}

// Load reads all eight tables. A missing or unreadable file is a fatal
// LoadError naming the table; a malformed value inside a row becomes a
// missing value instead.
func (s *CSVSource) Load(ctx context.Context) (*model.Dataset, error) {
	ds := &model.Dataset{}

	steps := []struct {
		table string
		file  string
		parse func(*table)
	}{
		{"orders", ordersFile, func(t *table) { ds.Orders = parseOrders(t) }},
		{"order_items", itemsFile, func(t *table) { ds.Items = parseItems(t) }},
		{"products", productsFile, func(t *table) { ds.Products = parseProducts(t) }},
		{"customers", customersFile, func(t *table) { ds.Customers = parseCustomers(t) }},
		{"geolocation", geolocationFile, func(t *table) { ds.Geolocation = parseGeolocation(t) }},
		{"payments", paymentsFile, func(t *table) { ds.Payments = parsePayments(t) }},
		{"reviews", reviewsFile, func(t *table) { ds.Reviews = parseReviews(t) }},
		{"category_translation", translationsFile, func(t *table) { ds.Translations = parseTranslations(t) }},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := readTable(filepath.Join(s.dir, step.file))
		if err != nil {
			return nil, &LoadError{Table: step.table, Err: err}
		}
		step.parse(t)
		s.logger.Debug("Loaded table",
			zap.String("table", step.table),
			zap.Int("rows", len(t.rows)))
	}

	s.logger.Info("Dataset loaded",
		zap.String("dir", s.dir),
		zap.Int("orders", len(ds.Orders)),
		zap.Int("items", len(ds.Items)),
		zap.Int("products", len(ds.Products)),
		zap.Int("customers", len(ds.Customers)),
		zap.Int("geolocation", len(ds.Geolocation)),
		zap.Int("payments", len(ds.Payments)),
		zap.Int("reviews", len(ds.Reviews)))

	return ds, nil
}

// table is a parsed CSV file with header-addressed cells.
type table struct {
	index map[string]int
	rows  [][]string
}

// get returns the named cell of a row, or "" when the column or cell is
// absent.
func (t *table) get(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func readTable(path string) (*table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})

	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, rec)
	}
	return &table{index: index, rows: rows}, nil
}

func parseOrders(t *table) []model.Order {
	orders := make([]model.Order, 0, len(t.rows))
	for _, row := range t.rows {
		orders = append(orders, model.Order{
			OrderID:     t.get(row, "order_id"),
			CustomerID:  t.get(row, "customer_id"),
			Status:      model.OrderStatus(t.get(row, "order_status")),
			PurchasedAt: parseTimeOrZero(t.get(row, "order_purchase_timestamp")),
			ApprovedAt:  parseTime(t.get(row, "order_approved_at")),
			CarrierAt:   parseTime(t.get(row, "order_delivered_carrier_date")),
			DeliveredAt: parseTime(t.get(row, "order_delivered_customer_date")),
			EstimatedAt: parseTime(t.get(row, "order_estimated_delivery_date")),
		})
	}
	return orders
}

func parseItems(t *table) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(t.rows))
	for _, row := range t.rows {
		items = append(items, model.OrderItem{
			OrderID:   t.get(row, "order_id"),
			ItemSeq:   parseIntOrZero(t.get(row, "order_item_id")),
			ProductID: t.get(row, "product_id"),
			Price:     parseFloatOrZero(t.get(row, "price")),
			Freight:   parseFloatOrZero(t.get(row, "freight_value")),
		})
	}
	return items
}

// parseProducts keeps only the columns the analysis uses; the dimensional
// columns of the source file are dropped here.
func parseProducts(t *table) []model.Product {
	products := make([]model.Product, 0, len(t.rows))
	for _, row := range t.rows {
		products = append(products, model.Product{
			ProductID: t.get(row, "product_id"),
			Category:  t.get(row, "product_category_name"),
			Photos:    parseInt(t.get(row, "product_photos_qty")),
		})
	}
	return products
}

func parseCustomers(t *table) []model.Customer {
	customers := make([]model.Customer, 0, len(t.rows))
	for _, row := range t.rows {
		customers = append(customers, model.Customer{
			CustomerID:       t.get(row, "customer_id"),
			CustomerUniqueID: t.get(row, "customer_unique_id"),
			ZipPrefix:        t.get(row, "customer_zip_code_prefix"),
			City:             t.get(row, "customer_city"),
			State:            t.get(row, "customer_state"),
		})
	}
	return customers
}

func parseGeolocation(t *table) []model.GeoSample {
	samples := make([]model.GeoSample, 0, len(t.rows))
	for _, row := range t.rows {
		samples = append(samples, model.GeoSample{
			ZipPrefix: t.get(row, "geolocation_zip_code_prefix"),
			City:      t.get(row, "geolocation_city"),
			State:     t.get(row, "geolocation_state"),
			Lat:       parseFloatOrZero(t.get(row, "geolocation_lat")),
			Lng:       parseFloatOrZero(t.get(row, "geolocation_lng")),
		})
	}
	return samples
}

func parsePayments(t *table) []model.Payment {
	payments := make([]model.Payment, 0, len(t.rows))
	for _, row := range t.rows {
		payments = append(payments, model.Payment{
			OrderID:      t.get(row, "order_id"),
			Sequential:   parseIntOrZero(t.get(row, "payment_sequential")),
			Type:         t.get(row, "payment_type"),
			Installments: parseIntOrZero(t.get(row, "payment_installments")),
			Value:        parseFloatOrZero(t.get(row, "payment_value")),
		})
	}
	return payments
}

func parseReviews(t *table) []model.Review {
	reviews := make([]model.Review, 0, len(t.rows))
	for _, row := range t.rows {
		reviews = append(reviews, model.Review{
			ReviewID:   t.get(row, "review_id"),
			OrderID:    t.get(row, "order_id"),
			Score:      parseIntOrZero(t.get(row, "review_score")),
			Comment:    t.get(row, "review_comment_message"),
			CreatedAt:  parseTime(t.get(row, "review_creation_date")),
			AnsweredAt: parseTime(t.get(row, "review_answer_timestamp")),
		})
	}
	return reviews
}

func parseTranslations(t *table) []model.CategoryTranslation {
	translations := make([]model.CategoryTranslation, 0, len(t.rows))
	for _, row := range t.rows {
		translations = append(translations, model.CategoryTranslation{
			Category: t.get(row, "product_category_name"),
			English:  t.get(row, "product_category_name_english"),
		})
	}
	return translations
}

// timeLayouts are tried in order when parsing timestamp columns.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime parses a timestamp cell. Empty or unparseable values become
// nil, not a load failure.
func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseTimeOrZero(s string) time.Time {
	if t := parseTime(s); t != nil {
		return *t
	}
	return time.Time{}
}

func parseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// Counts arrive as "2.0" from sources that went through a float type.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

func parseIntOrZero(s string) int {
	if n := parseInt(s); n != nil {
		return *n
	}
	return 0
}

func parseFloatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
