// pkg/loader/postgres.go
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/halilanisa/ecommerce-insights/pkg/config"
	"github.com/halilanisa/ecommerce-insights/pkg/model"
)

// PostgresSource reads the eight tables from a PostgreSQL database whose
// schema mirrors the CSV files.
type PostgresSource struct {
	db     *sqlx.DB
	cfg    *config.PostgresConfig
	logger *zap.Logger
}

// NewPostgresSource opens and verifies a connection to the configured
// database.
func NewPostgresSource(ctx context.Context, cfg *config.PostgresConfig, logger *zap.Logger) (*PostgresSource, error) {
	if cfg == nil {
		return nil, errors.New("postgres configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	logger = logger.Named("postgres-loader")

	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User))

	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := pingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	return &PostgresSource{db: db, cfg: cfg, logger: logger}, nil
}

// Key identifies this source by its database location.
func (s *PostgresSource) Key() string {
	return fmt.Sprintf("postgres:%s:%d/%s", s.cfg.Host, s.cfg.Port, s.cfg.Database)
}

// Close closes the database connection.
func (s *PostgresSource) Close() error {
	s.logger.Info("Closing PostgreSQL connection")
	return s.db.Close()
}

// Load reads all eight tables. A failed query is a fatal LoadError naming
// the table.
func (s *PostgresSource) Load(ctx context.Context) (*model.Dataset, error) {
	ds := &model.Dataset{}

	steps := []struct {
		table string
		query string
		dest  interface{}
	}{
		{"orders", `SELECT order_id, customer_id, order_status,
			order_purchase_timestamp, order_approved_at,
			order_delivered_carrier_date, order_delivered_customer_date,
			order_estimated_delivery_date FROM orders`, &ds.Orders},
		{"order_items", `SELECT order_id, order_item_id, product_id,
			price, freight_value FROM order_items`, &ds.Items},
		{"products", `SELECT product_id, product_category_name,
			product_photos_qty FROM products`, &ds.Products},
		{"customers", `SELECT customer_id, customer_unique_id,
			customer_zip_code_prefix, customer_city, customer_state
			FROM customers`, &ds.Customers},
		{"geolocation", `SELECT geolocation_zip_code_prefix, geolocation_city,
			geolocation_state, geolocation_lat, geolocation_lng
			FROM geolocation`, &ds.Geolocation},
		{"payments", `SELECT order_id, payment_sequential, payment_type,
			payment_installments, payment_value FROM order_payments`, &ds.Payments},
		{"reviews", `SELECT review_id, order_id, review_score,
			COALESCE(review_comment_message, '') AS review_comment_message,
			review_creation_date, review_answer_timestamp
			FROM order_reviews`, &ds.Reviews},
		{"category_translation", `SELECT product_category_name,
			product_category_name_english
			FROM product_category_name_translation`, &ds.Translations},
	}

	for _, step := range steps {
		queryCtx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
		err := s.db.SelectContext(queryCtx, step.dest, step.query)
		cancel()
		if err != nil {
			return nil, &LoadError{Table: step.table, Err: err}
		}
	}

	s.logger.Info("Dataset loaded",
		zap.String("database", s.cfg.Database),
		zap.Int("orders", len(ds.Orders)),
		zap.Int("items", len(ds.Items)),
		zap.Int("customers", len(ds.Customers)),
		zap.Int("geolocation", len(ds.Geolocation)))

	return ds, nil
}

// pingWithTimeout attempts to ping the database within the given timeout.
func pingWithTimeout(ctx context.Context, db *sqlx.DB, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping failed after %v: %w", timeout, err)
	}
	return nil
}
