package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"

	_ "github.com/go-sql-driver/mysql"

	"restaurant-manager/internal/config"
	"restaurant-manager/internal/logger"
	"restaurant-manager/internal/models"
)

type MySQLStore struct {
	db  *bun.DB
	log *logger.Logger
}

func NewMySQLStore(cfg config.DatabaseConfig, log *logger.Logger) (*MySQLStore, error) {
	log.LogDatabase("CONNECT", "mysql", fmt.Sprintf("Connecting to MySQL at %s:%s", cfg.Host, cfg.Port))

	sqldb, err := sql.Open("mysql", buildDSN(cfg))
	if err != nil {
		log.Error("DATABASE", "Failed to open MySQL connection: "+err.Error())
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	if err := sqldb.Ping(); err != nil {
		log.Error("DATABASE", "Failed to ping MySQL: "+err.Error())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &MySQLStore{
		db:  bun.NewDB(sqldb, mysqldialect.New()),
		log: log,
	}

	if err := store.initTables(); err != nil {
		log.Error("DATABASE", "Failed to initialize tables: "+err.Error())
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	log.LogDatabase("SUCCESS", "mysql", "MySQL connection established and tables initialized")
	return store, nil
}

// buildDSN assembles the driver connection string. clientFoundRows makes
// RowsAffected count matched rows rather than changed ones, so an update
// that rewrites identical values is not mistaken for a missing record.
func buildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
}

func (s *MySQLStore) initTables() error {
	s.log.LogDatabase("MIGRATE", "mysql", "Creating schema if not exists")

	queries := []string{
		`CREATE TABLE IF NOT EXISTS tables (
			id VARCHAR(64) PRIMARY KEY,
			table_number INT NOT NULL UNIQUE,
			capacity INT NOT NULL,
			is_occupied BOOLEAN NOT NULL DEFAULT FALSE,
			status VARCHAR(20) NOT NULL DEFAULT 'available',
			current_order_id VARCHAR(64) NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_table_number (table_number)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS orders (
			id VARCHAR(64) PRIMARY KEY,
			table_id VARCHAR(64) NOT NULL,
			items JSON NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			waiter_id VARCHAR(64) NOT NULL,
			total_amount DECIMAL(10,2) NOT NULL DEFAULT 0,
			payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
			payment_method VARCHAR(20) NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_orders_table (table_id),
			INDEX idx_orders_waiter (waiter_id),
			INDEX idx_orders_status (status)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id VARCHAR(64) PRIMARY KEY,
			customer_name VARCHAR(255) NOT NULL,
			customer_phone VARCHAR(64) NOT NULL,
			customer_email VARCHAR(255) NULL,
			date TIMESTAMP NOT NULL,
			time VARCHAR(16) NOT NULL,
			party_size INT NOT NULL,
			table_id VARCHAR(64) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
			special_requests TEXT,
			created_by VARCHAR(64) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_reservations_slot (table_id, date, time),
			INDEX idx_reservations_status (status)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS groceries (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			category VARCHAR(128) NOT NULL,
			quantity DECIMAL(10,2) NOT NULL DEFAULT 0,
			unit VARCHAR(32) NOT NULL DEFAULT 'kg',
			min_quantity DECIMAL(10,2) NOT NULL DEFAULT 5,
			updated_by VARCHAR(64) NOT NULL,
			last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_groceries_category (category)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	s.log.LogDatabase("SUCCESS", "mysql", "Schema ready")
	return nil
}

func (s *MySQLStore) SaveTable(table *models.Table) error {
	s.log.LogDatabase("INSERT", "tables", fmt.Sprintf("Saving table %s", table.ID))
	if _, err := s.db.NewInsert().Model(table).Exec(context.Background()); err != nil {
		return fmt.Errorf("failed to save table: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetTable(id string) (*models.Table, error) {
	table := new(models.Table)
	err := s.db.NewSelect().Model(table).Where("id = ?", id).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return table, nil
}

func (s *MySQLStore) GetTableByNumber(number int) (*models.Table, error) {
	table := new(models.Table)
	err := s.db.NewSelect().Model(table).Where("table_number = ?", number).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get table by number: %w", err)
	}
	return table, nil
}

func (s *MySQLStore) ListTables() ([]*models.Table, error) {
	var tables []*models.Table
	err := s.db.NewSelect().Model(&tables).Order("table_number ASC").Scan(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (s *MySQLStore) UpdateTable(table *models.Table) error {
	s.log.LogDatabase("UPDATE", "tables", fmt.Sprintf("Updating table %s", table.ID))
	res, err := s.db.NewUpdate().Model(table).WherePK().Exec(context.Background())
	if err != nil {
		return fmt.Errorf("failed to update table: %w", err)
	}
	return checkAffected(res)
}

func (s *MySQLStore) DeleteTable(id string) error {
	s.log.LogDatabase("DELETE", "tables", fmt.Sprintf("Deleting table %s", id))
	res, err := s.db.NewDelete().Model((*models.Table)(nil)).Where("id = ?", id).Exec(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete table: %w", err)
	}
	return checkAffected(res)
}

func (s *MySQLStore) SaveOrder(order *models.Order) error {
	s.log.LogDatabase("INSERT", "orders", fmt.Sprintf("Saving order %s", order.ID))
	if _, err := s.db.NewInsert().Model(order).Exec(context.Background()); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetOrder(id string) (*models.Order, error) {
	order := new(models.Order)
	err := s.db.NewSelect().Model(order).Where("id = ?", id).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *MySQLStore) ListOrders(filter OrderFilter) ([]*models.Order, error) {
	var orders []*models.Order
	q := s.db.NewSelect().Model(&orders)
	if filter.WaiterID != "" {
		q = q.Where("waiter_id = ?", filter.WaiterID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Order("created_at DESC").Scan(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *MySQLStore) UpdateOrder(order *models.Order) error {
	s.log.LogDatabase("UPDATE", "orders", fmt.Sprintf("Updating order %s", order.ID))
	res, err := s.db.NewUpdate().Model(order).WherePK().Exec(context.Background())
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return checkAffected(res)
}

func (s *MySQLStore) DeleteOrder(id string) error {
	s.log.LogDatabase("DELETE", "orders", fmt.Sprintf("Deleting order %s", id))
	res, err := s.db.NewDelete().Model((*models.Order)(nil)).Where("id = ?", id).Exec(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return checkAffected(res)
}

func (s *MySQLStore) SaveReservation(reservation *models.Reservation) error {
	s.log.LogDatabase("INSERT", "reservations", fmt.Sprintf("Saving reservation %s", reservation.ID))
	if _, err := s.db.NewInsert().Model(reservation).Exec(context.Background()); err != nil {
		return fmt.Errorf("failed to save reservation: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetReservation(id string) (*models.Reservation, error) {
	reservation := new(models.Reservation)
	err := s.db.NewSelect().Model(reservation).Where("id = ?", id).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return reservation, nil
}

func (s *MySQLStore) ListReservations(filter ReservationFilter) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	q := s.db.NewSelect().Model(&reservations)
	if filter.TableID != "" {
		q = q.Where("table_id = ?", filter.TableID)
	}
	if !filter.DayStart.IsZero() {
		q = q.Where("date >= ?", filter.DayStart)
	}
	if !filter.DayEnd.IsZero() {
		q = q.Where("date < ?", filter.DayEnd)
	}
	if filter.Time != "" {
		q = q.Where("time = ?", filter.Time)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ExcludeID != "" {
		q = q.Where("id != ?", filter.ExcludeID)
	}
	if err := q.Order("date ASC", "time ASC").Scan(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

func (s *MySQLStore) UpdateReservation(reservation *models.Reservation) error {
	s.log.LogDatabase("UPDATE", "reservations", fmt.Sprintf("Updating reservation %s", reservation.ID))
	res, err := s.db.NewUpdate().Model(reservation).WherePK().Exec(context.Background())
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	return checkAffected(res)
}

func (s *MySQLStore) DeleteReservation(id string) error {
	s.log.LogDatabase("DELETE", "reservations", fmt.Sprintf("Deleting reservation %s", id))
	res, err := s.db.NewDelete().Model((*models.Reservation)(nil)).Where("id = ?", id).Exec(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	return checkAffected(res)
}

func (s *MySQLStore) SaveGrocery(grocery *models.Grocery) error {
	s.log.LogDatabase("INSERT", "groceries", fmt.Sprintf("Saving grocery %s", grocery.ID))
	if _, err := s.db.NewInsert().Model(grocery).Exec(context.Background()); err != nil {
		return fmt.Errorf("failed to save grocery: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetGrocery(id string) (*models.Grocery, error) {
	grocery := new(models.Grocery)
	err := s.db.NewSelect().Model(grocery).Where("id = ?", id).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get grocery: %w", err)
	}
	return grocery, nil
}

func (s *MySQLStore) GetGroceryByName(name string) (*models.Grocery, error) {
	grocery := new(models.Grocery)
	err := s.db.NewSelect().Model(grocery).Where("name = ?", name).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get grocery by name: %w", err)
	}
	return grocery, nil
}

func (s *MySQLStore) ListGroceries() ([]*models.Grocery, error) {
	var groceries []*models.Grocery
	err := s.db.NewSelect().Model(&groceries).Order("category ASC", "name ASC").Scan(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to list groceries: %w", err)
	}
	return groceries, nil
}

func (s *MySQLStore) UpdateGrocery(grocery *models.Grocery) error {
	s.log.LogDatabase("UPDATE", "groceries", fmt.Sprintf("Updating grocery %s", grocery.ID))
	res, err := s.db.NewUpdate().Model(grocery).WherePK().Exec(context.Background())
	if err != nil {
		return fmt.Errorf("failed to update grocery: %w", err)
	}
	return checkAffected(res)
}

func (s *MySQLStore) DeleteGrocery(id string) error {
	s.log.LogDatabase("DELETE", "groceries", fmt.Sprintf("Deleting grocery %s", id))
	res, err := s.db.NewDelete().Model((*models.Grocery)(nil)).Where("id = ?", id).Exec(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete grocery: %w", err)
	}
	return checkAffected(res)
}

func (s *MySQLStore) SaveUser(user *models.User) error {
	s.log.LogDatabase("INSERT", "users", fmt.Sprintf("Saving user %s", user.ID))
	if _, err := s.db.NewInsert().Model(user).Exec(context.Background()); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetUser(id string) (*models.User, error) {
	user := new(models.User)
	err := s.db.NewSelect().Model(user).Where("id = ?", id).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *MySQLStore) HealthCheck() error {
	return s.db.Ping()
}

func (s *MySQLStore) Close() error {
	s.log.LogDatabase("CLOSE", "mysql", "Closing MySQL connection")
	return s.db.Close()
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return nil
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
