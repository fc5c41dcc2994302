// Package sqlite persists shopping list snapshots and comparison settings in SQLite.
//
// Store is safe for concurrent use; a single connection serializes access. SaveList
// replaces a list and its products inside one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cartwise/backend/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// Store is a SQLite-backed list and settings repository
type Store struct {
	db *sql.DB
}

// NewStore opens (and creates if needed) the database at path and applies migrations
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS lists (
		user_id TEXT NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, id)
	);

	CREATE TABLE IF NOT EXISTS products (
		user_id TEXT NOT NULL,
		list_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		product_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		quantity REAL NOT NULL DEFAULT 0,
		units TEXT NOT NULL DEFAULT '',
		list_name TEXT NOT NULL DEFAULT '',
		is_purchased INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		selected_store TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (user_id, list_id, position),
		FOREIGN KEY (user_id, list_id) REFERENCES lists(user_id, id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_lists_user_created ON lists(user_id, created_at);

	CREATE TABLE IF NOT EXISTS settings (
		user_id TEXT PRIMARY KEY,
		compare_option TEXT NOT NULL,
		custom_days INTEGER,
		include_completed INTEGER NOT NULL DEFAULT 0,
		similarity_threshold REAL NOT NULL,
		check_different_stores INTEGER NOT NULL DEFAULT 1,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveList stores or replaces a list snapshot for the user
func (s *Store) SaveList(ctx context.Context, userID string, list domain.ListSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM products WHERE user_id = ? AND list_id = ?`, userID, list.ID)
	if err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO lists (user_id, id, name, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, id) DO UPDATE SET name = excluded.name, created_at = excluded.created_at`,
		userID, list.ID, list.Name, list.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save list: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (user_id, list_id, position, product_id, name, quantity, units,
			list_name, is_purchased, created_at, selected_store)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare product insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range list.Products {
		_, err := stmt.ExecContext(ctx, userID, list.ID, i, p.ProductID, p.Name, p.Quantity, p.Units,
			p.ListName, boolToInt(p.IsPurchased), p.CreatedAt.UnixNano(), p.SelectedStore)
		if err != nil {
			return fmt.Errorf("failed to save product %q: %w", p.Name, err)
		}
	}

	return tx.Commit()
}

// GetLists returns every list snapshot of the user, oldest first
func (s *Store) GetLists(ctx context.Context, userID string) ([]domain.ListSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM lists
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}

	var lists []domain.ListSnapshot
	index := make(map[string]int)
	for rows.Next() {
		var l domain.ListSnapshot
		var createdAt int64
		if err := rows.Scan(&l.ID, &l.Name, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		l.CreatedAt = fromUnixNano(createdAt)
		index[l.ID] = len(lists)
		lists = append(lists, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return nil, domain.ErrUserNotFound
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT list_id, product_id, name, quantity, units, list_name, is_purchased, created_at, selected_store
		FROM products
		WHERE user_id = ?
		ORDER BY list_id, position`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.ProductRecord
		var purchased int
		var createdAt int64
		if err := rows.Scan(&p.ListID, &p.ProductID, &p.Name, &p.Quantity, &p.Units,
			&p.ListName, &purchased, &createdAt, &p.SelectedStore); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.IsPurchased = purchased != 0
		p.CreatedAt = fromUnixNano(createdAt)
		if i, ok := index[p.ListID]; ok {
			lists[i].Products = append(lists[i].Products, p)
		}
	}

	return lists, rows.Err()
}

// DeleteList removes one list of the user together with its products
func (s *Store) DeleteList(ctx context.Context, userID, listID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE user_id = ? AND id = ?`, userID, listID)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

// GetSettings returns the user's saved comparison settings
func (s *Store) GetSettings(ctx context.Context, userID string) (domain.ComparisonSettings, error) {
	var (
		settings         domain.ComparisonSettings
		option           string
		customDays       sql.NullInt64
		includeCompleted int
		checkStores      int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT compare_option, custom_days, include_completed, similarity_threshold, check_different_stores
		FROM settings WHERE user_id = ?`, userID).
		Scan(&option, &customDays, &includeCompleted, &settings.SimilarityThreshold, &checkStores)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ComparisonSettings{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.ComparisonSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	settings.Option = domain.CompareOption(option)
	if customDays.Valid {
		settings.CustomDays = domain.Days(int(customDays.Int64))
	}
	settings.IncludeCompleted = includeCompleted != 0
	settings.CheckDifferentStores = checkStores != 0
	return settings, nil
}

// SaveSettings stores the user's comparison settings
func (s *Store) SaveSettings(ctx context.Context, userID string, settings domain.ComparisonSettings) error {
	var customDays sql.NullInt64
	if settings.CustomDays != nil {
		customDays = sql.NullInt64{Int64: int64(*settings.CustomDays), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (user_id, compare_option, custom_days, include_completed, similarity_threshold,
			check_different_stores, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			compare_option = excluded.compare_option,
			custom_days = excluded.custom_days,
			include_completed = excluded.include_completed,
			similarity_threshold = excluded.similarity_threshold,
			check_different_stores = excluded.check_different_stores,
			updated_at = excluded.updated_at`,
		userID, string(settings.Option), customDays, boolToInt(settings.IncludeCompleted),
		settings.SimilarityThreshold, boolToInt(settings.CheckDifferentStores), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
