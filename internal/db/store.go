package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"cocktailbar/models"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("db: record not found")

// RecentOrdersLimit caps the dashboard order list.
const RecentOrdersLimit = 100

// Result reports the outcome of a write statement.
type Result struct {
	InsertedID   int64
	RowsAffected int64
}

// Store is the persistence layer shared by the request handlers.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an opened gorm handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping verifies the database connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return gorm.ErrInvalidDB
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// QueryMany runs a read statement and scans every row into dest, which must
// be a pointer to a slice.
func (s *Store) QueryMany(ctx context.Context, dest any, query string, args ...any) error {
	if s == nil || s.db == nil {
		return gorm.ErrInvalidDB
	}
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

// QueryOne runs a read statement and scans the first row into dest. It
// returns false when no row matched.
func (s *Store) QueryOne(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	if s == nil || s.db == nil {
		return false, gorm.ErrInvalidDB
	}
	tx := s.db.WithContext(ctx).Raw(query, args...).Scan(dest)
	if tx.Error != nil {
		return false, fmt.Errorf("query: %w", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

// Exec runs a write statement. On sqlite an INSERT also reports the new
// row id, read on the same connection. Postgres has no last-insert id, so
// InsertedID stays 0 there; use an INSERT ... RETURNING with QueryOne.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	if s == nil || s.db == nil {
		return Result{}, gorm.ErrInvalidDB
	}
	if s.db.Dialector == nil || s.db.Dialector.Name() != "sqlite" || !isInsert(query) {
		tx := s.db.WithContext(ctx).Exec(query, args...)
		if tx.Error != nil {
			return Result{}, fmt.Errorf("exec: %w", tx.Error)
		}
		return Result{RowsAffected: tx.RowsAffected}, nil
	}

	var result Result
	err := s.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		exec := tx.Exec(query, args...)
		if exec.Error != nil {
			return exec.Error
		}
		result.RowsAffected = exec.RowsAffected
		if exec.RowsAffected == 0 {
			return nil
		}
		return tx.Statement.ConnPool.QueryRowContext(ctx, "SELECT last_insert_rowid()").Scan(&result.InsertedID)
	})
	if err != nil {
		return Result{}, fmt.Errorf("exec: %w", err)
	}
	return result, nil
}

func isInsert(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "INSERT")
}

// MenuCocktails lists cocktails alphabetically for the public menu.
func (s *Store) MenuCocktails(ctx context.Context) ([]models.Cocktail, error) {
	cocktails := []models.Cocktail{}
	if err := s.QueryMany(ctx, &cocktails, "SELECT * FROM cocktails ORDER BY name ASC, id ASC"); err != nil {
		return nil, err
	}
	return cocktails, nil
}

// LatestCocktails lists cocktails newest first for the dashboard.
func (s *Store) LatestCocktails(ctx context.Context) ([]models.Cocktail, error) {
	cocktails := []models.Cocktail{}
	if err := s.QueryMany(ctx, &cocktails, "SELECT * FROM cocktails ORDER BY id DESC"); err != nil {
		return nil, err
	}
	return cocktails, nil
}

// FindCocktail loads one cocktail or returns ErrNotFound.
func (s *Store) FindCocktail(ctx context.Context, id uint) (*models.Cocktail, error) {
	var cocktail models.Cocktail
	found, err := s.QueryOne(ctx, &cocktail, "SELECT * FROM cocktails WHERE id = ? LIMIT 1", id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &cocktail, nil
}

// FindCocktailByName matches a cocktail by exact name.
func (s *Store) FindCocktailByName(ctx context.Context, name string) (*models.Cocktail, error) {
	var cocktail models.Cocktail
	found, err := s.QueryOne(ctx, &cocktail, "SELECT * FROM cocktails WHERE name = ? ORDER BY id ASC LIMIT 1", name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &cocktail, nil
}

// CreateCocktail inserts the cocktail and fills in its ID.
func (s *Store) CreateCocktail(ctx context.Context, cocktail *models.Cocktail) (Result, error) {
	if s == nil || s.db == nil {
		return Result{}, gorm.ErrInvalidDB
	}
	tx := s.db.WithContext(ctx).Create(cocktail)
	if tx.Error != nil {
		return Result{}, fmt.Errorf("create cocktail: %w", tx.Error)
	}
	return Result{InsertedID: int64(cocktail.ID), RowsAffected: tx.RowsAffected}, nil
}

// UpdateCocktail overwrites the editable columns of an existing cocktail.
func (s *Store) UpdateCocktail(ctx context.Context, cocktail *models.Cocktail) (Result, error) {
	if s == nil || s.db == nil {
		return Result{}, gorm.ErrInvalidDB
	}
	if cocktail.ID == 0 {
		return Result{}, ErrNotFound
	}
	updates := map[string]any{
		"name":         cocktail.Name,
		"ingredients":  cocktail.Ingredients,
		"instructions": cocktail.Instructions,
		"image_path":   cocktail.ImagePath,
		"strength":     cocktail.Strength,
		"glass_type":   cocktail.GlassType,
		"garnish":      cocktail.Garnish,
		"tags":         cocktail.Tags,
	}
	tx := s.db.WithContext(ctx).Model(&models.Cocktail{ID: cocktail.ID}).Updates(updates)
	if tx.Error != nil {
		return Result{}, fmt.Errorf("update cocktail %d: %w", cocktail.ID, tx.Error)
	}
	return Result{RowsAffected: tx.RowsAffected}, nil
}

// DeleteCocktail removes the cocktail together with every order that
// references it.
func (s *Store) DeleteCocktail(ctx context.Context, id uint) (Result, error) {
	if s == nil || s.db == nil {
		return Result{}, gorm.ErrInvalidDB
	}
	var result Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM orders WHERE cocktail_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete orders of cocktail %d: %w", id, err)
		}
		deleted := tx.Exec("DELETE FROM cocktails WHERE id = ?", id)
		if deleted.Error != nil {
			return fmt.Errorf("delete cocktail %d: %w", id, deleted.Error)
		}
		result.RowsAffected = deleted.RowsAffected
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

// CreateOrder inserts the order and fills in its ID.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) (Result, error) {
	if s == nil || s.db == nil {
		return Result{}, gorm.ErrInvalidDB
	}
	tx := s.db.WithContext(ctx).Omit("Cocktail").Create(order)
	if tx.Error != nil {
		return Result{}, fmt.Errorf("create order: %w", tx.Error)
	}
	return Result{InsertedID: int64(order.ID), RowsAffected: tx.RowsAffected}, nil
}

// FindOrder loads one order or returns ErrNotFound.
func (s *Store) FindOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	found, err := s.QueryOne(ctx, &order, "SELECT * FROM orders WHERE id = ? LIMIT 1", id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &order, nil
}

// RecentOrders lists up to limit orders, newest first.
func (s *Store) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = RecentOrdersLimit
	}
	orders := []models.Order{}
	if err := s.QueryMany(ctx, &orders, "SELECT * FROM orders ORDER BY id DESC LIMIT ?", limit); err != nil {
		return nil, err
	}
	return orders, nil
}

// DeleteOrder removes a single order.
func (s *Store) DeleteOrder(ctx context.Context, id uint) (Result, error) {
	return s.Exec(ctx, "DELETE FROM orders WHERE id = ?", id)
}

// CountOrders reports how many orders reference the cocktail.
func (s *Store) CountOrders(ctx context.Context, cocktailID uint) (int64, error) {
	var count int64
	if _, err := s.QueryOne(ctx, &count, "SELECT COUNT(*) FROM orders WHERE cocktail_id = ?", cocktailID); err != nil {
		return 0, err
	}
	return count, nil
}

// CountImageReferences reports how many cocktails other than exceptID point
// at imagePath.
func (s *Store) CountImageReferences(ctx context.Context, imagePath string, exceptID uint) (int64, error) {
	var count int64
	if _, err := s.QueryOne(ctx, &count, "SELECT COUNT(*) FROM cocktails WHERE image_path = ? AND id <> ?", imagePath, exceptID); err != nil {
		return 0, err
	}
	return count, nil
}
