package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockfolio/backend/internal/model"
)

type StockRepository struct {
	db *pgxpool.Pool
}

func NewStockRepository(db *pgxpool.Pool) *StockRepository {
	return &StockRepository{db: db}
}

const stockColumns = `id, name, description, price_per_unit, available_quantity,
	category, invested_amount, investor_count, owner_id, created_at, updated_at`

func (r *StockRepository) scanStock(row pgx.Row) (*model.Stock, error) {
	var s model.Stock
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.PricePerUnit, &s.AvailableQuantity,
		&s.Category, &s.InvestedAmount, &s.InvestorCount, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan stock: %w", err)
	}
	return &s, nil
}

func (r *StockRepository) Create(ctx context.Context, s *model.Stock) error {
	_, err := executor(ctx, r.db).Exec(ctx, `
		INSERT INTO stocks (id, name, description, price_per_unit, available_quantity, category, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.Description, s.PricePerUnit, s.AvailableQuantity, s.Category, s.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to create stock: %w", err)
	}
	return nil
}

func (r *StockRepository) GetByID(ctx context.Context, id string) (*model.Stock, error) {
	row := executor(ctx, r.db).QueryRow(ctx,
		"SELECT "+stockColumns+" FROM stocks WHERE id = $1", id)
	return r.scanStock(row)
}

// GetForUpdate locks the stock row and returns its price and quantity.
func (r *StockRepository) GetForUpdate(ctx context.Context, id string) (float64, int, error) {
	var price float64
	var quantity int
	err := executor(ctx, r.db).QueryRow(ctx,
		"SELECT price_per_unit, available_quantity FROM stocks WHERE id = $1 FOR UPDATE", id).
		Scan(&price, &quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrNotFound
		}
		return 0, 0, fmt.Errorf("failed to get stock: %w", err)
	}
	return price, quantity, nil
}

// UpdatePrice overwrites the unit price and returns the previous one.
func (r *StockRepository) UpdatePrice(ctx context.Context, id string, newPrice float64) (float64, error) {
	var oldPrice float64
	err := executor(ctx, r.db).QueryRow(ctx, `
		UPDATE stocks s SET price_per_unit = $1, updated_at = now()
		FROM (SELECT price_per_unit FROM stocks WHERE id = $2 FOR UPDATE) old
		WHERE s.id = $2
		RETURNING old.price_per_unit`, newPrice, id).Scan(&oldPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to update stock price: %w", err)
	}
	return oldPrice, nil
}

// ApplyPurchase removes sold units and accrues the invested aggregates.
func (r *StockRepository) ApplyPurchase(ctx context.Context, id string, quantity int, cost float64) error {
	_, err := executor(ctx, r.db).Exec(ctx, `
		UPDATE stocks
		SET available_quantity = available_quantity - $1,
		    invested_amount = invested_amount + $2,
		    investor_count = investor_count + 1,
		    updated_at = now()
		WHERE id = $3`, quantity, cost, id)
	if err != nil {
		return fmt.Errorf("failed to apply purchase to stock: %w", err)
	}
	return nil
}

func (r *StockRepository) List(ctx context.Context) ([]model.StockSummary, error) {
	rows, err := executor(ctx, r.db).Query(ctx, `
		SELECT id, name, price_per_unit, available_quantity, description, invested_amount, investor_count
		FROM stocks ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	defer rows.Close()

	var stocks []model.StockSummary
	for rows.Next() {
		var s model.StockSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.PricePerUnit, &s.AvailableQuantity,
			&s.Description, &s.InvestedAmount, &s.InvestorCount); err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

// Search matches stock names case-insensitively by substring, capped at limit.
func (r *StockRepository) Search(ctx context.Context, query string, limit int) ([]model.Stock, error) {
	rows, err := executor(ctx, r.db).Query(ctx,
		"SELECT "+stockColumns+" FROM stocks WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT $2",
		query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search stocks: %w", err)
	}
	defer rows.Close()

	var stocks []model.Stock
	for rows.Next() {
		s, err := r.scanStock(rows)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, *s)
	}
	return stocks, rows.Err()
}
