package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockfolio/backend/internal/model"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// RunAtomic executes fn inside a single transaction shared with the other
// repositories built on the same pool.
func (r *UserRepository) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	return RunAtomic(ctx, r.db, fn)
}

const userColumns = `id, name, username, email, pan, photo, password_hash, role,
	wallet_money, total_invested, COALESCE(refresh_token, ''), created_at, updated_at`

func (r *UserRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Pan, &u.Photo,
		&u.PasswordHash, &u.Role, &u.WalletMoney, &u.TotalInvested,
		&u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	_, err := executor(ctx, r.db).Exec(ctx, `
		INSERT INTO users (id, name, username, email, pan, photo, password_hash, role, wallet_money, total_invested)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Name, u.Username, u.Email, u.Pan, u.Photo, u.PasswordHash, u.Role, u.WalletMoney, u.TotalInvested)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := executor(ctx, r.db).QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	u, err := r.scanUser(row)
	if err != nil {
		return nil, err
	}
	u.Holdings, err = r.Holdings(ctx, id)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := executor(ctx, r.db).QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return r.scanUser(row)
}

// Exists reports whether a user already has any of the given unique fields.
func (r *UserRepository) Exists(ctx context.Context, username, email, pan string) (bool, error) {
	var exists bool
	err := executor(ctx, r.db).QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2 OR pan = $3)",
		username, email, pan).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// SetRefreshToken overwrites the stored refresh token. An empty token clears it.
func (r *UserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	_, err := executor(ctx, r.db).Exec(ctx,
		"UPDATE users SET refresh_token = NULLIF($1, ''), updated_at = now() WHERE id = $2", token, id)
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	return nil
}

func (r *UserRepository) AddToWallet(ctx context.Context, id string, amount float64) error {
	tag, err := executor(ctx, r.db).Exec(ctx,
		"UPDATE users SET wallet_money = wallet_money + $1, updated_at = now() WHERE id = $2", amount, id)
	if err != nil {
		return fmt.Errorf("failed to add to wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetBalanceForUpdate locks the user row and returns its wallet balance.
func (r *UserRepository) GetBalanceForUpdate(ctx context.Context, id string) (float64, error) {
	var balance float64
	err := executor(ctx, r.db).QueryRow(ctx,
		"SELECT wallet_money FROM users WHERE id = $1 FOR UPDATE", id).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to get user balance: %w", err)
	}
	return balance, nil
}

// ApplyPurchase moves cost out of the wallet and into the invested total.
func (r *UserRepository) ApplyPurchase(ctx context.Context, id string, cost float64) error {
	_, err := executor(ctx, r.db).Exec(ctx, `
		UPDATE users SET wallet_money = wallet_money - $1, total_invested = total_invested + $1, updated_at = now()
		WHERE id = $2`, cost, id)
	if err != nil {
		return fmt.Errorf("failed to apply purchase to user: %w", err)
	}
	return nil
}

// AddHolding appends a holding row. Buying the same stock twice appends two rows.
func (r *UserRepository) AddHolding(ctx context.Context, userID, stockID string, quantity int, pricePerUnit float64) error {
	_, err := executor(ctx, r.db).Exec(ctx, `
		INSERT INTO holdings (user_id, stock_id, quantity, price_per_unit)
		VALUES ($1, $2, $3, $4)`, userID, stockID, quantity, pricePerUnit)
	if err != nil {
		return fmt.Errorf("failed to add holding: %w", err)
	}
	return nil
}

func (r *UserRepository) Holdings(ctx context.Context, userID string) ([]model.Holding, error) {
	rows, err := executor(ctx, r.db).Query(ctx, `
		SELECT id, stock_id, quantity, price_per_unit, created_at
		FROM holdings WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []model.Holding
	for rows.Next() {
		var h model.Holding
		if err := rows.Scan(&h.ID, &h.StockID, &h.Quantity, &h.PricePerUnit, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// HoldingsValue computes the current value of all holdings at live catalog prices.
func (r *UserRepository) HoldingsValue(ctx context.Context, userID string) (float64, error) {
	var value float64
	err := executor(ctx, r.db).QueryRow(ctx, `
		SELECT COALESCE(SUM(h.quantity * s.price_per_unit), 0)
		FROM holdings h JOIN stocks s ON s.id = h.stock_id
		WHERE h.user_id = $1`, userID).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to compute holdings value: %w", err)
	}
	return value, nil
}
