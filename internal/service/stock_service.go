package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"stockfolio/backend/internal/model"
	"stockfolio/backend/internal/repository"
)

const searchResultLimit = 5

type StockService struct {
	users  *repository.UserRepository
	stocks *repository.StockRepository
}

func NewStockService(users *repository.UserRepository, stocks *repository.StockRepository) *StockService {
	return &StockService{users: users, stocks: stocks}
}

type CreateStockInput struct {
	Name              string
	Description       string
	PricePerUnit      float64
	AvailableQuantity int
	Category          string
}

func (s *StockService) Create(ctx context.Context, actor *model.User, in CreateStockInput) (*model.Stock, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admin can list a stock", ErrForbidden)
	}
	if in.Name == "" || in.Description == "" || in.Category == "" || in.PricePerUnit <= 0 || in.AvailableQuantity <= 0 {
		return nil, fmt.Errorf("%w: all stock fields are required", ErrBadRequest)
	}

	stock := &model.Stock{
		ID:                uuid.NewString(),
		Name:              in.Name,
		Description:       in.Description,
		PricePerUnit:      in.PricePerUnit,
		AvailableQuantity: in.AvailableQuantity,
		Category:          in.Category,
		OwnerID:           actor.ID,
	}
	if err := s.stocks.Create(ctx, stock); err != nil {
		return nil, err
	}
	return s.stocks.GetByID(ctx, stock.ID)
}

// BuyResult carries the post-settlement snapshots of both records.
type BuyResult struct {
	User  *model.User  `json:"user"`
	Stock *model.Stock `json:"stock"`
}

// Buy settles a buy order atomically. Both rows are locked for the duration
// of the transaction, stock first then user, so concurrent orders serialize
// and either both records change or neither does.
func (s *StockService) Buy(ctx context.Context, buyerID, stockID string, quantity int) (*BuyResult, error) {
	if stockID == "" {
		return nil, fmt.Errorf("%w: stockid is required", ErrBadRequest)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: total_unit must be greater than 0", ErrBadRequest)
	}

	var result BuyResult
	err := s.users.RunAtomic(ctx, func(ctx context.Context) error {
		price, available, err := s.stocks.GetForUpdate(ctx, stockID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: stock not found", ErrNotFound)
			}
			return err
		}

		balance, err := s.users.GetBalanceForUpdate(ctx, buyerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: user not found", ErrNotFound)
			}
			return err
		}

		cost := float64(quantity) * price
		if cost > balance {
			return ErrInsufficientFunds
		}
		if quantity > available {
			return ErrInsufficientStock
		}

		if err := s.users.ApplyPurchase(ctx, buyerID, cost); err != nil {
			return err
		}
		if err := s.users.AddHolding(ctx, buyerID, stockID, quantity, price); err != nil {
			return err
		}
		if err := s.stocks.ApplyPurchase(ctx, stockID, quantity, cost); err != nil {
			return err
		}

		// Snapshots read inside the transaction so they match the commit.
		if result.User, err = s.users.GetByID(ctx, buyerID); err != nil {
			return err
		}
		if result.Stock, err = s.stocks.GetByID(ctx, stockID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdatePrice overwrites a stock's unit price and reports the previous one.
// Restricted to admins; the reference behavior left this unguarded.
func (s *StockService) UpdatePrice(ctx context.Context, actor *model.User, stockID string, newPrice float64) (oldPrice float64, stock *model.Stock, err error) {
	if !actor.IsAdmin() {
		return 0, nil, fmt.Errorf("%w: only admin can update a stock price", ErrForbidden)
	}
	if stockID == "" || newPrice <= 0 {
		return 0, nil, fmt.Errorf("%w: stockid and a positive new_price are required", ErrBadRequest)
	}

	oldPrice, err = s.stocks.UpdatePrice(ctx, stockID, newPrice)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil, fmt.Errorf("%w: stock not found", ErrNotFound)
		}
		return 0, nil, err
	}

	stock, err = s.stocks.GetByID(ctx, stockID)
	if err != nil {
		return 0, nil, err
	}
	return oldPrice, stock, nil
}

func (s *StockService) Detail(ctx context.Context, stockID string) (*model.Stock, error) {
	if stockID == "" {
		return nil, fmt.Errorf("%w: stockid is required", ErrBadRequest)
	}
	stock, err := s.stocks.GetByID(ctx, stockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: stock not found", ErrNotFound)
		}
		return nil, err
	}
	return stock, nil
}

func (s *StockService) List(ctx context.Context) ([]model.StockSummary, error) {
	return s.stocks.List(ctx)
}

func (s *StockService) Search(ctx context.Context, query string) ([]model.Stock, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrBadRequest)
	}
	stocks, err := s.stocks.Search(ctx, query, searchResultLimit)
	if err != nil {
		return nil, err
	}
	if len(stocks) == 0 {
		return nil, fmt.Errorf("%w: no matching data found", ErrNotFound)
	}
	return stocks, nil
}
