package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"stockfolio/backend/internal/repository"
)

// DashboardService exposes the per-user read-only aggregates. Each value is
// computed from live data on every call; nothing is cached.
type DashboardService struct {
	users *repository.UserRepository
}

func NewDashboardService(users *repository.UserRepository) *DashboardService {
	return &DashboardService{users: users}
}

func (s *DashboardService) Invested(ctx context.Context, userID string) (float64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return 0, err
	}
	return user.TotalInvested, nil
}

// CurrentValue prices every holding at the live catalog price, not the price
// paid at purchase time.
func (s *DashboardService) CurrentValue(ctx context.Context, userID string) (float64, error) {
	return s.users.HoldingsValue(ctx, userID)
}

func (s *DashboardService) Returns(ctx context.Context, userID string) (float64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return 0, err
	}
	value, err := s.users.HoldingsValue(ctx, userID)
	if err != nil {
		return 0, err
	}
	return value - user.TotalInvested, nil
}

func (s *DashboardService) WalletBalance(ctx context.Context, userID string) (float64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return 0, err
	}
	return user.WalletMoney, nil
}

type Summary struct {
	Invested      float64 `json:"invested"`
	CurrentValue  float64 `json:"current_value"`
	Returns       float64 `json:"returns"`
	WalletBalance float64 `json:"wallet_balance"`
}

// GetSummary fetches all dashboard values in one call, fanning the reads out
// concurrently.
func (s *DashboardService) GetSummary(ctx context.Context, userID string) (*Summary, error) {
	var summary Summary

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary.Invested, err = s.Invested(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		summary.CurrentValue, err = s.CurrentValue(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		summary.WalletBalance, err = s.WalletBalance(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.Returns = summary.CurrentValue - summary.Invested
	return &summary, nil
}
