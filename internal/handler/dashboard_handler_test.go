package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"stockfolio/backend/internal/model"
	"stockfolio/backend/internal/service"
)

func scalar(t *testing.T, e *testEnv, path, access string) float64 {
	t.Helper()

	w := e.do(t, http.MethodGet, path, access, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var value float64
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &value))
	return value
}

func TestDashboard(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	admin := e.register(t, "admin", model.RoleAdmin)
	user := e.register(t, "investor", model.RoleUser)
	access := e.bearer(t, user)

	stock, err := e.stockSvc.Create(ctx, admin, service.CreateStockInput{
		Name: "Widget", Description: "d", PricePerUnit: 100, AvailableQuantity: 50, Category: "other",
	})
	require.NoError(t, err)

	_, err = e.userSvc.AddMoney(ctx, user.ID, 1000)
	require.NoError(t, err)

	// Fresh account: everything zero except the wallet.
	require.Zero(t, scalar(t, e, "/api/v4/dashboard/invested", access))
	require.Zero(t, scalar(t, e, "/api/v4/dashboard/current_value", access))
	require.Zero(t, scalar(t, e, "/api/v4/dashboard/returns", access))
	require.Equal(t, 1000.0, scalar(t, e, "/api/v4/dashboard/wallet_balance", access))

	_, err = e.stockSvc.Buy(ctx, user.ID, stock.ID, 3)
	require.NoError(t, err)

	require.Equal(t, 300.0, scalar(t, e, "/api/v4/dashboard/invested", access))
	require.Equal(t, 300.0, scalar(t, e, "/api/v4/dashboard/current_value", access))
	require.Zero(t, scalar(t, e, "/api/v4/dashboard/returns", access))
	require.Equal(t, 700.0, scalar(t, e, "/api/v4/dashboard/wallet_balance", access))

	// current_value follows the live price, invested stays at cost basis.
	_, _, err = e.stockSvc.UpdatePrice(ctx, admin, stock.ID, 150)
	require.NoError(t, err)

	require.Equal(t, 300.0, scalar(t, e, "/api/v4/dashboard/invested", access))
	require.Equal(t, 450.0, scalar(t, e, "/api/v4/dashboard/current_value", access))
	require.Equal(t, 150.0, scalar(t, e, "/api/v4/dashboard/returns", access))
}

func TestDashboard_Idempotent(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	admin := e.register(t, "admin", model.RoleAdmin)
	user := e.register(t, "steady", model.RoleUser)
	access := e.bearer(t, user)

	stock, err := e.stockSvc.Create(ctx, admin, service.CreateStockInput{
		Name: "Widget", Description: "d", PricePerUnit: 25, AvailableQuantity: 10, Category: "other",
	})
	require.NoError(t, err)

	_, err = e.userSvc.AddMoney(ctx, user.ID, 500)
	require.NoError(t, err)
	_, err = e.stockSvc.Buy(ctx, user.ID, stock.ID, 4)
	require.NoError(t, err)

	for _, path := range []string{
		"/api/v4/dashboard/invested",
		"/api/v4/dashboard/returns",
		"/api/v4/dashboard/current_value",
		"/api/v4/dashboard/wallet_balance",
	} {
		first := scalar(t, e, path, access)
		second := scalar(t, e, path, access)
		require.Equal(t, first, second, path)
	}
}

func TestDashboardSummary(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	admin := e.register(t, "admin", model.RoleAdmin)
	user := e.register(t, "summarized", model.RoleUser)

	stock, err := e.stockSvc.Create(ctx, admin, service.CreateStockInput{
		Name: "Widget", Description: "d", PricePerUnit: 100, AvailableQuantity: 50, Category: "other",
	})
	require.NoError(t, err)

	_, err = e.userSvc.AddMoney(ctx, user.ID, 1000)
	require.NoError(t, err)
	_, err = e.stockSvc.Buy(ctx, user.ID, stock.ID, 3)
	require.NoError(t, err)

	w := e.do(t, http.MethodGet, "/api/v4/dashboard/summary", e.bearer(t, user), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary service.Summary
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &summary))
	require.Equal(t, service.Summary{
		Invested:      300,
		CurrentValue:  300,
		Returns:       0,
		WalletBalance: 700,
	}, summary)
}
