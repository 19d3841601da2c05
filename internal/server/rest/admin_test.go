package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminEndpoints_RequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	user := token(t, "u1", false)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin/users"},
		{http.MethodGet, "/api/admin/dashboard-stats"},
		{http.MethodGet, "/api/admin/sell-requests"},
		{http.MethodPut, "/api/admin/sell-requests/r1"},
	} {
		w := env.do(t, tc.method, tc.path, nil, user)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)
	env.users.list = func(_ context.Context) ([]*models.User, error) {
		return []*models.User{{ID: "u1", Name: "Asha", PasswordHash: "secret-hash"}}, nil
	}

	w := env.do(t, http.MethodGet, "/api/admin/users", nil, token(t, "a1", true))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-hash")
	assert.Equal(t, "Asha", decode[[]map[string]any](t, w)[0]["name"])
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	env.stats.out = &models.DashboardStats{TotalCars: 3, PendingRequests: 1, TotalUsers: 7, TotalBookings: 2}

	w := env.do(t, http.MethodGet, "/api/admin/dashboard-stats", nil, token(t, "a1", true))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalCars":3,"pendingRequests":1,"totalUsers":7,"totalBookings":2}`, w.Body.String())

	env.stats.out, env.stats.err = nil, errors.New("db down")
	w = env.do(t, http.MethodGet, "/api/admin/dashboard-stats", nil, token(t, "a1", true))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", message(t, w))
}

func TestCreateSellRequest_AnyUser(t *testing.T) {
	env := newTestEnv(t)
	env.sell.create = func(userID string, d models.SellCarDetails) (*models.SellRequest, error) {
		return &models.SellRequest{ID: "r1", UserID: userID, CarDetails: d, Status: models.SellRequestPending}, nil
	}

	body := map[string]any{"carDetails": map[string]any{
		"name": "Swift", "brand": "Maruti", "price": 450000, "year": 2019, "fuelType": "Petrol", "mileage": 42000,
	}}
	w := env.do(t, http.MethodPost, "/api/admin/sell-requests", body, token(t, "u1", false))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	got := decode[models.SellRequest](t, w)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, models.SellRequestPending, got.Status)
	assert.Equal(t, int64(450000), got.CarDetails.Price)

	w = env.do(t, http.MethodPost, "/api/admin/sell-requests", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListSellRequests(t *testing.T) {
	env := newTestEnv(t)
	env.sell.list = func() ([]*models.SellRequest, error) {
		return []*models.SellRequest{{ID: "r1", UserName: "Asha", UserEmail: "asha@example.com"}}, nil
	}
	env.sell.listMine = func(userID string) ([]*models.SellRequest, error) {
		assert.Equal(t, "u1", userID)
		return nil, nil
	}

	w := env.do(t, http.MethodGet, "/api/admin/sell-requests", nil, token(t, "a1", true))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "asha@example.com", decode[[]map[string]any](t, w)[0]["userEmail"])

	w = env.do(t, http.MethodGet, "/api/admin/sell-requests/mine", nil, token(t, "u1", false))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestUpdateSellRequest(t *testing.T) {
	env := newTestEnv(t)
	env.sell.updateStatus = func(id string, s models.SellRequestStatus) (*models.SellRequest, error) {
		if id == "decided" {
			return nil, fmt.Errorf("%w: Approved to %s", common.ErrInvalidStatusTransition, s)
		}
		return &models.SellRequest{ID: id, Status: s}, nil
	}
	admin := token(t, "a1", true)

	w := env.do(t, http.MethodPut, "/api/admin/sell-requests/r1", map[string]string{"status": "Approved"}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Approved", decode[map[string]any](t, w)["status"])

	w = env.do(t, http.MethodPut, "/api/admin/sell-requests/decided", map[string]string{"status": "Rejected"}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid status transition: Approved to Rejected", message(t, w))

	w = env.do(t, http.MethodPut, "/api/admin/sell-requests/r1", map[string]string{}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status is required", message(t, w))
}
