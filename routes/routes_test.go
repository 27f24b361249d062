package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	"github.com/junaidrashid-git/storefront-api/models/storetest"
	"github.com/junaidrashid-git/storefront-api/services"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (*gin.Engine, string) {
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()
	store := storetest.New()
	settings := storetest.Settings{}
	hub := orderControllers.NewHub(log)
	tokens := auth.NewTokens("secret", time.Hour)
	token, err := tokens.Issue("u1", auth.RoleUser)
	require.NoError(t, err)

	r := gin.New()
	SetupRoutes(r, Deps{
		Tokens:      tokens,
		AdminAPIKey: "key",
		Carts:       services.NewCartService(store, settings),
		Orders:      services.NewOrderService(store, settings, nil, hub),
		Hub:         hub,
	})
	return r, token
}

func serve(r http.Handler, method, path string, header map[string]string) int {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestHealthz(t *testing.T) {
	r, _ := newEngine(t)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/healthz", nil))
}

func TestUserRoutesRequireToken(t *testing.T) {
	r, token := newEngine(t)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/user/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/user/orders", map[string]string{
		"Authorization": "Bearer not-a-token",
	}))

	bearer := map[string]string{"Authorization": "Bearer " + token}
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/user/cart", bearer))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/user/orders", bearer))
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/user/orders/42", bearer))
}

func TestAdminRoutesRequireKey(t *testing.T) {
	r, token := newEngine(t)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin/orders", map[string]string{
		"Authorization": "Bearer " + token,
	}))

	key := map[string]string{"X-API-KEY": "key"}
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin/orders", key))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin/orders/export-excel", key))
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/admin/orders/7", key))
}
