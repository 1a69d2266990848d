package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// jsonCtx builds an echo context for a JSON request body.
func jsonCtx(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// Validation runs before any repository access, so a handler with nil
// repositories exercises every rejection path without a database.
func TestPlaceOrderRejectsBadRequests(t *testing.T) {
	h := &OrderHandler{}

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"items": [`},
		{"no items", `{"items": [], "payment_method": "d17", "email": "a@b.tn", "phone": "55123456", "transaction_number": "TX1"}`},
		{"unknown payment method", `{"items": [{"product_id": 1, "quantity": 1}], "payment_method": "paypal", "email": "a@b.tn", "phone": "55123456", "transaction_number": "TX1"}`},
		{"missing email", `{"items": [{"product_id": 1, "quantity": 1}], "payment_method": "d17", "phone": "55123456", "transaction_number": "TX1"}`},
		{"missing phone", `{"items": [{"product_id": 1, "quantity": 1}], "payment_method": "d17", "email": "a@b.tn", "transaction_number": "TX1"}`},
		{"missing transaction number", `{"items": [{"product_id": 1, "quantity": 1}], "payment_method": "d17", "email": "a@b.tn", "phone": "55123456"}`},
		{"whitespace-only phone", `{"items": [{"product_id": 1, "quantity": 1}], "payment_method": "d17", "email": "a@b.tn", "phone": "   ", "transaction_number": "TX1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := jsonCtx(http.MethodPost, "/api/orders", tt.body)
			assert.NoError(t, h.PlaceOrder(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListUserOrdersForbiddenForOtherUsers(t *testing.T) {
	h := &OrderHandler{}

	c, rec := jsonCtx(http.MethodGet, "/api/orders/user/other@shop.tn", "")
	c.SetParamNames("email")
	c.SetParamValues("other@shop.tn")
	c.Set("email", "me@shop.tn")
	c.Set("is_admin", false)

	assert.NoError(t, h.ListUserOrders(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListUserOrdersEmailMatchIsCaseInsensitive(t *testing.T) {
	// The gate must pass before the repo is touched; the nil repo then
	// panics, which proves the 403 branch was skipped. A stubbed DB is
	// not worth the setup for this one property.
	h := &OrderHandler{}

	c, _ := jsonCtx(http.MethodGet, "/api/orders/user/Me@Shop.tn", "")
	c.SetParamNames("email")
	c.SetParamValues("Me@Shop.tn")
	c.Set("email", "me@shop.tn")
	c.Set("is_admin", false)

	assert.Panics(t, func() { _ = h.ListUserOrders(c) })
}

func TestListUserOrdersRejectsEmptyEmail(t *testing.T) {
	h := &OrderHandler{}

	c, rec := jsonCtx(http.MethodGet, "/api/orders/user/", "")
	c.SetParamNames("email")
	c.SetParamValues("  ")
	c.Set("email", "me@shop.tn")
	c.Set("is_admin", true)

	assert.NoError(t, h.ListUserOrders(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
