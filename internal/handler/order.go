// This file implements checkout and order visibility. Checkout is the one
// multi-step, all-or-nothing workflow in the system: resolve or create the
// customer account by email, insert every order row of the batch, commit,
// then notify the operator. The commit point of the database transaction,
// not the HTTP request, defines whether the order exists; the notification
// is fired after commit and can never fail or delay the order.
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hamdiks/cardstore/internal/config"
	"github.com/hamdiks/cardstore/internal/model"
	"github.com/hamdiks/cardstore/internal/notify"
	"github.com/hamdiks/cardstore/internal/queue"
	"github.com/hamdiks/cardstore/internal/repository"
	queue_publisher "github.com/hamdiks/cardstore/internal/service"
	"github.com/hamdiks/cardstore/internal/utils"
)

// OrderHandler bundles everything checkout touches.
type OrderHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Products *repository.ProductRepo
	Options  *repository.OptionRepo
	Orders   *repository.OrderRepo
	Mailer   *notify.Mailer
}

func NewOrderHandler(cfg config.Config, u *repository.UserRepo, p *repository.ProductRepo,
	o *repository.OptionRepo, ord *repository.OrderRepo, m *notify.Mailer) *OrderHandler {
	return &OrderHandler{Cfg: cfg, Users: u, Products: p, Options: o, Orders: ord, Mailer: m}
}

// ----- DTOs -----

type orderItemReq struct {
	ProductID uint64 `json:"product_id"`
	OptionID  uint64 `json:"option_id"`
	Quantity  uint32 `json:"quantity"`
}

type placeOrderReq struct {
	Items    []orderItemReq `json:"items"`
	Payment  string         `json:"payment_method"`
	Email    string         `json:"email"`
	Phone    string         `json:"phone"`
	TxNumber string         `json:"transaction_number"`
}

type orderResp struct {
	ID          uint64    `json:"id"`
	BatchID     string    `json:"batch_id"`
	ProductID   uint64    `json:"product_id"`
	ProductName string    `json:"product_name"`
	OptionID    uint64    `json:"option_id,omitempty"`
	OptionLabel string    `json:"option_label,omitempty"`
	Quantity    uint32    `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Payment     string    `json:"payment_method"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	TxNumber    string    `json:"transaction_number"`
	OrderTime   time.Time `json:"order_time"`
}

func toOrderResp(o *model.Order) orderResp {
	return orderResp{
		ID:          o.ID,
		BatchID:     o.BatchID,
		ProductID:   o.ProductID,
		ProductName: o.ProductName,
		OptionID:    o.OptionID,
		OptionLabel: o.OptionLabel,
		Quantity:    o.Quantity,
		UnitPrice:   o.UnitPrice,
		Payment:     o.Payment,
		Email:       o.Email,
		Phone:       o.Phone,
		TxNumber:    o.TxNumber,
		OrderTime:   o.OrderTime,
	}
}

// PlaceOrder handles POST /api/orders. Validation happens entirely before
// the transaction opens; once it opens, user resolution and all order rows
// commit or roll back together, so no failed checkout ever leaves an
// account or a partial batch behind.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	var req placeOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.TxNumber = strings.TrimSpace(req.TxNumber)

	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items is required"})
	}
	if !model.ValidPaymentMethod(req.Payment) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment method"})
	}
	if req.Email == "" || req.Phone == "" || req.TxNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, phone and transaction_number are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// Resolve the catalog snapshot for every line before opening the
	// transaction; a bad product or option id fails the whole request
	// while nothing has been written yet.
	rows := make([]*model.Order, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id is required for each item"})
		}
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		p, err := h.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			if err == repository.ErrProductNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		row := &model.Order{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    qty,
			Payment:     req.Payment,
			Email:       req.Email,
			Phone:       req.Phone,
			TxNumber:    req.TxNumber,
		}
		if it.OptionID != 0 {
			o, err := h.Options.GetByID(ctx, it.OptionID)
			if err != nil {
				if err == repository.ErrOptionNotFound {
					return c.JSON(http.StatusNotFound, echo.Map{"error": "product option not found"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
			}
			if o.ProductID != p.ID {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "option does not belong to product"})
			}
			row.OptionID = o.ID
			row.OptionLabel = o.Label
			row.UnitPrice = o.Price
		}
		rows = append(rows, row)
	}

	batchID, err := utils.RandomHex(8)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order failed"})
	}
	for _, r := range rows {
		r.BatchID = batchID
	}

	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	u, created, err := h.Users.FindOrCreateTx(ctx, tx, req.Email, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order failed"})
	}
	for _, r := range rows {
		r.UserID = u.ID
	}
	if err := h.Orders.CreateBatchTx(ctx, tx, rows); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order failed"})
	}
	committed = true

	// Post-commit notification: fire-and-forget, never retried, never
	// reflected in the response.
	event := buildOrderEvent(rows, u.ID, created)
	mailer := h.Mailer
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = queue_publisher.PublishOrderPlaced(ctx, event)
		if mailer != nil {
			_ = mailer.SendOrderPlaced(event)
		}
	}()

	out := make([]orderResp, 0, len(rows))
	for _, r := range rows {
		out = append(out, toOrderResp(r))
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"batch_id":     batchID,
		"user_created": created,
		"orders":       out,
	})
}

func buildOrderEvent(rows []*model.Order, userID uint64, created bool) queue.OrderPlacedEvent {
	ev := queue.OrderPlacedEvent{
		BatchID:     rows[0].BatchID,
		UserID:      userID,
		UserCreated: created,
		Email:       rows[0].Email,
		Phone:       rows[0].Phone,
		Payment:     rows[0].Payment,
		TxNumber:    rows[0].TxNumber,
		PlacedAt:    rows[0].OrderTime.UTC().Format(time.RFC3339),
	}
	for _, r := range rows {
		ev.Total += r.UnitPrice * float64(r.Quantity)
		ev.Lines = append(ev.Lines, queue.OrderEventLine{
			OrderID:     r.ID,
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			OptionLabel: r.OptionLabel,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
		})
	}
	return ev
}

// ListAll handles GET /api/orders/all for the back office, newest first.
func (h *OrderHandler) ListAll(c echo.Context) error {
	orders, err := h.Orders.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResp(o))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListUserOrders handles GET /api/orders/user/:email. A caller may read
// their own orders; reading anyone else's requires the admin claim.
func (h *OrderHandler) ListUserOrders(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}
	callerEmail, _ := c.Get("email").(string)
	isAdmin, _ := c.Get("is_admin").(bool)
	if !isAdmin && !strings.EqualFold(callerEmail, email) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	orders, err := h.Orders.ListByEmail(c.Request().Context(), email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResp(o))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
