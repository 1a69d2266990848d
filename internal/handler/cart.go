package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hamdiks/cardstore/internal/cart"
	"github.com/hamdiks/cardstore/internal/repository"
)

// CartHandler exposes the guest cart over HTTP so the storefront can keep
// one cart across devices before any login exists. Carts are keyed by a
// client-generated X-Guest-ID header and live in the cart.Store; the same
// state machine rules apply as for a purely client-held cart.
type CartHandler struct {
	Store    cart.Store
	Products *repository.ProductRepo
	Options  *repository.OptionRepo
}

func NewCartHandler(s cart.Store, p *repository.ProductRepo, o *repository.OptionRepo) *CartHandler {
	return &CartHandler{Store: s, Products: p, Options: o}
}

type addCartItemReq struct {
	ProductID uint64 `json:"product_id"`
	OptionID  uint64 `json:"option_id"`
}

type setQuantityReq struct {
	Quantity int `json:"quantity"`
}

type cartResp struct {
	Items      []cart.Item `json:"items"`
	TotalCount uint32      `json:"total_count"`
	TotalPrice float64     `json:"total_price"`
}

func toCartResp(c *cart.Cart) cartResp {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	return cartResp{Items: items, TotalCount: c.TotalCount(), TotalPrice: c.TotalPrice()}
}

// guestID extracts the cart key from the X-Guest-ID header.
func guestID(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get("X-Guest-ID"))
}

// Get returns the current cart with its derived totals.
func (h *CartHandler) Get(c echo.Context) error {
	gid := guestID(c)
	if gid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Guest-ID header is required"})
	}
	ct, err := h.Store.Load(c.Request().Context(), gid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cart unavailable"})
	}
	return c.JSON(http.StatusOK, toCartResp(ct))
}

// AddItem puts one unit of an option into the cart. Adding the same
// product/option pair again grows its line by exactly one unit.
func (h *CartHandler) AddItem(c echo.Context) error {
	gid := guestID(c)
	if gid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Guest-ID header is required"})
	}
	var req addCartItemReq
	if err := c.Bind(&req); err != nil || req.ProductID == 0 || req.OptionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and option_id are required"})
	}

	ctx := c.Request().Context()
	p, err := h.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	o, err := h.Options.GetByID(ctx, req.OptionID)
	if err != nil {
		if err == repository.ErrOptionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product option not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if o.ProductID != p.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "option does not belong to product"})
	}

	ct, err := h.Store.Load(ctx, gid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cart unavailable"})
	}
	ct.Add(p, o)
	if err := h.Store.Save(ctx, gid, ct); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cart unavailable"})
	}
	return c.JSON(http.StatusOK, toCartResp(ct))
}

// SetQuantity updates one line's quantity, flooring at 1.
func (h *CartHandler) SetQuantity(c echo.Context) error {
	gid := guestID(c)
	if gid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Guest-ID header is required"})
	}
	id := c.Param("id")
	var req setQuantityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	ct, err := h.Store.Load(ctx, gid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cart unavailable"})
	}
	if !ct.SetQuantity(id, req.Quantity) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
	}
	if err := h.Store.Save(ctx, gid, ct); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cart unavailable"})
	}
	return c.JSON(http.StatusOK, toCartResp(ct))
}

// RemoveItem deletes one line unconditionally.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	gid := guestID(c)
	if gid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Guest-ID header is required"})
	}
	id := c.Param("id")

	ctx := c.Request().Context()
	ct, err := h.Store.Load(ctx, gid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cart unavailable"})
	}
	if !ct.Remove(id) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
	}
	if err := h.Store.Save(ctx, gid, ct); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cart unavailable"})
	}
	return c.JSON(http.StatusOK, toCartResp(ct))
}

// Clear empties the cart; the client calls this right after a successful
// checkout.
func (h *CartHandler) Clear(c echo.Context) error {
	gid := guestID(c)
	if gid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Guest-ID header is required"})
	}
	if err := h.Store.Delete(c.Request().Context(), gid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cart unavailable"})
	}
	return c.NoContent(http.StatusNoContent)
}
