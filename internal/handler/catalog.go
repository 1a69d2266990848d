// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public catalog API. These routes allow
// unauthenticated visitors to browse products and their purchasable options
// without requiring authentication. Timestamps and other back-office fields
// are filtered from responses.

package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/hamdiks/cardstore/internal/model"
    "github.com/hamdiks/cardstore/internal/repository"
)

// CatalogHandler aggregates repositories needed for unauthenticated browsing.
// It produces sanitized responses suitable for public consumption.
type CatalogHandler struct {
    Products *repository.ProductRepo // provides access to product data
    Options  *repository.OptionRepo  // provides access to option data
}

func NewCatalogHandler(p *repository.ProductRepo, o *repository.OptionRepo) *CatalogHandler {
    return &CatalogHandler{Products: p, Options: o}
}

// PublicProduct represents a product exposed via the public API. It contains
// only fields the storefront renders.
type PublicProduct struct {
    ID          uint64 `json:"id"`
    Name        string `json:"name"`
    Price       string `json:"price"`
    Description string `json:"description"`
    Img         string `json:"img"`
    Type        string `json:"type"`
    Stock       *int64 `json:"stock,omitempty"`
}

// PublicOption represents a purchasable option in public responses.
type PublicOption struct {
    ID          uint64  `json:"id"`
    ProductID   uint64  `json:"product_id"`
    Label       string  `json:"label"`
    Price       float64 `json:"price"`
    Description string  `json:"description"`
}

func toPublicProduct(p *model.Product) PublicProduct {
    return PublicProduct{
        ID:          p.ID,
        Name:        p.Name,
        Price:       p.Price,
        Description: p.Description,
        Img:         p.Img,
        Type:        p.Type,
        Stock:       p.Stock,
    }
}

func toPublicOption(o *model.Option) PublicOption {
    return PublicOption{
        ID:          o.ID,
        ProductID:   o.ProductID,
        Label:       o.Label,
        Price:       o.Price,
        Description: o.Description,
    }
}

// ListProducts returns all products, optionally filtered by the ?type=
// query parameter. Response JSON contains an "items" array.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
    ctx := c.Request().Context()
    products, err := h.Products.ListAll(ctx, c.QueryParam("type"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]PublicProduct, 0, len(products))
    for _, p := range products {
        out = append(out, toPublicProduct(p))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetProduct returns one product by id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
    ctx := c.Request().Context()
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    p, err := h.Products.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrProductNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, toPublicProduct(p))
}

// GetProductByName returns one product matched by case-insensitive exact
// name. The storefront links listing cards by name rather than id.
func (h *CatalogHandler) GetProductByName(c echo.Context) error {
    ctx := c.Request().Context()
    name := c.Param("name")
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid name"})
    }
    p, err := h.Products.GetByName(ctx, name)
    if err != nil {
        if err == repository.ErrProductNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, toPublicProduct(p))
}

// ListOptions returns the options of a product in ascending id order.
func (h *CatalogHandler) ListOptions(c echo.Context) error {
    ctx := c.Request().Context()
    productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
    if err != nil || productID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
    }
    // ensure product exists
    if _, err := h.Products.GetByID(ctx, productID); err != nil {
        if err == repository.ErrProductNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    options, err := h.Options.ListByProduct(ctx, productID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]PublicOption, 0, len(options))
    for _, o := range options {
        out = append(out, toPublicOption(o))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}
