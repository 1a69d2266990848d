package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hamdiks/cardstore/internal/model"
	"github.com/hamdiks/cardstore/internal/repository"
)

// AdminProductHandler implements the back-office catalog writes. Every
// route it serves sits behind JWTAuth + RequireElevated, so handlers only
// deal with validation and persistence. Product and option writes of one
// request always share a transaction: a half-updated product is never
// observable from the storefront.
type AdminProductHandler struct {
	Products  *repository.ProductRepo
	Options   *repository.OptionRepo
	UploadDir string
}

func NewAdminProductHandler(p *repository.ProductRepo, o *repository.OptionRepo, uploadDir string) *AdminProductHandler {
	return &AdminProductHandler{Products: p, Options: o, UploadDir: uploadDir}
}

// optionInput is one member of the multipart "options" field, which must be
// a JSON array. Pointer fields distinguish an absent key from a zero value:
// an empty description or a price of 0 is valid, a missing key is not.
type optionInput struct {
	ID          *uint64  `json:"id"`
	Label       *string  `json:"label"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
}

// parseOptions decodes and validates the options form field. The empty
// string is accepted as "no options" on create.
func parseOptions(raw string) ([]optionInput, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	var opts []optionInput
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return nil, false
	}
	for _, o := range opts {
		if o.Label == nil || o.Price == nil || o.Description == nil {
			return nil, false
		}
	}
	return opts, true
}

// saveImage writes an uploaded product image under the upload directory and
// returns its public URL path. Filenames are flattened with filepath.Base
// and spaces replaced so the resulting path is safe to serve statically;
// a timestamp prefix avoids collisions between uploads of the same file.
func (h *AdminProductHandler) saveImage(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := strings.ReplaceAll(filepath.Base(file.Filename), " ", "_")
	name = strconv.FormatInt(time.Now().UnixNano(), 36) + "_" + name

	dir := filepath.Join(h.UploadDir, "products")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/uploads/products/" + name, nil
}

// parseStock reads the optional stock form field. Empty means the product
// is not stock-tracked.
func parseStock(raw string) (*int64, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// Create handles POST /api/products (multipart). Required fields: name,
// price, description, type and an image file; options is an optional JSON
// array whose members each carry label, price and description keys. The
// product row and the initial option set are inserted in one transaction.
func (h *AdminProductHandler) Create(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	price := strings.TrimSpace(c.FormValue("price"))
	description := c.FormValue("description")
	typ := strings.TrimSpace(c.FormValue("type"))
	if name == "" || price == "" || description == "" || typ == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, price, description and type are required"})
	}
	opts, ok := parseOptions(c.FormValue("options"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "options must be a JSON array of {label, price, description}"})
	}
	stock, ok := parseStock(c.FormValue("stock"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stock"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image is required"})
	}
	img, err := h.saveImage(file)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save image"})
	}

	p := &model.Product{Name: name, Price: price, Description: description, Img: img, Type: typ, Stock: stock}

	ctx := c.Request().Context()
	tx, err := h.Products.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Products.CreateTx(ctx, tx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create product"})
	}
	options := make([]*model.Option, 0, len(opts))
	for _, o := range opts {
		options = append(options, &model.Option{Label: *o.Label, Price: *o.Price, Description: *o.Description})
	}
	if err := h.Options.CreateBulkTx(ctx, tx, p.ID, options); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create options"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{"id": p.ID, "img": p.Img})
}

// Update handles PUT /api/products/:id (multipart). Fields mirror Create;
// the image file is optional and the prior image is kept when none is
// supplied. Existing options listed in the options array (by id) are
// bulk-updated in the same transaction as the product row.
func (h *AdminProductHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	name := strings.TrimSpace(c.FormValue("name"))
	price := strings.TrimSpace(c.FormValue("price"))
	description := c.FormValue("description")
	typ := strings.TrimSpace(c.FormValue("type"))
	if name == "" || price == "" || description == "" || typ == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, price, description and type are required"})
	}
	opts, ok := parseOptions(c.FormValue("options"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "options must be a JSON array of {label, price, description}"})
	}
	for _, o := range opts {
		if o.ID == nil || *o.ID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "each option needs its id on update"})
		}
	}
	stock, ok := parseStock(c.FormValue("stock"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stock"})
	}

	img := ""
	if file, err := c.FormFile("image"); err == nil {
		img, err = h.saveImage(file)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save image"})
		}
	}

	p := &model.Product{ID: id, Name: name, Price: price, Description: description, Img: img, Type: typ, Stock: stock}

	ctx := c.Request().Context()
	tx, err := h.Products.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Products.UpdateTx(ctx, tx, p); err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update product"})
	}
	for _, o := range opts {
		opt := &model.Option{ID: *o.ID, Label: *o.Label, Price: *o.Price, Description: *o.Description}
		if err := h.Options.UpdateTx(ctx, tx, opt); err != nil {
			if err == repository.ErrOptionNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "product option not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update options"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/products/:id. The product's options are
// removed in the same transaction so the catalog never shows orphan
// variants, while DELETE /api/product_options/:id stays available for
// pruning a single variant independently.
func (h *AdminProductHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()

	tx, err := h.Products.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Options.DeleteByProductTx(ctx, tx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete options"})
	}
	if err := h.Products.DeleteTx(ctx, tx, id); err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete product"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.NoContent(http.StatusNoContent)
}

// UpdateOption handles PUT /api/product_options/:id for editing a single
// variant outside of a full product update.
func (h *AdminProductHandler) UpdateOption(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body optionInput
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Label == nil || body.Price == nil || body.Description == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "label, price and description are required"})
	}

	opt := &model.Option{ID: id, Label: *body.Label, Price: *body.Price, Description: *body.Description}
	if err := h.Options.Update(c.Request().Context(), opt); err != nil {
		if err == repository.ErrOptionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product option not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update option"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteOption handles DELETE /api/product_options/:id.
func (h *AdminProductHandler) DeleteOption(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Options.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrOptionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product option not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete option"})
	}
	return c.NoContent(http.StatusNoContent)
}
