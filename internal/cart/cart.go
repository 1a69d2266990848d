// Package cart implements the storefront shopping cart: an ordered list of
// option selections keyed by product and option, with the quantity rules the
// checkout flow depends on. The cart itself has no server-side identity; it
// is snapshotted to a Store on every mutation and converted into order rows
// only at checkout.
package cart

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/hamdiks/cardstore/internal/model"
)

// Item is one cart line: a product option plus a quantity. Price, labels
// and the listing image are copied in at add time so the cart renders
// without further catalog lookups.
type Item struct {
	ID          string  `json:"cart_item_id"` // "<productID>-<optionID>"
	ProductID   uint64  `json:"product_id"`
	OptionID    uint64  `json:"option_id"`
	Name        string  `json:"name"`
	OptionLabel string  `json:"option_label"`
	Img         string  `json:"img"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    uint32  `json:"quantity"`
}

// Cart holds the lines in insertion order.
type Cart struct {
	Items []Item `json:"items"`
}

// ItemID builds the cart line key for a product/option pair.
func ItemID(productID, optionID uint64) string {
	return fmt.Sprintf("%d-%d", productID, optionID)
}

// New returns an empty cart.
func New() *Cart { return &Cart{} }

// Decode rebuilds a cart from a stored JSON snapshot. Corrupt or
// unparseable state yields an empty cart, never an error: losing a stale
// cart is acceptable, failing every storefront page load is not.
func Decode(data []byte) *Cart {
	c := New()
	if len(data) == 0 {
		return c
	}
	if err := json.Unmarshal(data, c); err != nil {
		return New()
	}
	// Stored snapshots may predate the floor-at-1 rule; normalize on load.
	for i := range c.Items {
		if c.Items[i].Quantity < 1 {
			c.Items[i].Quantity = 1
		}
	}
	return c
}

// Encode serializes the cart for persistence.
func (c *Cart) Encode() ([]byte, error) { return json.Marshal(c) }

// find returns the index of the line with the given id, or -1.
func (c *Cart) find(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Add puts one unit of an option into the cart. When a line for the same
// product/option pair already exists its quantity grows by exactly one,
// regardless of how many units the caller would like to add at once;
// otherwise a new line is appended at quantity 1, copying the option's
// price and label and the product's listing image.
func (c *Cart) Add(p *model.Product, o *model.Option) *Item {
	id := ItemID(p.ID, o.ID)
	if i := c.find(id); i >= 0 {
		c.Items[i].Quantity++
		return &c.Items[i]
	}
	c.Items = append(c.Items, Item{
		ID:          id,
		ProductID:   p.ID,
		OptionID:    o.ID,
		Name:        p.Name,
		OptionLabel: o.Label,
		Img:         p.Img,
		UnitPrice:   o.Price,
		Quantity:    1,
	})
	return &c.Items[len(c.Items)-1]
}

// SetQuantity sets a line's quantity to max(1, n). Decrementing below one
// floors at one rather than removing the line; Remove is the only path to
// absence. Values beyond the uint32 range clamp to the maximum instead of
// wrapping, so no input can drive the stored quantity to zero. Returns
// false when no line matches the id.
func (c *Cart) SetQuantity(id string, n int) bool {
	i := c.find(id)
	if i < 0 {
		return false
	}
	q := uint32(1)
	if n >= 1 {
		if uint64(n) > math.MaxUint32 {
			q = math.MaxUint32
		} else {
			q = uint32(n)
		}
	}
	c.Items[i].Quantity = q
	return true
}

// Remove deletes a line unconditionally. Returns false when absent.
func (c *Cart) Remove(id string) bool {
	i := c.find(id)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// Clear empties the cart. The checkout client calls this exactly once,
// immediately after an order is accepted.
func (c *Cart) Clear() { c.Items = nil }

// TotalCount is the sum of all line quantities.
func (c *Cart) TotalCount() uint32 {
	var n uint32
	for i := range c.Items {
		n += c.Items[i].Quantity
	}
	return n
}

// TotalPrice is the sum of unit price times quantity over all lines.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for i := range c.Items {
		total += c.Items[i].UnitPrice * float64(c.Items[i].Quantity)
	}
	return total
}
