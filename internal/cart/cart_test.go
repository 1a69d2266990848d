package cart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hamdiks/cardstore/internal/model"
)

func testProduct() *model.Product {
	return &model.Product{ID: 7, Name: "Steam Card", Img: "/uploads/products/steam.png"}
}

func testOption() *model.Option {
	return &model.Option{ID: 3, ProductID: 7, Label: "50 USD", Price: 160}
}

func TestAddMergesSameSelection(t *testing.T) {
	c := New()
	p, o := testProduct(), testOption()

	c.Add(p, o)
	c.Add(p, o)

	assert.Len(t, c.Items, 1)
	assert.Equal(t, uint32(2), c.Items[0].Quantity)
	assert.Equal(t, "7-3", c.Items[0].ID)
	assert.Equal(t, "Steam Card", c.Items[0].Name)
	assert.Equal(t, "50 USD", c.Items[0].OptionLabel)
	assert.Equal(t, 160.0, c.Items[0].UnitPrice)
}

func TestAddDistinctOptionsAreSeparateLines(t *testing.T) {
	c := New()
	p := testProduct()
	c.Add(p, &model.Option{ID: 3, ProductID: 7, Label: "50 USD", Price: 160})
	c.Add(p, &model.Option{ID: 4, ProductID: 7, Label: "100 USD", Price: 320})

	assert.Len(t, c.Items, 2)
	assert.Equal(t, uint32(2), c.TotalCount())
}

func TestSetQuantityFloorsAtOne(t *testing.T) {
	c := New()
	c.Add(testProduct(), testOption())

	tests := []struct {
		name string
		n    int
		want uint32
	}{
		{"set to 5", 5, 5},
		{"set to 1", 1, 1},
		{"zero floors", 0, 1},
		{"negative floors", -10, 1},
		// 1<<32 would wrap a naive uint32 conversion to quantity 0.
		{"past uint32 clamps", 1 << 32, math.MaxUint32},
		{"uint32 max kept", math.MaxUint32, math.MaxUint32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, c.SetQuantity("7-3", tt.n))
			assert.GreaterOrEqual(t, c.Items[0].Quantity, uint32(1))
			assert.Equal(t, tt.want, c.Items[0].Quantity)
		})
	}
}

func TestSetQuantityUnknownLine(t *testing.T) {
	c := New()
	assert.False(t, c.SetQuantity("9-9", 2))
}

func TestRemoveIsTheOnlyPathToAbsence(t *testing.T) {
	c := New()
	c.Add(testProduct(), testOption())

	// decrementing to zero keeps the line
	c.SetQuantity("7-3", 0)
	assert.Len(t, c.Items, 1)

	assert.True(t, c.Remove("7-3"))
	assert.Empty(t, c.Items)
	assert.False(t, c.Remove("7-3"))
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(testProduct(), testOption())
	c.Clear()
	assert.Empty(t, c.Items)
	assert.Equal(t, uint32(0), c.TotalCount())
}

func TestTotals(t *testing.T) {
	c := New()
	p := testProduct()
	c.Add(p, &model.Option{ID: 3, ProductID: 7, Label: "50 USD", Price: 160})
	c.Add(p, &model.Option{ID: 3, ProductID: 7, Label: "50 USD", Price: 160})
	c.Add(p, &model.Option{ID: 4, ProductID: 7, Label: "100 USD", Price: 320})
	c.SetQuantity("7-4", 3)

	assert.Equal(t, uint32(5), c.TotalCount())
	assert.Equal(t, 2*160.0+3*320.0, c.TotalPrice())
}

func TestDecodeRoundTrip(t *testing.T) {
	c := New()
	c.Add(testProduct(), testOption())
	c.SetQuantity("7-3", 4)

	data, err := c.Encode()
	assert.NoError(t, err)

	got := Decode(data)
	assert.Equal(t, c.Items, got.Items)
}

func TestDecodeCorruptStateIsEmptyCart(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte("")},
		{"garbage", []byte("{not json")},
		{"wrong shape", []byte(`{"items": "nope"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Decode(tt.data)
			assert.NotNil(t, c)
			assert.Empty(t, c.Items)
		})
	}
}

func TestDecodeNormalizesZeroQuantities(t *testing.T) {
	c := Decode([]byte(`{"items":[{"cart_item_id":"7-3","product_id":7,"option_id":3,"quantity":0}]}`))
	assert.Len(t, c.Items, 1)
	assert.Equal(t, uint32(1), c.Items[0].Quantity)
}
