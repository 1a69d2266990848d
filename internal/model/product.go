package model

import "time"

// Product represents a sellable digital good as stored in the
// `products` table.  Price is a display string rather than a numeric
// column because listings show marketing text like "from 10 TND";
// the purchasable amounts live on the options.  Type is an open tag
// set used by the storefront to group listings ("gift_cards",
// "games", "bestsellers", "top", ...).
//
// Fields:
//  ID          – primary key identifier.
//  Name        – listing name, unique in practice and used for lookup.
//  Price       – display price string shown on listing cards.
//  Description – long-form listing description.
//  Img         – relative path of the listing image under /uploads.
//  Type        – grouping tag.
//  Stock       – remaining units, nil when the product is not stock-tracked.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Product struct {
    ID          uint64    // products.id
    Name        string    // products.name
    Price       string    // products.price (display string)
    Description string    // products.description
    Img         string    // products.img
    Type        string    // products.type
    Stock       *int64    // products.stock (nullable)
    CreatedAt   time.Time // products.created_at
    UpdatedAt   time.Time // products.updated_at
}

// Option represents a purchasable variant of a product in the
// `product_options` table: a denomination or tier with its own
// price.  Options are displayed in ascending id order so the admin's
// insertion order is the storefront's display order.  Deleting an
// option is independent of deleting its parent product.
//
// Fields:
//  ID          – primary key identifier.
//  ProductID   – owning product.
//  Label       – variant label shown to the customer (e.g. "50 USD").
//  Price       – unit price of the variant.
//  Description – variant description; empty string is allowed.
type Option struct {
    ID          uint64  // product_options.id
    ProductID   uint64  // product_options.product_id
    Label       string  // product_options.label
    Price       float64 // product_options.price
    Description string  // product_options.description
}
