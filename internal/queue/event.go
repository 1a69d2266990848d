// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPlacedEvent is published after an order transaction commits. It
// contains enough information for downstream consumers to log, notify the
// operator, or feed analytics without querying the primary database. One
// event covers the whole checkout batch.
type OrderPlacedEvent struct {
    BatchID     string           `json:"batch_id"`
    UserID      uint64           `json:"user_id"`
    UserCreated bool             `json:"user_created"`
    Email       string           `json:"email"`
    Phone       string           `json:"phone"`
    Payment     string           `json:"payment_method"`
    TxNumber    string           `json:"transaction_number"`
    Total       float64          `json:"total"`
    Lines       []OrderEventLine `json:"lines"`
    PlacedAt    string           `json:"placed_at"`
}

// OrderEventLine is one purchased product line inside the batch.
type OrderEventLine struct {
    OrderID     uint64  `json:"order_id"`
    ProductID   uint64  `json:"product_id"`
    ProductName string  `json:"product_name"`
    OptionLabel string  `json:"option_label"`
    Quantity    uint32  `json:"quantity"`
    UnitPrice   float64 `json:"unit_price"`
}
