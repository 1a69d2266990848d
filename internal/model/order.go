package model

import "time"

// Payment methods accepted at checkout.  Payments are manual: the
// customer sends money over one of these channels and types the
// resulting transaction reference into the order form, where a human
// operator later confirms it.
const (
    PaymentOoredoo = "ooredoo"
    PaymentOrange  = "orange"
    PaymentTelecom = "telecom"
    PaymentD17     = "d17"
    PaymentFlouci  = "flouci"
)

// ValidPaymentMethod reports whether m is one of the accepted
// manual payment channels.
func ValidPaymentMethod(m string) bool {
    switch m {
    case PaymentOoredoo, PaymentOrange, PaymentTelecom, PaymentD17, PaymentFlouci:
        return true
    }
    return false
}

// Order represents one purchased line in the `orders` table.  A
// checkout with several cart lines produces several rows sharing one
// BatchID, so the whole purchase can be regrouped while each row
// still snapshots the product name, option label and unit price at
// purchase time.  Orders are immutable once written.
//
// Fields:
//  ID          – primary key identifier.
//  BatchID     – random hex identifier shared by all rows of one checkout.
//  UserID      – resolved or newly created account the order belongs to.
//  ProductID   – purchased product.
//  ProductName – product name snapshot at purchase time.
//  OptionID    – purchased option, zero when the product has no options.
//  OptionLabel – option label snapshot.
//  Quantity    – units purchased, always >= 1.
//  UnitPrice   – option price snapshot.
//  Payment     – manual payment channel (see constants above).
//  Email       – normalized (lowercased, trimmed) contact email.
//  Phone       – contact phone / WhatsApp number.
//  TxNumber    – customer-supplied proof-of-payment reference.
//  OrderTime   – server clock at commit.
type Order struct {
    ID          uint64    // orders.id
    BatchID     string    // orders.batch_id
    UserID      uint64    // orders.user_id
    ProductID   uint64    // orders.product_id
    ProductName string    // orders.product_name
    OptionID    uint64    // orders.option_id
    OptionLabel string    // orders.option_label
    Quantity    uint32    // orders.quantity
    UnitPrice   float64   // orders.unit_price
    Payment     string    // orders.payment_method
    Email       string    // orders.email
    Phone       string    // orders.phone
    TxNumber    string    // orders.transaction_number
    OrderTime   time.Time // orders.order_time
}
