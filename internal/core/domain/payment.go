package domain

import "time"

// PaymentStatus mirrors the gateway's view of an order.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

// Valid reports whether s is a known status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// Final reports whether no further gateway update can change s.
func (s PaymentStatus) Final() bool {
	return s == PaymentPaid || s == PaymentFailed
}

// Payment is the local mirror of a gateway order, keyed by OrderID.
type Payment struct {
	ID            string        `json:"_id" bson:"_id,omitempty"`
	OrderID       string        `json:"orderId" bson:"orderId"`
	TransactionID string        `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Amount        int64         `json:"amount" bson:"amount"`
	PaymentStatus PaymentStatus `json:"paymentStatus" bson:"paymentStatus"`
	PaidBy        string        `json:"paidBy" bson:"paidBy"`
	PaymentLink   string        `json:"paymentLink,omitempty" bson:"paymentLink,omitempty"`
	PaymentDate   *time.Time    `json:"paymentDate,omitempty" bson:"paymentDate,omitempty"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}
