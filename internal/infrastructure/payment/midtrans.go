// Package payment talks to the Midtrans payment gateway: Snap for opening
// orders, the Core API for polling their status.
package payment

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

type Config struct {
	ServerKey  string
	Production bool
}

type snapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type statusAPI interface {
	CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

// Midtrans implements ports.PaymentGateway.
type Midtrans struct {
	serverKey string
	snap      snapAPI
	core      statusAPI
}

func NewMidtrans(cfg Config) *Midtrans {
	env := midtrans.Sandbox
	if cfg.Production {
		env = midtrans.Production
	}

	var s snap.Client
	s.New(cfg.ServerKey, env)
	var c coreapi.Client
	c.New(cfg.ServerKey, env)

	return &Midtrans{serverKey: cfg.ServerKey, snap: &s, core: &c}
}

// CreateOrder opens a Snap transaction and returns its payment page.
func (m *Midtrans) CreateOrder(_ context.Context, req ports.OrderRequest) (*ports.Order, error) {
	resp, merr := m.snap.CreateTransaction(&snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
	})
	// merr is a concrete pointer; comparing it as an error would never be nil
	if merr != nil {
		return nil, fmt.Errorf("%w: create order %s: %s", domain.ErrUpstream, req.OrderID, merr.GetMessage())
	}
	return &ports.Order{OrderID: req.OrderID, Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// Status polls the gateway for orderID.
func (m *Midtrans) Status(_ context.Context, orderID string) (*ports.GatewayStatus, error) {
	resp, merr := m.core.CheckTransaction(orderID)
	if merr != nil {
		if merr.GetStatusCode() == 404 {
			// not paid yet: Snap orders exist at the gateway only once a
			// payment method was chosen
			return &ports.GatewayStatus{OrderID: orderID, Status: domain.PaymentPending}, nil
		}
		return nil, fmt.Errorf("%w: check %s: %s", domain.ErrUpstream, orderID, merr.GetMessage())
	}
	return &ports.GatewayStatus{
		OrderID:       orderID,
		Status:        MapStatus(resp.TransactionStatus, resp.FraudStatus),
		TransactionID: resp.TransactionID,
		GrossAmount:   resp.GrossAmount,
	}, nil
}

// Verify checks the notification signature:
// sha512(order_id + status_code + gross_amount + server_key).
func (m *Midtrans) Verify(n ports.Notification) (*ports.GatewayStatus, error) {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + m.serverKey))
	expected := hex.EncodeToString(sum[:])
	if subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) != 1 {
		return nil, domain.NewError(domain.ErrForbidden, "Invalid signature")
	}
	return &ports.GatewayStatus{
		OrderID:       n.OrderID,
		Status:        MapStatus(n.TransactionStatus, n.FraudStatus),
		TransactionID: n.TransactionID,
		GrossAmount:   n.GrossAmount,
	}, nil
}

// MapStatus folds a Midtrans transaction status onto the local status set.
// Unknown and in-flight statuses stay pending.
func MapStatus(transactionStatus, fraudStatus string) domain.PaymentStatus {
	switch transactionStatus {
	case "settlement":
		return domain.PaymentPaid
	case "capture":
		if fraudStatus == "" || fraudStatus == "accept" {
			return domain.PaymentPaid
		}
		if fraudStatus == "deny" {
			return domain.PaymentFailed
		}
	case "deny", "cancel", "expire", "failure":
		return domain.PaymentFailed
	}
	return domain.PaymentPending
}
