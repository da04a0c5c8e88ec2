package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

type stubPaymentService struct {
	ports.PaymentService

	createFn       func(ctx context.Context, e *domain.Employee, amount int64) (*domain.Payment, error)
	notificationFn func(ctx context.Context, n ports.Notification) error
}

func (s *stubPaymentService) Create(ctx context.Context, e *domain.Employee, amount int64) (*domain.Payment, error) {
	return s.createFn(ctx, e, amount)
}

func (s *stubPaymentService) HandleNotification(ctx context.Context, n ports.Notification) error {
	return s.notificationFn(ctx, n)
}

const notificationBody = `{"order_id":"ORD-1","status_code":"200","gross_amount":"10000.00","signature_key":"sig","transaction_status":"settlement","transaction_id":"tx-1","fraud_status":"accept","payment_type":"qris"}`

func TestPaymentHandler_Create(t *testing.T) {
	e := newTestEcho()
	stub := &stubPaymentService{
		createFn: func(ctx context.Context, emp *domain.Employee, amount int64) (*domain.Payment, error) {
			if emp.ID != "emp-1" || amount != 10000 {
				t.Fatalf("unexpected args: %s %d", emp.ID, amount)
			}
			return &domain.Payment{ID: "p1", OrderID: "ORD-1", PaymentLink: "https://pay.example/ORD-1"}, nil
		},
	}
	h := NewPaymentHandler(stub, zerolog.Nop())

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/payment/create", `{"amount":10000}`)
	emp := &domain.Employee{}
	emp.ID = "emp-1"
	c.Set(string(domain.RoleEmployee), emp)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["orderId"] != "ORD-1" || resp["paymentLink"] != "https://pay.example/ORD-1" || resp["paymentId"] != "p1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPaymentHandler_Create_RejectsNonPositiveAmount(t *testing.T) {
	e := newTestEcho()
	h := NewPaymentHandler(&stubPaymentService{}, zerolog.Nop())

	c, _ := newJSONContext(e, http.MethodPost, "/api/v1/payment/create", `{"amount":0}`)
	emp := &domain.Employee{}
	emp.ID = "emp-1"
	c.Set(string(domain.RoleEmployee), emp)

	if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPaymentHandler_Notification(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus string
		wantErr    bool
	}{
		{name: "applied", body: notificationBody, wantStatus: "ok"},
		{name: "bad signature", body: notificationBody, serviceErr: domain.NewError(domain.ErrForbidden, "invalid signature"), wantStatus: "ignored"},
		{name: "unknown order", body: notificationBody, serviceErr: domain.ErrNotFound, wantStatus: "ignored"},
		{name: "garbage", body: "not-json", wantStatus: "ignored"},
		{name: "transient", body: notificationBody, serviceErr: errors.New("mongo timeout"), wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho()
			stub := &stubPaymentService{
				notificationFn: func(ctx context.Context, n ports.Notification) error {
					if n.OrderID != "ORD-1" || n.SignatureKey != "sig" || n.TransactionStatus != "settlement" {
						t.Fatalf("unexpected notification: %+v", n)
					}
					return tc.serviceErr
				},
			}
			h := NewPaymentHandler(stub, zerolog.Nop())

			c, rec := newJSONContext(e, http.MethodPost, "/api/v1/payment/notification", tc.body)
			err := h.Notification(c)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error to reach the error handler")
				}
				return
			}
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			resp := decodeBody(t, rec)
			if resp["status"] != tc.wantStatus {
				t.Fatalf("expected status %q, got %+v", tc.wantStatus, resp)
			}
		})
	}
}
