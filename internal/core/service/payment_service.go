package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
	"github.com/neon-lab-dev/medhrplus-server/internal/metrics"
)

const orderIDPrefix = "MEDHR-"

type paymentService struct {
	payments ports.PaymentRepository
	gateway  ports.PaymentGateway
	dedup    ports.DedupChecker
	log      zerolog.Logger
	now      func() time.Time
}

// NewPaymentService returns a PaymentService. dedup may be nil, in which
// case repeated notifications are applied again.
func NewPaymentService(
	payments ports.PaymentRepository,
	gateway ports.PaymentGateway,
	dedup ports.DedupChecker,
	log zerolog.Logger,
) ports.PaymentService {
	return &paymentService{
		payments: payments,
		gateway:  gateway,
		dedup:    dedup,
		log:      log,
		now:      time.Now,
	}
}

// Create opens a gateway order for e and mirrors it locally as Pending.
func (s *paymentService) Create(ctx context.Context, e *domain.Employee, amount int64) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, domain.NewError(domain.ErrValidation, "Amount must be greater than zero")
	}

	orderID := orderIDPrefix + strings.ToUpper(uuid.NewString())
	order, err := s.gateway.CreateOrder(ctx, ports.OrderRequest{
		OrderID:       orderID,
		Amount:        amount,
		CustomerName:  e.FullName,
		CustomerEmail: e.Email,
		CustomerPhone: e.MobileNumber,
	})
	if err != nil {
		s.log.Error().Err(err).Str("order", orderID).Msg("gateway order failed")
		return nil, upstream(err, "create payment order")
	}

	now := s.now().UTC()
	p, err := s.payments.Create(ctx, &domain.Payment{
		OrderID:       order.OrderID,
		Amount:        amount,
		PaymentStatus: domain.PaymentPending,
		PaidBy:        e.ID,
		PaymentLink:   order.RedirectURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	metrics.PaymentsTotal.WithLabelValues(strings.ToLower(string(domain.PaymentPending))).Inc()
	s.log.Info().Str("order", p.OrderID).Str("employee", e.ID).Int64("amount", amount).Msg("payment created")
	return p, nil
}

// Verify refreshes the local mirror from the gateway. Payments already in a
// final state are returned as they are.
func (s *paymentService) Verify(ctx context.Context, e *domain.Employee, orderID string) (*domain.Payment, error) {
	p, err := s.payments.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "Payment not found")
	}
	if p.PaidBy != e.ID {
		return nil, domain.NewError(domain.ErrForbidden, "You are not allowed to verify this payment")
	}
	if p.PaymentStatus.Final() {
		return p, nil
	}

	st, err := s.gateway.Status(ctx, orderID)
	if err != nil {
		s.log.Error().Err(err).Str("order", orderID).Msg("gateway status failed")
		return nil, upstream(err, "check payment status")
	}
	return s.apply(ctx, p, st)
}

// HandleNotification applies a status push from the gateway. Pushes with a
// bad signature are rejected; repeated pushes are acknowledged and skipped.
func (s *paymentService) HandleNotification(ctx context.Context, n ports.Notification) error {
	// 1. Authenticate the push.
	st, err := s.gateway.Verify(n)
	if err != nil {
		return err
	}

	// 2. Idempotency check.
	if s.dedup != nil {
		dup, err := s.dedup.IsDuplicate(ctx, st.OrderID, string(st.Status))
		if err != nil {
			s.log.Warn().Err(err).Str("order", st.OrderID).Msg("dedup check failed, processing anyway")
		} else if dup {
			metrics.PaymentNotificationsDedupTotal.WithLabelValues("duplicate").Inc()
			s.log.Debug().Str("order", st.OrderID).Str("status", string(st.Status)).Msg("duplicate notification skipped")
			return nil
		}
	}
	metrics.PaymentNotificationsDedupTotal.WithLabelValues("new").Inc()

	// 3. Find the local mirror.
	p, err := s.payments.FindByOrderID(ctx, st.OrderID)
	if err != nil {
		return notFound(err, "Payment not found")
	}

	// 4. Write, then remember the push. A failed write leaves no mark, so the
	// gateway's retry is applied.
	if _, err := s.apply(ctx, p, st); err != nil {
		return err
	}
	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, st.OrderID, string(st.Status)); err != nil {
			s.log.Warn().Err(err).Str("order", st.OrderID).Msg("failed to set dedup key")
		}
	}
	return nil
}

// apply records st on p unless p is already final.
func (s *paymentService) apply(ctx context.Context, p *domain.Payment, st *ports.GatewayStatus) (*domain.Payment, error) {
	if p.PaymentStatus.Final() {
		if p.PaymentStatus != st.Status {
			s.log.Warn().
				Str("order", p.OrderID).
				Str("local", string(p.PaymentStatus)).
				Str("gateway", string(st.Status)).
				Msg("ignoring status change of a settled payment")
		}
		return p, nil
	}
	if p.PaymentStatus == st.Status && st.TransactionID == p.TransactionID {
		return p, nil
	}

	updated, err := s.payments.UpdateStatus(ctx, p.OrderID, st.Status, st.TransactionID, s.now().UTC())
	if err != nil {
		return nil, notFound(err, "Payment not found")
	}
	if updated.PaymentStatus != p.PaymentStatus {
		metrics.PaymentsTotal.WithLabelValues(strings.ToLower(string(updated.PaymentStatus))).Inc()
	}
	s.log.Info().Str("order", p.OrderID).Str("status", string(updated.PaymentStatus)).Msg("payment status updated")
	return updated, nil
}

func (s *paymentService) List(ctx context.Context, params query.Params) (query.Result[*domain.Payment], error) {
	q := query.New().
		Search(params, "orderId").
		Filter(params).
		Sort(params, query.Desc("createdAt"))
	return list[*domain.Payment](ctx, s.payments, q, params)
}

func (s *paymentService) Get(ctx context.Context, id string) (*domain.Payment, error) {
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Payment not found")
	}
	return p, nil
}

// UpdateStatus overrides the local status by hand.
func (s *paymentService) UpdateStatus(ctx context.Context, orderID string, status domain.PaymentStatus, transactionID string) (*domain.Payment, error) {
	if !status.Valid() {
		return nil, domain.Errorf(domain.ErrValidation, "Invalid payment status %q", status)
	}
	p, err := s.payments.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "Payment not found")
	}
	if transactionID == "" {
		transactionID = p.TransactionID
	}
	updated, err := s.payments.UpdateStatus(ctx, orderID, status, transactionID, s.now().UTC())
	if err != nil {
		return nil, notFound(err, "Payment not found")
	}
	if updated.PaymentStatus != p.PaymentStatus {
		metrics.PaymentsTotal.WithLabelValues(strings.ToLower(string(status))).Inc()
	}
	return updated, nil
}

// upstream classifies a collaborator failure unless it already carries a
// domain kind.
func upstream(err error, op string) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, domain.ErrUpstream) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrUpstream, op, err)
}
