package payment

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

type fakeSnap struct {
	last *snap.Request
	err  *midtrans.Error
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &snap.Response{Token: "tok", RedirectURL: "https://app.sandbox.midtrans.test/" + req.TransactionDetails.OrderID}, nil
}

type fakeCore struct {
	resp *coreapi.TransactionStatusResponse
	err  *midtrans.Error
}

func (f *fakeCore) CheckTransaction(string) (*coreapi.TransactionStatusResponse, *midtrans.Error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newTestGateway(s *fakeSnap, c *fakeCore) *Midtrans {
	return &Midtrans{serverKey: "server-key", snap: s, core: c}
}

func sign(orderID, statusCode, gross, key string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + gross + key))
	return hex.EncodeToString(sum[:])
}

func TestMidtrans_CreateOrder(t *testing.T) {
	s := &fakeSnap{}
	g := newTestGateway(s, &fakeCore{})

	order, err := g.CreateOrder(context.Background(), ports.OrderRequest{
		OrderID: "MEDHR-1", Amount: 49900, CustomerName: "Asha", CustomerEmail: "asha@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://app.sandbox.midtrans.test/MEDHR-1", order.RedirectURL)
	assert.Equal(t, int64(49900), s.last.TransactionDetails.GrossAmt)
	assert.Equal(t, "asha@example.com", s.last.CustomerDetail.Email)

	s.err = &midtrans.Error{Message: "unauthorized", StatusCode: 401}
	_, err = g.CreateOrder(context.Background(), ports.OrderRequest{OrderID: "MEDHR-2", Amount: 1})
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestMidtrans_Status(t *testing.T) {
	c := &fakeCore{resp: &coreapi.TransactionStatusResponse{
		TransactionID: "tx-1", TransactionStatus: "settlement", GrossAmount: "49900.00",
	}}
	g := newTestGateway(&fakeSnap{}, c)

	st, err := g.Status(context.Background(), "MEDHR-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, st.Status)
	assert.Equal(t, "tx-1", st.TransactionID)

	c.err = &midtrans.Error{Message: "Transaction doesn't exist.", StatusCode: 404}
	st, err = g.Status(context.Background(), "MEDHR-2")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, st.Status)

	c.err = &midtrans.Error{Message: "bad gateway", StatusCode: 502}
	_, err = g.Status(context.Background(), "MEDHR-3")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestMidtrans_Verify(t *testing.T) {
	g := newTestGateway(&fakeSnap{}, &fakeCore{})
	n := ports.Notification{
		OrderID:           "MEDHR-1",
		StatusCode:        "200",
		GrossAmount:       "49900.00",
		TransactionStatus: "capture",
		FraudStatus:       "accept",
		TransactionID:     "tx-1",
	}
	n.SignatureKey = sign(n.OrderID, n.StatusCode, n.GrossAmount, "server-key")

	st, err := g.Verify(n)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, st.Status)

	n.GrossAmount = "1.00"
	_, err = g.Verify(n)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "Invalid signature", domain.Message(err))
}

func TestMapStatus(t *testing.T) {
	cases := []struct {
		status, fraud string
		want          domain.PaymentStatus
	}{
		{"settlement", "", domain.PaymentPaid},
		{"capture", "accept", domain.PaymentPaid},
		{"capture", "challenge", domain.PaymentPending},
		{"capture", "deny", domain.PaymentFailed},
		{"pending", "", domain.PaymentPending},
		{"expire", "", domain.PaymentFailed},
		{"cancel", "", domain.PaymentFailed},
		{"deny", "", domain.PaymentFailed},
		{"refund", "", domain.PaymentPending},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MapStatus(tc.status, tc.fraud), tc.status+"/"+tc.fraud)
	}
}
