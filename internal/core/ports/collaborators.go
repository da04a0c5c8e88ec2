package ports

import (
	"context"
	"time"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
)

// Mail is one outgoing HTML message. Template names the message kind for
// logging and metrics.
type Mail struct {
	Template string
	To       string
	ReplyTo  string
	Subject  string
	Body     string
}

// Mailer delivers email. Errors mean the message was not accepted.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// MailQueue delivers email in the background. Enqueue never blocks the
// caller on delivery.
type MailQueue interface {
	Enqueue(m Mail)
}

// File is an upload received from a client.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// FileStorage stores uploaded objects under a folder and deletes them by id.
type FileStorage interface {
	Upload(ctx context.Context, f File, folder string) (domain.StoredFile, error)
	Delete(ctx context.Context, fileID string) error
}

// Thumbnailer scales an image so that its longer side is at most maxSide.
type Thumbnailer interface {
	Thumbnail(content []byte, maxSide int) ([]byte, error)
}

// ApplicantRow is one line of an applicant export.
type ApplicantRow struct {
	Applicant domain.Applicant
	Employee  *domain.Employee // nil when the account was deleted
}

// ApplicantExporter renders the applicants of a job as a spreadsheet and
// returns its bytes and a file name.
type ApplicantExporter interface {
	Export(job *domain.Job, rows []ApplicantRow) ([]byte, string, error)
}

// UploadLimiter rate-limits uploads per principal.
type UploadLimiter interface {
	// Allow reports whether principalID may upload now, and if not, how long
	// to wait.
	Allow(ctx context.Context, principalID string) (bool, time.Duration, error)
}

// Locker hands out short exclusive leases shared by all replicas.
type Locker interface {
	// TryLock acquires key for ttl and reports whether it got it.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// DedupChecker remembers which gateway notifications were already applied.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, orderID, status string) (bool, error)
	Mark(ctx context.Context, orderID, status string) error
}

// OrderRequest asks the gateway to open a payment order.
type OrderRequest struct {
	OrderID       string
	Amount        int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// Order is the gateway's answer to an OrderRequest.
type Order struct {
	OrderID     string
	Token       string
	RedirectURL string
}

// GatewayStatus is the gateway's view of an order, already mapped onto the
// local status set.
type GatewayStatus struct {
	OrderID       string
	Status        domain.PaymentStatus
	TransactionID string
	GrossAmount   string
}

// Notification is an asynchronous status push from the gateway.
type Notification struct {
	OrderID           string
	StatusCode        string
	GrossAmount       string
	SignatureKey      string
	TransactionStatus string
	TransactionID     string
	FraudStatus       string
}

// PaymentGateway is the external payment provider.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	Status(ctx context.Context, orderID string) (*GatewayStatus, error)
	// Verify checks the notification signature and maps its status.
	Verify(n Notification) (*GatewayStatus, error)
}
