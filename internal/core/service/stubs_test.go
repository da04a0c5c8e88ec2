package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

// ---------------------------------------------------------------------------
// In-memory query evaluation
// ---------------------------------------------------------------------------

// lookupJSON exposes the JSON form of v to query.Match. Dotted fields walk
// into nested objects and collect across arrays.
func lookupJSON(v any) func(string) any {
	raw, _ := json.Marshal(v)
	var doc map[string]any
	_ = json.Unmarshal(raw, &doc)
	return func(field string) any {
		return flatten(walk(doc, strings.Split(field, ".")))
	}
}

func walk(v any, path []string) any {
	if len(path) == 0 {
		return v
	}
	switch x := v.(type) {
	case map[string]any:
		return walk(x[path[0]], path[1:])
	case []any:
		var out []any
		for _, el := range x {
			r := walk(el, path)
			if rs, ok := r.([]any); ok {
				out = append(out, rs...)
			} else if r != nil {
				out = append(out, r)
			}
		}
		return out
	}
	return nil
}

func flatten(v any) any {
	xs, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		out = append(out, fmt.Sprint(x))
	}
	return out
}

func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if fa, ok := a.(float64); ok {
		if fb, ok := b.(float64); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	ta, errA := time.Parse(time.RFC3339Nano, sa)
	tb, errB := time.Parse(time.RFC3339Nano, sb)
	if errA == nil && errB == nil {
		return ta.Compare(tb)
	}
	return strings.Compare(sa, sb)
}

func memFind[T any](all []*T, q *query.Query) []*T {
	out := []*T{}
	for _, it := range all {
		if q.Match(lookupJSON(it)) {
			out = append(out, it)
		}
	}
	sorts := q.SortFields()
	sort.SliceStable(out, func(i, j int) bool {
		li, lj := lookupJSON(out[i]), lookupJSON(out[j])
		for _, s := range sorts {
			c := compareValues(li(s.Field), lj(s.Field))
			if c == 0 {
				continue
			}
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return query.Window(q, out)
}

// ---------------------------------------------------------------------------
// Account repository
// ---------------------------------------------------------------------------

type memAccounts[T any, PT domain.AccountHolder[T]] struct {
	mu     sync.Mutex
	prefix string
	seq    int
	items  map[string]*T
	order  []string
	err    error // returned by every call when set
}

func newMemAccounts[T any, PT domain.AccountHolder[T]](prefix string) *memAccounts[T, PT] {
	return &memAccounts[T, PT]{prefix: prefix, items: map[string]*T{}}
}

func cloneOf[T any](v *T) *T {
	c := *v
	return &c
}

func (r *memAccounts[T, PT]) Create(_ context.Context, a *T) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	email := PT(a).AccountRef().Email
	for _, existing := range r.items {
		if PT(existing).AccountRef().Email == email {
			return nil, domain.ErrConflict
		}
	}
	c := cloneOf(a)
	acc := PT(c).AccountRef()
	if acc.ID == "" {
		r.seq++
		acc.ID = fmt.Sprintf("%s-%d", r.prefix, r.seq)
	}
	r.items[acc.ID] = c
	r.order = append(r.order, acc.ID)
	return cloneOf(c), nil
}

func (r *memAccounts[T, PT]) FindByID(_ context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneOf(a), nil
}

func (r *memAccounts[T, PT]) FindByEmail(_ context.Context, email string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.items {
		if PT(a).AccountRef().Email == email {
			return cloneOf(a), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memAccounts[T, PT]) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		acc := PT(a).AccountRef()
		if acc.ResetPasswordToken == tokenHash && acc.ResetPasswordExpire != nil && acc.ResetPasswordExpire.After(now) {
			return cloneOf(a), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memAccounts[T, PT]) Update(_ context.Context, a *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	id := PT(a).AccountRef().ID
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	r.items[id] = cloneOf(a)
	return nil
}

func (r *memAccounts[T, PT]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memAccounts[T, PT]) all() []*T {
	out := make([]*T, 0, len(r.items))
	for _, id := range r.order {
		if a, ok := r.items[id]; ok {
			out = append(out, cloneOf(a))
		}
	}
	return out
}

func (r *memAccounts[T, PT]) Find(_ context.Context, q *query.Query) ([]*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return memFind(r.all(), q), nil
}

func (r *memAccounts[T, PT]) Count(_ context.Context, q *query.Query) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(memFind(r.all(), q.Unpaginated()))), nil
}

func (r *memAccounts[T, PT]) DeleteExpiredUnverified(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for id, a := range r.items {
		if PT(a).AccountRef().PendingExpired(now) {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

func newMemEmployees() *memAccounts[domain.Employee, *domain.Employee] {
	return newMemAccounts[domain.Employee, *domain.Employee]("employee")
}

func newMemEmployers() *memAccounts[domain.Employer, *domain.Employer] {
	return newMemAccounts[domain.Employer, *domain.Employer]("employer")
}

func newMemAdmins() *memAccounts[domain.Admin, *domain.Admin] {
	return newMemAccounts[domain.Admin, *domain.Admin]("admin")
}

// ---------------------------------------------------------------------------
// Resource repositories
// ---------------------------------------------------------------------------

type memJobs struct {
	mu    sync.Mutex
	seq   int
	items map[string]*domain.Job
	order []string
}

func newMemJobs() *memJobs { return &memJobs{items: map[string]*domain.Job{}} }

func cloneJob(j *domain.Job) *domain.Job {
	c := *j
	c.Applicants = append([]domain.Applicant{}, j.Applicants...)
	return &c
}

func (r *memJobs) Create(_ context.Context, j *domain.Job) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := cloneJob(j)
	if c.ID == "" {
		r.seq++
		c.ID = fmt.Sprintf("job-%d", r.seq)
	}
	r.items[c.ID] = c
	r.order = append(r.order, c.ID)
	return cloneJob(c), nil
}

func (r *memJobs) FindByID(_ context.Context, id string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneJob(j), nil
}

func (r *memJobs) UpdateDetails(_ context.Context, j *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[j.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := cloneJob(j)
	c.Applicants = cur.Applicants
	c.PostedBy = cur.PostedBy
	r.items[j.ID] = c
	return nil
}

func (r *memJobs) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memJobs) all() []*domain.Job {
	out := make([]*domain.Job, 0, len(r.items))
	for _, id := range r.order {
		if j, ok := r.items[id]; ok {
			out = append(out, cloneJob(j))
		}
	}
	return out
}

func (r *memJobs) Find(_ context.Context, q *query.Query) ([]*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return memFind(r.all(), q), nil
}

func (r *memJobs) Count(_ context.Context, q *query.Query) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(memFind(r.all(), q.Unpaginated()))), nil
}

func (r *memJobs) AddApplicant(_ context.Context, jobID string, a domain.Applicant) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.items[jobID]
	if !ok || j.Status != domain.JobOpen {
		return false, nil
	}
	if _, applied := j.Applicant(a.Employee); applied {
		return false, nil
	}
	j.Applicants = append(j.Applicants, a)
	return true, nil
}

func (r *memJobs) RemoveApplicant(_ context.Context, jobID, employeeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.items[jobID]
	if !ok {
		return false, nil
	}
	for i, a := range j.Applicants {
		if a.Employee == employeeID {
			j.Applicants = append(j.Applicants[:i], j.Applicants[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memJobs) SetApplicantStatus(_ context.Context, jobID, employeeID string, from, to domain.ApplicationStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.items[jobID]
	if !ok {
		return false, nil
	}
	a, ok := j.Applicant(employeeID)
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status = to
	return true, nil
}

func (r *memJobs) MarkApplicantViewed(_ context.Context, jobID, employeeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.items[jobID]
	if !ok {
		return false, nil
	}
	a, ok := j.Applicant(employeeID)
	if !ok {
		return false, nil
	}
	a.IsViewed = true
	return true, nil
}

func (r *memJobs) CountApplicants(_ context.Context, status domain.ApplicationStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, j := range r.items {
		for _, a := range j.Applicants {
			if a.Status == status {
				n++
			}
		}
	}
	return n, nil
}

type memCourses struct {
	mu        sync.Mutex
	seq       int
	items     map[string]*domain.Course
	createErr error
}

func newMemCourses() *memCourses { return &memCourses{items: map[string]*domain.Course{}} }

func cloneCourse(c *domain.Course) *domain.Course {
	out := *c
	out.Applicants = append([]domain.Applicant{}, c.Applicants...)
	return &out
}

func (r *memCourses) Create(_ context.Context, c *domain.Course) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	out := cloneCourse(c)
	r.seq++
	out.ID = fmt.Sprintf("course-%d", r.seq)
	r.items[out.ID] = out
	return cloneCourse(out), nil
}

func (r *memCourses) FindByID(_ context.Context, id string) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneCourse(c), nil
}

func (r *memCourses) UpdateDetails(_ context.Context, c *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	out := cloneCourse(c)
	out.Applicants = cur.Applicants
	r.items[c.ID] = out
	return nil
}

func (r *memCourses) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memCourses) all() []*domain.Course {
	out := make([]*domain.Course, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, cloneCourse(c))
	}
	return out
}

func (r *memCourses) Find(_ context.Context, q *query.Query) ([]*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return memFind(r.all(), q), nil
}

func (r *memCourses) Count(_ context.Context, q *query.Query) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(memFind(r.all(), q.Unpaginated()))), nil
}

func (r *memCourses) AddApplicant(_ context.Context, courseID string, a domain.Applicant) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[courseID]
	if !ok {
		return false, domain.ErrNotFound
	}
	for _, existing := range c.Applicants {
		if existing.Employee == a.Employee {
			return false, nil
		}
	}
	if c.NumberOfSeats > 0 && len(c.Applicants) >= c.NumberOfSeats {
		return false, nil
	}
	c.Applicants = append(c.Applicants, a)
	return true, nil
}

type memEvents struct {
	mu    sync.Mutex
	seq   int
	items map[string]*domain.Event
}

func newMemEvents() *memEvents { return &memEvents{items: map[string]*domain.Event{}} }

func (r *memEvents) Create(_ context.Context, e *domain.Event) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := cloneOf(e)
	r.seq++
	out.ID = fmt.Sprintf("event-%d", r.seq)
	r.items[out.ID] = out
	return cloneOf(out), nil
}

func (r *memEvents) FindByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneOf(e), nil
}

func (r *memEvents) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memEvents) all() []*domain.Event {
	out := make([]*domain.Event, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, cloneOf(e))
	}
	return out
}

func (r *memEvents) Find(_ context.Context, q *query.Query) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return memFind(r.all(), q), nil
}

func (r *memEvents) Count(_ context.Context, q *query.Query) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(memFind(r.all(), q.Unpaginated()))), nil
}

type memPayments struct {
	mu    sync.Mutex
	seq   int
	items map[string]*domain.Payment
	// updateErrs fail the next UpdateStatus calls, one error each.
	updateErrs []error
}

func newMemPayments() *memPayments { return &memPayments{items: map[string]*domain.Payment{}} }

func (r *memPayments) Create(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.OrderID == p.OrderID {
			return nil, domain.ErrConflict
		}
	}
	out := cloneOf(p)
	r.seq++
	out.ID = fmt.Sprintf("payment-%d", r.seq)
	r.items[out.ID] = out
	return cloneOf(out), nil
}

func (r *memPayments) FindByID(_ context.Context, id string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneOf(p), nil
}

func (r *memPayments) FindByOrderID(_ context.Context, orderID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.OrderID == orderID {
			return cloneOf(p), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memPayments) UpdateStatus(_ context.Context, orderID string, status domain.PaymentStatus, txID string, at time.Time) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.updateErrs) > 0 {
		err := r.updateErrs[0]
		r.updateErrs = r.updateErrs[1:]
		return nil, err
	}
	for _, p := range r.items {
		if p.OrderID != orderID {
			continue
		}
		p.PaymentStatus = status
		p.TransactionID = txID
		p.UpdatedAt = at
		if status == domain.PaymentPaid {
			paid := at
			p.PaymentDate = &paid
		}
		return cloneOf(p), nil
	}
	return nil, domain.ErrNotFound
}

func (r *memPayments) all() []*domain.Payment {
	out := make([]*domain.Payment, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, cloneOf(p))
	}
	return out
}

func (r *memPayments) Find(_ context.Context, q *query.Query) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return memFind(r.all(), q), nil
}

func (r *memPayments) Count(_ context.Context, q *query.Query) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(memFind(r.all(), q.Unpaginated()))), nil
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

type stubMailer struct {
	mu   sync.Mutex
	err  error
	sent []ports.Mail
}

func (m *stubMailer) Send(_ context.Context, mail ports.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *stubMailer) last() ports.Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ports.Mail{}
	}
	return m.sent[len(m.sent)-1]
}

type stubQueue struct {
	mu     sync.Mutex
	queued []ports.Mail
}

func (q *stubQueue) Enqueue(m ports.Mail) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queued = append(q.queued, m)
}

type stubStorage struct {
	mu        sync.Mutex
	seq       int
	uploadErr error
	stored    map[string]ports.File
	deleted   []string
}

func newStubStorage() *stubStorage { return &stubStorage{stored: map[string]ports.File{}} }

func (s *stubStorage) Upload(_ context.Context, f ports.File, folder string) (domain.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return domain.StoredFile{}, s.uploadErr
	}
	s.seq++
	id := fmt.Sprintf("%s/file-%d", folder, s.seq)
	s.stored[id] = f
	return domain.StoredFile{FileID: id, Name: f.Name, URL: "https://files.test/" + id}, nil
}

func (s *stubStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stored[id]; !ok {
		return errors.New("no such object")
	}
	delete(s.stored, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type stubLimiter struct {
	allow bool
	retry time.Duration
	err   error
}

func (l *stubLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	return l.allow, l.retry, l.err
}

type stubLocker struct {
	ok    bool
	err   error
	calls int
}

func (l *stubLocker) TryLock(context.Context, string, time.Duration) (bool, error) {
	l.calls++
	return l.ok, l.err
}

type stubDedup struct {
	seen   map[string]bool
	dupErr error
}

func newStubDedup() *stubDedup { return &stubDedup{seen: map[string]bool{}} }

func (d *stubDedup) IsDuplicate(_ context.Context, orderID, status string) (bool, error) {
	if d.dupErr != nil {
		return false, d.dupErr
	}
	return d.seen[orderID+":"+status], nil
}

func (d *stubDedup) Mark(_ context.Context, orderID, status string) error {
	d.seen[orderID+":"+status] = true
	return nil
}

type stubGateway struct {
	createErr error
	status    map[string]domain.PaymentStatus
	statusErr error
	verifyErr error
	requests  []ports.OrderRequest
}

func newStubGateway() *stubGateway {
	return &stubGateway{status: map[string]domain.PaymentStatus{}}
}

func (g *stubGateway) CreateOrder(_ context.Context, req ports.OrderRequest) (*ports.Order, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.requests = append(g.requests, req)
	return &ports.Order{OrderID: req.OrderID, Token: "snap-token", RedirectURL: "https://pay.test/" + req.OrderID}, nil
}

func (g *stubGateway) Status(_ context.Context, orderID string) (*ports.GatewayStatus, error) {
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	st, ok := g.status[orderID]
	if !ok {
		st = domain.PaymentPending
	}
	return &ports.GatewayStatus{OrderID: orderID, Status: st, TransactionID: "tx-" + orderID}, nil
}

func (g *stubGateway) Verify(n ports.Notification) (*ports.GatewayStatus, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	var st domain.PaymentStatus
	switch n.TransactionStatus {
	case "settlement", "capture":
		st = domain.PaymentPaid
	case "pending":
		st = domain.PaymentPending
	default:
		st = domain.PaymentFailed
	}
	return &ports.GatewayStatus{OrderID: n.OrderID, Status: st, TransactionID: n.TransactionID, GrossAmount: n.GrossAmount}, nil
}

type stubExporter struct {
	rows []ports.ApplicantRow
}

func (e *stubExporter) Export(job *domain.Job, rows []ports.ApplicantRow) ([]byte, string, error) {
	e.rows = rows
	return []byte("xlsx"), job.ID + "-applicants.xlsx", nil
}

type stubThumbnailer struct {
	err error
}

func (t *stubThumbnailer) Thumbnail(content []byte, _ int) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return pngBytes, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

// pngBytes is a 1x1 PNG; mimetype detects it from the signature.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func pngFile() ports.File {
	return ports.File{Name: "logo.png", ContentType: "image/png", Content: pngBytes}
}

func newTestUploader(storage *stubStorage) *Uploader {
	return NewUploader(storage, nil, 0, zerolog.Nop())
}

func employeePrincipal(e *domain.Employee) *domain.Principal {
	return &domain.Principal{Role: domain.RoleEmployee, Employee: e}
}

func employerPrincipal(e *domain.Employer) *domain.Principal {
	return &domain.Principal{Role: domain.RoleEmployer, Employer: e}
}

func adminPrincipal(id string) *domain.Principal {
	return &domain.Principal{Role: domain.RoleAdmin, Admin: &domain.Admin{Account: domain.Account{ID: id, FullName: "Root", Email: "root@medhr.test"}}}
}

func seedEmployee(repo *memAccounts[domain.Employee, *domain.Employee], name, email string) *domain.Employee {
	e, err := repo.Create(context.Background(), &domain.Employee{Account: domain.Account{FullName: name, Email: email, Verified: true}})
	if err != nil {
		panic(err)
	}
	return e
}

func seedEmployer(repo *memAccounts[domain.Employer, *domain.Employer], name, email string) *domain.Employer {
	e, err := repo.Create(context.Background(), &domain.Employer{
		Account: domain.Account{FullName: name, Email: email, Verified: true},
		EmployerProfile: domain.EmployerProfile{
			CompanyDetails: []domain.CompanyDetails{{CompanyName: "Acme Health", IndustryType: "Hospital"}},
		},
	})
	if err != nil {
		panic(err)
	}
	return e
}

// fixedClock returns a clock frozen at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
