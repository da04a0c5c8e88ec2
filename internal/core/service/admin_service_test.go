package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

type adminFixture struct {
	svc       ports.AdminService
	deps      AdminDeps
	employers *memAccounts[domain.Employer, *domain.Employer]
	employees *memAccounts[domain.Employee, *domain.Employee]
	jobs      *memJobs
	storage   *stubStorage
	mailer    *stubMailer
}

func newAdminFixture(adminEmail string) *adminFixture {
	f := &adminFixture{
		employers: newMemEmployers(),
		employees: newMemEmployees(),
		jobs:      newMemJobs(),
		storage:   newStubStorage(),
		mailer:    &stubMailer{},
	}
	f.deps = AdminDeps{
		Employers: f.employers,
		Employees: f.employees,
		Jobs:      f.jobs,
		Courses:   newMemCourses(),
		Events:    newMemEvents(),
	}
	f.svc = NewAdminService(f.deps, newTestUploader(f.storage), f.mailer, "MedHR+", adminEmail, zerolog.Nop())
	return f
}

func TestAdminService_Counts(t *testing.T) {
	f := newAdminFixture("admin@medhr.test")
	ctx := context.Background()
	seedEmployer(f.employers, "Ravi", "ravi@example.com")
	a := seedEmployee(f.employees, "Asha", "asha@example.com")
	b := seedEmployee(f.employees, "Vikram", "vikram@example.com")
	job, _ := f.jobs.Create(ctx, &domain.Job{Title: "Nurse", Status: domain.JobOpen})
	_, _ = f.jobs.AddApplicant(ctx, job.ID, domain.Applicant{Employee: a.ID, Status: domain.ApplicationHired})
	_, _ = f.jobs.AddApplicant(ctx, job.ID, domain.Applicant{Employee: b.ID, Status: domain.ApplicationApplied})

	c, err := f.svc.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, ports.Counts{Jobs: 1, Employers: 1, Employees: 2, HiredApplicants: 1}, c)
}

func TestAdminService_DeleteEmployee_RemovesFiles(t *testing.T) {
	f := newAdminFixture("admin@medhr.test")
	ctx := context.Background()
	e := seedEmployee(f.employees, "Asha", "asha@example.com")
	avatar, _ := f.storage.Upload(ctx, pngFile(), FolderAvatars)
	e.Avatar = &avatar
	require.NoError(t, f.employees.Update(ctx, e))

	require.NoError(t, f.svc.DeleteEmployee(ctx, e.ID))
	assert.Equal(t, []string{avatar.FileID}, f.storage.deleted)

	assert.ErrorIs(t, f.svc.DeleteEmployee(ctx, e.ID), domain.ErrNotFound)
}

func TestAdminService_ListEmployers(t *testing.T) {
	f := newAdminFixture("admin@medhr.test")
	seedEmployer(f.employers, "Ravi Kumar", "ravi@example.com")
	seedEmployer(f.employers, "Meera Nair", "meera@example.com")

	res, err := f.svc.ListEmployers(context.Background(), query.Params{"keyword": {"MEERA"}})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(2), res.Total)
	assert.Equal(t, int64(1), res.Filtered)

	_, err = f.svc.GetEmployer(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdminService_ListEmployees_IgnoresCredentialFilters(t *testing.T) {
	f := newAdminFixture("admin@medhr.test")
	seedEmployee(f.employees, "Asha Rao", "asha@example.com")

	res, err := f.svc.ListEmployees(context.Background(), query.Params{"password[lt]": {"$2b"}, "otp_expiry[gt]": {"2020-01-01"}})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestAdminService_Contact(t *testing.T) {
	f := newAdminFixture("admin@medhr.test")
	form := ports.ContactForm{Name: "Asha", Email: "asha@example.com", Subject: "Help", Message: "Cannot upload my resume"}

	require.NoError(t, f.svc.Contact(context.Background(), form))
	m := f.mailer.last()
	assert.Equal(t, "admin@medhr.test", m.To)
	assert.Equal(t, "asha@example.com", m.ReplyTo)
	assert.Contains(t, m.Body, "Cannot upload my resume")

	f.mailer.err = errors.New("smtp down")
	assert.ErrorIs(t, f.svc.Contact(context.Background(), form), domain.ErrUpstream)

	unconfigured := newAdminFixture("")
	assert.ErrorIs(t, unconfigured.svc.Contact(context.Background(), form), domain.ErrUpstream)
}
