package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/query"
)

const companyThumbnailSide = 200

// notFound replaces a repository miss with a user-facing message.
func notFound(err error, message string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewError(domain.ErrNotFound, message)
	}
	return err
}

// ---------------------------------------------------------------------------
// Employee
// ---------------------------------------------------------------------------

type employeeService struct {
	repo    ports.EmployeeRepository
	uploads *Uploader
	log     zerolog.Logger
}

func NewEmployeeService(repo ports.EmployeeRepository, uploads *Uploader, log zerolog.Logger) ports.EmployeeService {
	return &employeeService{repo: repo, uploads: uploads, log: log}
}

func (s *employeeService) load(ctx context.Context, id string) (*domain.Employee, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return e, nil
}

// UpdateDetails merges the non-empty fields of in into the profile.
func (s *employeeService) UpdateDetails(ctx context.Context, id string, in ports.EmployeeDetailsInput) (*domain.Employee, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.FullName); v != "" {
		e.FullName = v
	}
	if in.MobileNumber != "" {
		e.MobileNumber = in.MobileNumber
	}
	mergeEmployeeProfile(&e.EmployeeProfile, in.Profile)

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return e, nil
}

func (s *employeeService) UpdateAvatar(ctx context.Context, id string, f ports.File) (*domain.Employee, error) {
	return s.replaceFile(ctx, id, f, FolderAvatars, imageFile, func(e *domain.Employee) **domain.StoredFile {
		return &e.Avatar
	})
}

func (s *employeeService) UploadResume(ctx context.Context, id string, f ports.File) (*domain.Employee, error) {
	return s.replaceFile(ctx, id, f, FolderResumes, documentFile, func(e *domain.Employee) **domain.StoredFile {
		return &e.Resume
	})
}

// replaceFile stores the new file before the record points at it and drops
// the previous object only once the record is saved.
func (s *employeeService) replaceFile(
	ctx context.Context,
	id string,
	f ports.File,
	folder string,
	kind fileKind,
	slot func(*domain.Employee) **domain.StoredFile,
) (*domain.Employee, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	stored, err := s.uploads.upload(ctx, e.ID, f, folder, kind)
	if err != nil {
		return nil, err
	}

	field := slot(e)
	previous := *field
	*field = &stored
	if err := s.repo.Update(ctx, e); err != nil {
		s.uploads.discard(ctx, &stored)
		return nil, fmt.Errorf("update employee: %w", err)
	}
	s.uploads.discard(ctx, previous)
	return e, nil
}

func mergeEmployeeProfile(dst *domain.EmployeeProfile, src domain.EmployeeProfile) {
	setString(&dst.DOB, src.DOB)
	setString(&dst.Designation, src.Designation)
	setString(&dst.Gender, src.Gender)
	if src.Guardian != nil {
		dst.Guardian = src.Guardian
	}
	if src.Address != nil {
		dst.Address = src.Address
	}
	setSlice(&dst.PreferredLanguages, src.PreferredLanguages)
	setSlice(&dst.AreasOfInterests, src.AreasOfInterests)
	setSlice(&dst.CurrentlyLookingFor, src.CurrentlyLookingFor)
	setSlice(&dst.InterestedDepartments, src.InterestedDepartments)
	setSlice(&dst.InterestedCountries, src.InterestedCountries)
	setSlice(&dst.Education, src.Education)
	setSlice(&dst.Projects, src.Projects)
	setSlice(&dst.Experience, src.Experience)
	setSlice(&dst.Certifications, src.Certifications)
	setSlice(&dst.Skills, src.Skills)
	setSlice(&dst.Interests, src.Interests)
	if src.SocialLinks != nil {
		dst.SocialLinks = src.SocialLinks
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setSlice[T any](dst *[]T, v []T) {
	if v != nil {
		*dst = v
	}
}

// ---------------------------------------------------------------------------
// Employer
// ---------------------------------------------------------------------------

type employerService struct {
	employers ports.EmployerRepository
	employees ports.EmployeeRepository
	uploads   *Uploader
	thumbs    ports.Thumbnailer
	mailer    ports.Mailer
	appName   string
	log       zerolog.Logger
}

func NewEmployerService(
	employers ports.EmployerRepository,
	employees ports.EmployeeRepository,
	uploads *Uploader,
	thumbs ports.Thumbnailer,
	mailer ports.Mailer,
	appName string,
	log zerolog.Logger,
) ports.EmployerService {
	return &employerService{
		employers: employers,
		employees: employees,
		uploads:   uploads,
		thumbs:    thumbs,
		mailer:    mailer,
		appName:   appName,
		log:       log,
	}
}

func (s *employerService) load(ctx context.Context, id string) (*domain.Employer, error) {
	e, err := s.employers.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return e, nil
}

func (s *employerService) UpdateDetails(ctx context.Context, id string, in ports.EmployerDetailsInput) (*domain.Employer, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.FullName); v != "" {
		e.FullName = v
	}
	setString(&e.MobileNumber, in.MobileNumber)
	setSlice(&e.Address, in.Address)
	setSlice(&e.CompanyDetails, in.CompanyDetails)

	if err := s.employers.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update employer: %w", err)
	}
	return e, nil
}

// UpdateCompanyAvatar stores the logo together with a small thumbnail used
// in listings. A logo whose thumbnail cannot be produced is kept without one.
func (s *employerService) UpdateCompanyAvatar(ctx context.Context, id string, f ports.File) (*domain.Employer, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	stored, err := s.uploads.upload(ctx, e.ID, f, FolderCompanyAvatars, imageFile)
	if err != nil {
		return nil, err
	}

	if s.thumbs != nil {
		if thumb, terr := s.thumbs.Thumbnail(f.Content, companyThumbnailSide); terr != nil {
			s.log.Warn().Err(terr).Str("employer", e.ID).Msg("company avatar thumbnail failed")
		} else {
			name := "thumb-" + strings.TrimSuffix(f.Name, path.Ext(f.Name)) + ".jpg"
			t, terr := s.uploads.storeDerived(ctx, ports.File{Name: name, ContentType: "image/jpeg", Content: thumb}, FolderCompanyAvatars)
			if terr != nil {
				s.log.Warn().Err(terr).Str("employer", e.ID).Msg("company avatar thumbnail not stored")
			} else {
				stored.ThumbnailURL = t.URL
				stored.ThumbnailID = t.FileID
			}
		}
	}

	previous := e.CompanyAvatar
	e.CompanyAvatar = &stored
	if err := s.employers.Update(ctx, e); err != nil {
		s.uploads.discard(ctx, &stored)
		return nil, fmt.Errorf("update employer: %w", err)
	}
	s.uploads.discard(ctx, previous)
	return e, nil
}

// FindCandidates searches employees by name and filters on any profile field.
func (s *employerService) FindCandidates(ctx context.Context, p query.Params) (query.Result[*domain.Employee], error) {
	q := query.New(query.Eq("verified", "true")).
		Search(p, "full_name").
		Filter(p, query.CaseInsensitive("designation", "gender"), hideCredentials).
		Sort(p, query.Desc("createdAt"))
	return list[*domain.Employee](ctx, s.employees, q, p)
}

func (s *employerService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	e, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Employee not found")
	}
	return e, nil
}

// ContactEmployee emails a candidate. Replies go straight to the employer.
func (s *employerService) ContactEmployee(ctx context.Context, from *domain.Employer, employeeID string, in ports.ContactInput) error {
	e, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return err
	}

	var company string
	if len(from.CompanyDetails) > 0 {
		company = from.CompanyDetails[0].CompanyName
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = "New message from " + from.FullName
	}

	m, err := renderMail(mailContactEmployee, e.Email, subject, mailData{
		App:       s.appName,
		Name:      e.FullName,
		From:      from.FullName,
		FromEmail: from.Email,
		Company:   company,
		Message:   in.Message,
	})
	if err != nil {
		return err
	}
	m.ReplyTo = from.Email
	if err := sendMail(ctx, s.mailer, m); err != nil {
		s.log.Error().Err(err).Str("employee", e.ID).Msg("contact email not sent")
		return domain.NewError(domain.ErrUpstream, "Failed to send email")
	}
	return nil
}
