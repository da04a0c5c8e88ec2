package domain

import "time"

// Role is the tag carried in the access token. It decides which collection a
// principal is looked up in.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known principal kinds.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// StoredFile is a reference to an object held by the file storage collaborator.
type StoredFile struct {
	FileID       string `json:"fileId,omitempty" bson:"fileId,omitempty"`
	Name         string `json:"name,omitempty" bson:"name,omitempty"`
	URL          string `json:"url,omitempty" bson:"url,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	ThumbnailID  string `json:"-" bson:"thumbnailId,omitempty"`
}

// Empty reports whether no file is referenced.
func (f *StoredFile) Empty() bool {
	return f == nil || f.FileID == ""
}

// Account holds the fields shared by every principal kind.
type Account struct {
	ID                  string     `json:"_id" bson:"_id,omitempty"`
	FullName            string     `json:"full_name" bson:"full_name"`
	Email               string     `json:"email" bson:"email"`
	MobileNumber        string     `json:"mobilenumber,omitempty" bson:"mobilenumber,omitempty"`
	PasswordHash        string     `json:"-" bson:"password"`
	Verified            bool       `json:"verified" bson:"verified"`
	OTP                 string     `json:"-" bson:"otp,omitempty"`
	OTPExpiry           *time.Time `json:"-" bson:"otp_expiry,omitempty"`
	ResetPasswordToken  string     `json:"-" bson:"reset_password_token,omitempty"`
	ResetPasswordExpire *time.Time `json:"-" bson:"reset_password_expire,omitempty"`
	CreatedAt           time.Time  `json:"createdAt" bson:"createdAt"`
}

// AccountRef gives generic code access to the shared fields of any
// principal kind that embeds Account.
func (a *Account) AccountRef() *Account { return a }

// AccountHolder is satisfied by *Employee, *Employer and *Admin.
type AccountHolder[T any] interface {
	*T
	AccountRef() *Account
}

// PendingExpired reports whether the account never finished verification and
// its one-time code is past expiry at now.
func (a *Account) PendingExpired(now time.Time) bool {
	return !a.Verified && a.OTP != "" && a.OTPExpiry != nil && !a.OTPExpiry.After(now)
}

type Guardian struct {
	GuardianName string `json:"guardianName,omitempty" bson:"guardianName,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Occupation   string `json:"occupation,omitempty" bson:"occupation,omitempty"`
}

type PostalAddress struct {
	Street     string `json:"street,omitempty" bson:"street,omitempty"`
	City       string `json:"city,omitempty" bson:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty" bson:"postalCode,omitempty"`
	State      string `json:"state,omitempty" bson:"state,omitempty"`
	Country    string `json:"country,omitempty" bson:"country,omitempty"`
}

type Education struct {
	DesignationType string     `json:"designationType,omitempty" bson:"designationType,omitempty"`
	InstitutionName string     `json:"institutionName,omitempty" bson:"institutionName,omitempty"`
	City            string     `json:"city,omitempty" bson:"city,omitempty"`
	CourseName      string     `json:"courseName,omitempty" bson:"courseName,omitempty"`
	Grade           string     `json:"grade,omitempty" bson:"grade,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
}

type Project struct {
	Title       string     `json:"title,omitempty" bson:"title,omitempty"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Link        string     `json:"link,omitempty" bson:"link,omitempty"`
}

type Experience struct {
	Designation     string     `json:"designation,omitempty" bson:"designation,omitempty"`
	CompanyName     string     `json:"companyName,omitempty" bson:"companyName,omitempty"`
	WorkType        string     `json:"workType,omitempty" bson:"workType,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Description     string     `json:"description,omitempty" bson:"description,omitempty"`
	CompanyLocation string     `json:"companyLocation,omitempty" bson:"companyLocation,omitempty"`
	ProjectLinks    []string   `json:"projectLinks,omitempty" bson:"projectLinks,omitempty"`
}

type Certification struct {
	Name                string     `json:"name,omitempty" bson:"name,omitempty"`
	IssuingOrganization string     `json:"issuingOrganization,omitempty" bson:"issuingOrganization,omitempty"`
	IssueDate           *time.Time `json:"issueDate,omitempty" bson:"issueDate,omitempty"`
	CredentialID        string     `json:"credentialID,omitempty" bson:"credentialID,omitempty"`
	CredentialURL       string     `json:"credentialURL,omitempty" bson:"credentialURL,omitempty"`
}

// EmployeeProfile is the part of an employee record the owner may edit freely.
type EmployeeProfile struct {
	DOB                   string            `json:"dob,omitempty" bson:"dob,omitempty"`
	Designation           string            `json:"designation,omitempty" bson:"designation,omitempty"`
	Gender                string            `json:"gender,omitempty" bson:"gender,omitempty"`
	Guardian              *Guardian         `json:"guardian,omitempty" bson:"guardian,omitempty"`
	PreferredLanguages    []string          `json:"preferredLanguages,omitempty" bson:"preferredLanguages,omitempty"`
	AreasOfInterests      []string          `json:"areasOfInterests,omitempty" bson:"areasOfInterests,omitempty"`
	CurrentlyLookingFor   []string          `json:"currentlyLookingFor,omitempty" bson:"currentlyLookingFor,omitempty"`
	InterestedDepartments []string          `json:"interestedDepartments,omitempty" bson:"interestedDepartments,omitempty"`
	InterestedCountries   []string          `json:"interestedCountries,omitempty" bson:"interestedCountries,omitempty"`
	Address               *PostalAddress    `json:"address,omitempty" bson:"address,omitempty"`
	Education             []Education       `json:"education,omitempty" bson:"education,omitempty"`
	Projects              []Project         `json:"projects,omitempty" bson:"projects,omitempty"`
	Experience            []Experience      `json:"experience,omitempty" bson:"experience,omitempty"`
	Certifications        []Certification   `json:"certifications,omitempty" bson:"certifications,omitempty"`
	Skills                []string          `json:"skills,omitempty" bson:"skills,omitempty"`
	SocialLinks           map[string]string `json:"socialLinks,omitempty" bson:"socialLinks,omitempty"`
	Interests             []string          `json:"interests,omitempty" bson:"interests,omitempty"`
}

// Employee is a job seeker.
type Employee struct {
	Account         `bson:",inline"`
	EmployeeProfile `bson:",inline"`
	Avatar          *StoredFile `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Resume          *StoredFile `json:"resumes,omitempty" bson:"resumes,omitempty"`
}

type SocialLink struct {
	LinkedIn string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty" bson:"github,omitempty"`
}

// CompanyDetails describes the organisation an employer posts on behalf of.
type CompanyDetails struct {
	CompanyName     string      `json:"companyName,omitempty" bson:"companyName,omitempty"`
	IndustryType    string      `json:"industryType,omitempty" bson:"industryType,omitempty"`
	WebsiteLink     string      `json:"websiteLink,omitempty" bson:"websiteLink,omitempty"`
	ContactEmail    string      `json:"contactEmail,omitempty" bson:"contactEmail,omitempty"`
	ContactPhone    string      `json:"contactPhone,omitempty" bson:"contactPhone,omitempty"`
	CompanyLocation string      `json:"companyLocation,omitempty" bson:"companyLocation,omitempty"`
	Bio             string      `json:"bio,omitempty" bson:"bio,omitempty"`
	SocialLink      *SocialLink `json:"socialLink,omitempty" bson:"socialLink,omitempty"`
}

// EmployerProfile is the editable part of an employer record.
type EmployerProfile struct {
	Address        []PostalAddress  `json:"address,omitempty" bson:"address,omitempty"`
	CompanyDetails []CompanyDetails `json:"companyDetails,omitempty" bson:"companyDetails,omitempty"`
}

// Employer posts jobs, courses and events.
type Employer struct {
	Account         `bson:",inline"`
	EmployerProfile `bson:",inline"`
	CompanyAvatar   *StoredFile `json:"company_avatar,omitempty" bson:"company_avatar,omitempty"`
}

// Admin moderates the platform. Admin accounts are created verified.
type Admin struct {
	Account `bson:",inline"`
}

// Principal is the authenticated caller of a request. Exactly one of the
// pointer fields is set, matching Role.
type Principal struct {
	Role     Role
	Employee *Employee
	Employer *Employer
	Admin    *Admin
}

// ID returns the identity of whichever variant is set.
func (p *Principal) ID() string {
	if a := p.Account(); a != nil {
		return a.ID
	}
	return ""
}

// Account returns the shared account fields of the set variant.
func (p *Principal) Account() *Account {
	if p == nil {
		return nil
	}
	switch p.Role {
	case RoleEmployee:
		if p.Employee != nil {
			return &p.Employee.Account
		}
	case RoleEmployer:
		if p.Employer != nil {
			return &p.Employer.Account
		}
	case RoleAdmin:
		if p.Admin != nil {
			return &p.Admin.Account
		}
	}
	return nil
}

// Poster is the author snapshot stored on jobs, courses and events.
type Poster struct {
	ID       string `json:"_id" bson:"_id"`
	FullName string `json:"full_name,omitempty" bson:"full_name,omitempty"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
	Role     Role   `json:"role,omitempty" bson:"role,omitempty"`
}

// PosterOf snapshots the calling principal as an author.
func PosterOf(p *Principal) Poster {
	a := p.Account()
	if a == nil {
		return Poster{Role: p.Role}
	}
	return Poster{ID: a.ID, FullName: a.FullName, Email: a.Email, Role: p.Role}
}

// CanManage reports whether p may modify a resource authored by owner.
// Admins may manage everything; everybody else only what they posted.
func (p *Principal) CanManage(owner Poster) bool {
	if p == nil {
		return false
	}
	if p.Role == RoleAdmin {
		return true
	}
	return owner.ID != "" && owner.ID == p.ID()
}
