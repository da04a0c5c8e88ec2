package domain

import (
	"time"
)

// JobStatus is whether a posting still accepts applications.
type JobStatus string

const (
	JobOpen   JobStatus = "Open"
	JobClosed JobStatus = "Closed"
)

const (
	LocationRemote = "Remote"
	LocationOnsite = "Onsite"
	LocationHybrid = "Hybrid"

	EmploymentJob        = "Job"
	EmploymentInternship = "Internship"
)

// employmentCategories lists the categories allowed for each employment type.
var employmentCategories = map[string][]string{
	EmploymentJob:        {"Full-Time", "Part-Time", "Contract"},
	EmploymentInternship: {"Shadow Internship", "Practice Internship"},
}

// ValidEmploymentCategory reports whether category belongs to employmentType.
func ValidEmploymentCategory(employmentType, category string) bool {
	for _, c := range employmentCategories[employmentType] {
		if c == category {
			return true
		}
	}
	return false
}

// ApplicationStatus is the lifecycle state of one application.
type ApplicationStatus string

const (
	ApplicationApplied   ApplicationStatus = "APPLIED"
	ApplicationInterview ApplicationStatus = "INTERVIEW"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationHired     ApplicationStatus = "HIRED"
)

// Valid reports whether s is one of the known statuses. The poster may set
// any of them at any time, including back to APPLIED.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationApplied, ApplicationInterview, ApplicationRejected, ApplicationHired:
		return true
	}
	return false
}

// Applicant is one application embedded in a job or course.
type Applicant struct {
	Employee    string            `json:"employee" bson:"employee"`
	AppliedDate time.Time         `json:"appliedDate" bson:"appliedDate"`
	Status      ApplicationStatus `json:"status" bson:"status"`
	IsViewed    bool              `json:"isViewed" bson:"isViewed"`
}

// JobCompany is the company snapshot copied onto a job when it is posted.
type JobCompany struct {
	CompanyName  string `json:"companyName,omitempty" bson:"companyName,omitempty"`
	IndustryType string `json:"industryType,omitempty" bson:"industryType,omitempty"`
	WebsiteLink  string `json:"websiteLink,omitempty" bson:"websiteLink,omitempty"`
	Bio          string `json:"bio,omitempty" bson:"bio,omitempty"`
	Logo         string `json:"logo,omitempty" bson:"logo,omitempty"`
}

// Job is a posting by an employer or admin.
type Job struct {
	ID                     string      `json:"_id" bson:"_id,omitempty"`
	Title                  string      `json:"title" bson:"title"`
	Description            string      `json:"description" bson:"description"`
	Requirements           string      `json:"requirements" bson:"requirements"`
	RequiredSkills         []string    `json:"requiredSkills" bson:"requiredSkills"`
	Responsibilities       string      `json:"responsibilities" bson:"responsibilities"`
	LocationType           string      `json:"locationType" bson:"locationType"`
	Country                string      `json:"country" bson:"country"`
	City                   string      `json:"city" bson:"city"`
	EmploymentType         string      `json:"employmentType" bson:"employmentType"`
	EmploymentTypeCategory string      `json:"employmentTypeCategory" bson:"employmentTypeCategory"`
	TypeOfOrganization     string      `json:"typeOfOrganization" bson:"typeOfOrganization"`
	Department             string      `json:"department" bson:"department"`
	EmploymentDuration     float64     `json:"employmentDuration,omitempty" bson:"employmentDuration,omitempty"`
	Salary                 float64     `json:"salary,omitempty" bson:"salary,omitempty"`
	CompanyDetails         *JobCompany `json:"companyDetails,omitempty" bson:"companyDetails,omitempty"`
	PostedBy               Poster      `json:"postedBy" bson:"postedBy"`
	PostedAt               time.Time   `json:"postedAt" bson:"postedAt"`
	ApplicationDeadline    *time.Time  `json:"applicationDeadline,omitempty" bson:"applicationDeadline,omitempty"`
	Status                 JobStatus   `json:"status" bson:"status"`
	ExtraBenefits          string      `json:"extraBenefits" bson:"extraBenefits"`
	Experience             string      `json:"experience" bson:"experience"`
	Applicants             []Applicant `json:"applicants" bson:"applicants"`
}

// Applicant returns the application of employeeID, if any.
func (j *Job) Applicant(employeeID string) (*Applicant, bool) {
	for i := range j.Applicants {
		if j.Applicants[i].Employee == employeeID {
			return &j.Applicants[i], true
		}
	}
	return nil, false
}

// AcceptsApplications reports whether the job is open and its deadline, if
// any, has not passed at now.
func (j *Job) AcceptsApplications(now time.Time) bool {
	if j.Status != JobOpen {
		return false
	}
	return j.ApplicationDeadline == nil || !now.After(*j.ApplicationDeadline)
}
