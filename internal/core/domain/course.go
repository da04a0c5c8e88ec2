package domain

import "time"

const (
	PricingFree = "Free"
	PricingPaid = "Paid"
)

// Course is a training offer posted by an employer or admin.
type Course struct {
	ID                               string      `json:"_id" bson:"_id,omitempty"`
	CourseName                       string      `json:"courseName" bson:"courseName"`
	CourseOverview                   string      `json:"courseOverview" bson:"courseOverview"`
	CourseDescription                string      `json:"courseDescription" bson:"courseDescription"`
	CourseType                       string      `json:"courseType" bson:"courseType"`
	Department                       string      `json:"department" bson:"department"`
	Duration                         string      `json:"duration" bson:"duration"`
	DesiredQualificationOrExperience string      `json:"desiredQualificationOrExperience,omitempty" bson:"desiredQualificationOrExperience,omitempty"`
	CourseLink                       string      `json:"courseLink,omitempty" bson:"courseLink,omitempty"`
	PricingType                      string      `json:"pricingType" bson:"pricingType"`
	Fee                              float64     `json:"fee,omitempty" bson:"fee,omitempty"`
	NumberOfSeats                    int         `json:"numberOfSeats,omitempty" bson:"numberOfSeats,omitempty"`
	IsIncludedCertificate            bool        `json:"isIncludedCertificate" bson:"isIncludedCertificate"`
	Thumbnail                        *StoredFile `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	PostedBy                         Poster      `json:"postedBy" bson:"postedBy"`
	CreatedAt                        time.Time   `json:"createdAt" bson:"createdAt"`
	Applicants                       []Applicant `json:"applicants" bson:"applicants"`
}
