package domain

import "time"

// EventCompany is the organisation hosting an event.
type EventCompany struct {
	CompanyName     string `json:"companyName" bson:"companyName"`
	CompanyLocation string `json:"companyLocation" bson:"companyLocation"`
}

// Event is a webinar, fair or meetup announced on the board.
type Event struct {
	ID               string       `json:"_id" bson:"_id,omitempty"`
	Image            *StoredFile  `json:"image,omitempty" bson:"image,omitempty"`
	EventName        string       `json:"eventName" bson:"eventName"`
	EventURL         string       `json:"eventUrl" bson:"eventUrl"`
	OrganizerName    string       `json:"organizerName,omitempty" bson:"organizerName,omitempty"`
	OrganizationType string       `json:"organizationType,omitempty" bson:"organizationType,omitempty"`
	Department       string       `json:"department,omitempty" bson:"department,omitempty"`
	Date             string       `json:"date" bson:"date"`
	Time             string       `json:"time" bson:"time"`
	Company          EventCompany `json:"company" bson:"company"`
	SkillCovered     []string     `json:"skillCovered,omitempty" bson:"skillCovered,omitempty"`
	PostedBy         Poster       `json:"postedBy" bson:"postedBy"`
	CreatedAt        time.Time    `json:"createdAt" bson:"createdAt"`
}
