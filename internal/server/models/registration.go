package models

import "time"

type VirtualInternship struct {
	ID                    int64     `json:"id"`
	UserID                int64     `json:"user_id"`
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	Email                 string    `json:"email_id"`
	PhoneNumber           string    `json:"phone_number"`
	Address               string    `json:"address"`
	HighestQualification  string    `json:"highest_qualification"`
	FieldOfStudy          string    `json:"field_of_study"`
	SkillsAndStrengths    string    `json:"skills_and_strengths"`
	Experience            string    `json:"experience"`
	AvailableStartDate    time.Time `json:"available_start_date"`
	PreferredInternship   string    `json:"preferred_internship"`
	AdditionalInformation string    `json:"additional_info"`
}

// EventKind distinguishes seminar and webinar sign-ups, which share a shape.
type EventKind string

const (
	KindSeminar EventKind = "seminar"
	KindWebinar EventKind = "webinar"
)

type EventRegistration struct {
	ID                 int64     `json:"id"`
	Kind               EventKind `json:"-"`
	UserID             int64     `json:"user_id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email_id"`
	PhoneNumber        string    `json:"phone_number"`
	Course             string    `json:"course"`
	YearOfStudy        string    `json:"year_of_study"`
	Topic              string    `json:"topic"`
	AdditionalComments string    `json:"additional_comments"`
}

// ResearchPaper is a paper submission. StudentID is the institution's
// student number as typed by the submitter, not a user id.
type ResearchPaper struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email_id"`
	PhoneNumber   string `json:"phone_number"`
	StudentID     string `json:"student_id"`
	Title         string `json:"paper_title"`
	Abstract      string `json:"abstract"`
	Keywords      string `json:"keywords"`
	Category      string `json:"paper_category"`
	PaperFilename string `json:"paper_pdf"`
}

// RegistrationCounts is the per-user tally shown on the profile.
type RegistrationCounts struct {
	Internships    int
	Seminars       int
	Webinars       int
	ResearchPapers int
}
