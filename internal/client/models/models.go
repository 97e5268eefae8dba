// Package models defines the request and response shapes the CLI exchanges
// with the cyberspace API.
package models

import "io"

// SignUp is the registration form. Image is optional.
type SignUp struct {
	FirstName    string
	LastName     string
	Email        string
	MobileNumber string
	CollegeName  string
	Password     []byte
	Image        *Attachment
}

// Attachment is a local file sent with a multipart form.
type Attachment struct {
	Name    string
	Content io.Reader
}

type Profile struct {
	ID             int64   `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email_id"`
	MobileNumber   string  `json:"mobile_number"`
	CollegeName    string  `json:"college_name"`
	ImageFilename  *string `json:"image_filename"`
	Internships    int     `json:"virtual_internships"`
	Seminars       int     `json:"seminars"`
	Webinars       int     `json:"webinars"`
	ResearchPapers int     `json:"research_papers"`
}

// EventKind selects the seminar or webinar endpoint.
type EventKind string

const (
	Seminar EventKind = "seminar"
	Webinar EventKind = "webinar"
)

type Event struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email_id"`
	PhoneNumber        string `json:"phone_number"`
	Course             string `json:"course"`
	YearOfStudy        string `json:"year_of_study"`
	Topic              string `json:"topic"`
	AdditionalComments string `json:"additional_comments"`
}

// Internship mirrors the server form; AvailableStartDate is dd-mm-yyyy.
type Internship struct {
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	Email                 string `json:"email_id"`
	PhoneNumber           string `json:"phone_number"`
	Address               string `json:"address"`
	HighestQualification  string `json:"highest_qualification"`
	FieldOfStudy          string `json:"field_of_study"`
	SkillsAndStrengths    string `json:"skills_and_strengths"`
	Experience            string `json:"experience"`
	AvailableStartDate    string `json:"available_start_date"`
	PreferredInternship   string `json:"preferred_internship"`
	AdditionalInformation string `json:"additional_info"`
}

type Paper struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	StudentID   string
	Title       string
	Abstract    string
	Keywords    string
	Category    string
	PDF         *Attachment
}

// Created is the id the server assigns to a new record.
type Created struct {
	ID int64 `json:"id"`
}
