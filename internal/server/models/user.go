package models

import "time"

// User is a registered student account.
type User struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email_id"`
	MobileNumber  string    `json:"mobile_number"`
	CollegeName   string    `json:"college_name"`
	PasswordHash  string    `json:"-"`
	ImageFilename *string   `json:"image_filename"`
	CreatedAt     time.Time `json:"created_at"`
}

// Profile is a user together with counts of their event registrations.
type Profile struct {
	User
	Internships    int `json:"virtual_internships"`
	Seminars       int `json:"seminars"`
	Webinars       int `json:"webinars"`
	ResearchPapers int `json:"research_papers"`
}
