package rest

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/server/models"
	"github.com/dmitrijs2005/cyberspace/internal/server/rest/middleware"
	"github.com/dmitrijs2005/cyberspace/internal/server/services"
	"github.com/gin-gonic/gin"
)

// RegistrationService is the event sign-up API used by the handlers.
type RegistrationService interface {
	RegisterInternship(ctx context.Context, userID int64, in services.InternshipInput) (*models.VirtualInternship, error)
	RegisterEvent(ctx context.Context, userID int64, kind models.EventKind, in services.EventInput) (*models.EventRegistration, error)
	SubmitResearchPaper(ctx context.Context, userID int64, in services.PaperInput) (*models.ResearchPaper, error)
}

type internshipRequest struct {
	FirstName             string `json:"first_name" binding:"required"`
	LastName              string `json:"last_name" binding:"required"`
	Email                 string `json:"email_id" binding:"required,email"`
	PhoneNumber           string `json:"phone_number" binding:"required"`
	Address               string `json:"address" binding:"required"`
	HighestQualification  string `json:"highest_qualification" binding:"required"`
	FieldOfStudy          string `json:"field_of_study" binding:"required"`
	SkillsAndStrengths    string `json:"skills_and_strengths" binding:"required"`
	Experience            string `json:"experience" binding:"required"`
	AvailableStartDate    string `json:"available_start_date" binding:"required"`
	PreferredInternship   string `json:"preferred_internship" binding:"required"`
	AdditionalInformation string `json:"additional_info"`
}

type eventRequest struct {
	FirstName          string `json:"first_name" binding:"required"`
	LastName           string `json:"last_name" binding:"required"`
	Email              string `json:"email_id" binding:"required,email"`
	PhoneNumber        string `json:"phone_number" binding:"required"`
	Course             string `json:"course" binding:"required"`
	YearOfStudy        string `json:"year_of_study" binding:"required"`
	Topic              string `json:"topic" binding:"required"`
	AdditionalComments string `json:"additional_comments"`
}

type paperRequest struct {
	FirstName   string `form:"first_name" binding:"required"`
	LastName    string `form:"last_name" binding:"required"`
	Email       string `form:"email_id" binding:"required,email"`
	PhoneNumber string `form:"phone_number" binding:"required"`
	StudentID   string `form:"student_id" binding:"required"`
	Title       string `form:"paper_title" binding:"required"`
	Abstract    string `form:"abstract" binding:"required"`
	Keywords    string `form:"keywords" binding:"required"`
	Category    string `form:"paper_category" binding:"required"`
}

// internship handles POST /virtualInternship/.
func (h *Handler) internship(c *gin.Context) {
	var req internshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithMappedError(c, bindingError(err), nil)
		return
	}
	id, _ := middleware.UserID(c)

	out, err := h.registrations.RegisterInternship(c.Request.Context(), id, services.InternshipInput(req))
	if err != nil {
		RespondWithMappedError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// event returns the handler for POST /seminar/ and POST /webinar/.
func (h *Handler) event(kind models.EventKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req eventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondWithMappedError(c, bindingError(err), nil)
			return
		}
		id, _ := middleware.UserID(c)

		out, err := h.registrations.RegisterEvent(c.Request.Context(), id, kind, services.EventInput(req))
		if err != nil {
			RespondWithMappedError(c, err, nil)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

// researchPaper handles POST /research-paper/ (multipart, "paper_pdf").
func (h *Handler) researchPaper(c *gin.Context) {
	var req paperRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondWithMappedError(c, bindingError(err), nil)
		return
	}

	upload, closeFn, err := formUpload(c, "paper_pdf")
	if err != nil {
		badRequest(c, "invalid paper upload")
		return
	}
	defer closeFn()

	in := services.PaperInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		StudentID:   req.StudentID,
		Title:       req.Title,
		Abstract:    req.Abstract,
		Keywords:    req.Keywords,
		Category:    req.Category,
		PDF:         upload,
	}
	id, _ := middleware.UserID(c)

	out, err := h.registrations.SubmitResearchPaper(c.Request.Context(), id, in)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: common.ErrUnsupportedExtension, Status: http.StatusUnsupportedMediaType, Message: "Only PDF files are allowed"},
			{Err: common.ErrWriteFailure, Status: http.StatusInternalServerError, Message: "could not store the uploaded file"},
		})
		return
	}
	c.JSON(http.StatusCreated, out)
}

// formUpload opens an optional multipart file. A missing field yields a nil
// upload and no error.
func formUpload(c *gin.Context, field string) (*services.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &services.Upload{Name: fh.Filename, Body: f}, func() { closeFile(f) }, nil
}

func closeFile(f multipart.File) {
	_ = f.Close()
}
