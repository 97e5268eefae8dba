package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/logging"
	"github.com/dmitrijs2005/cyberspace/internal/server/models"
	"github.com/dmitrijs2005/cyberspace/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cyberspace/internal/server/storage"
)

// StartDateLayout is the dd-mm-yyyy format the sign-up forms use.
const StartDateLayout = "02-01-2006"

// InternshipInput is the virtual internship form. AvailableStartDate is
// dd-mm-yyyy.
type InternshipInput struct {
	FirstName             string
	LastName              string
	Email                 string
	PhoneNumber           string
	Address               string
	HighestQualification  string
	FieldOfStudy          string
	SkillsAndStrengths    string
	Experience            string
	AvailableStartDate    string
	PreferredInternship   string
	AdditionalInformation string
}

// EventInput is the shared seminar and webinar form.
type EventInput struct {
	FirstName          string
	LastName           string
	Email              string
	PhoneNumber        string
	Course             string
	YearOfStudy        string
	Topic              string
	AdditionalComments string
}

// PaperInput is the research paper submission form.
type PaperInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	StudentID   string
	Title       string
	Abstract    string
	Keywords    string
	Category    string
	PDF         *Upload
}

// RegistrationService records sign-ups made by authenticated users.
type RegistrationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.Store
	logger      logging.Logger
}

func NewRegistrationService(db *sql.DB, m repomanager.RepositoryManager, store storage.Store, logger logging.Logger) *RegistrationService {
	return &RegistrationService{db: db, repomanager: m, store: store, logger: logger.With("module", "registrations")}
}

func (s *RegistrationService) RegisterInternship(ctx context.Context, userID int64, in InternshipInput) (*models.VirtualInternship, error) {
	start, err := time.Parse(StartDateLayout, strings.TrimSpace(in.AvailableStartDate))
	if err != nil {
		return nil, fmt.Errorf("%w: available_start_date must be dd-mm-yyyy", common.ErrorValidation)
	}
	return s.repomanager.Registrations(s.db).CreateInternship(ctx, &models.VirtualInternship{
		UserID:                userID,
		FirstName:             in.FirstName,
		LastName:              in.LastName,
		Email:                 in.Email,
		PhoneNumber:           in.PhoneNumber,
		Address:               in.Address,
		HighestQualification:  in.HighestQualification,
		FieldOfStudy:          in.FieldOfStudy,
		SkillsAndStrengths:    in.SkillsAndStrengths,
		Experience:            in.Experience,
		AvailableStartDate:    start,
		PreferredInternship:   in.PreferredInternship,
		AdditionalInformation: in.AdditionalInformation,
	})
}

func (s *RegistrationService) RegisterEvent(ctx context.Context, userID int64, kind models.EventKind, in EventInput) (*models.EventRegistration, error) {
	return s.repomanager.Registrations(s.db).CreateEvent(ctx, &models.EventRegistration{
		Kind:               kind,
		UserID:             userID,
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		Email:              in.Email,
		PhoneNumber:        in.PhoneNumber,
		Course:             in.Course,
		YearOfStudy:        in.YearOfStudy,
		Topic:              in.Topic,
		AdditionalComments: in.AdditionalComments,
	})
}

// SubmitResearchPaper stores the PDF then records the submission. The stored
// file is removed if the row cannot be written.
func (s *RegistrationService) SubmitResearchPaper(ctx context.Context, userID int64, in PaperInput) (*models.ResearchPaper, error) {
	if in.PDF == nil {
		return nil, fmt.Errorf("%w: paper_pdf is required", common.ErrorValidation)
	}

	ref, err := s.store.Save(ctx, in.PDF.Body, in.PDF.Name, storage.PDFExtensions)
	if err != nil {
		return nil, err
	}

	p, err := s.repomanager.Registrations(s.db).CreateResearchPaper(ctx, &models.ResearchPaper{
		UserID:        userID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		PhoneNumber:   in.PhoneNumber,
		StudentID:     in.StudentID,
		Title:         in.Title,
		Abstract:      in.Abstract,
		Keywords:      in.Keywords,
		Category:      in.Category,
		PaperFilename: ref,
	})
	if err != nil {
		if derr := s.store.Delete(ctx, ref); derr != nil {
			s.logger.Warn(ctx, "orphaned paper", "ref", ref, "error", derr)
		}
		return nil, err
	}
	return p, nil
}
