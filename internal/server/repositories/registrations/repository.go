package registrations

import (
	"context"

	"github.com/dmitrijs2005/cyberspace/internal/server/models"
)

// Repository stores event sign-ups and paper submissions.
type Repository interface {
	CreateInternship(ctx context.Context, in *models.VirtualInternship) (*models.VirtualInternship, error)
	CreateEvent(ctx context.Context, ev *models.EventRegistration) (*models.EventRegistration, error)
	CreateResearchPaper(ctx context.Context, p *models.ResearchPaper) (*models.ResearchPaper, error)
	CountByUser(ctx context.Context, userID int64) (*models.RegistrationCounts, error)
}
