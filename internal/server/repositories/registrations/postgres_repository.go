package registrations

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/cyberspace/internal/dbx"
	"github.com/dmitrijs2005/cyberspace/internal/server/models"
)

type PostgresRepository struct {
	db      dbx.DBTX
	builder sq.StatementBuilderType
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// eventTables maps an event kind to its table and topic column.
var eventTables = map[models.EventKind]struct{ table, topic string }{
	models.KindSeminar: {"seminars", "seminar_topic"},
	models.KindWebinar: {"webinars", "webinar_topic"},
}

func (r *PostgresRepository) CreateInternship(ctx context.Context, in *models.VirtualInternship) (*models.VirtualInternship, error) {
	stmt, args, err := r.builder.Insert("virtual_internships").
		Columns("user_id", "first_name", "last_name", "email_id", "phone_number", "address",
			"highest_qualification", "field_of_study", "skills_and_strengths", "experience",
			"available_start_date", "preferred_internship", "additional_info").
		Values(in.UserID, in.FirstName, in.LastName, in.Email, in.PhoneNumber, in.Address,
			in.HighestQualification, in.FieldOfStudy, in.SkillsAndStrengths, in.Experience,
			in.AvailableStartDate, in.PreferredInternship, in.AdditionalInformation).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert internship sql: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&in.ID); err != nil {
		return nil, dbx.ClassifyError(err)
	}
	return in, nil
}

func (r *PostgresRepository) CreateEvent(ctx context.Context, ev *models.EventRegistration) (*models.EventRegistration, error) {
	t, ok := eventTables[ev.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	stmt, args, err := r.builder.Insert(t.table).
		Columns("user_id", "first_name", "last_name", "email_id", "phone_number",
			"course", "year_of_study", t.topic, "additional_comments").
		Values(ev.UserID, ev.FirstName, ev.LastName, ev.Email, ev.PhoneNumber,
			ev.Course, ev.YearOfStudy, ev.Topic, ev.AdditionalComments).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert %s sql: %w", ev.Kind, err)
	}

	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&ev.ID); err != nil {
		return nil, dbx.ClassifyError(err)
	}
	return ev, nil
}

func (r *PostgresRepository) CreateResearchPaper(ctx context.Context, p *models.ResearchPaper) (*models.ResearchPaper, error) {
	stmt, args, err := r.builder.Insert("research_papers").
		Columns("user_id", "first_name", "last_name", "email_id", "phone_number", "student_id",
			"paper_title", "abstract", "keywords", "paper_category", "paper_pdf").
		Values(p.UserID, p.FirstName, p.LastName, p.Email, p.PhoneNumber, p.StudentID,
			p.Title, p.Abstract, p.Keywords, p.Category, p.PaperFilename).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert research paper sql: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&p.ID); err != nil {
		return nil, dbx.ClassifyError(err)
	}
	return p, nil
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID int64) (*models.RegistrationCounts, error) {
	counts := &models.RegistrationCounts{}

	targets := []struct {
		table string
		dst   *int
	}{
		{"virtual_internships", &counts.Internships},
		{"seminars", &counts.Seminars},
		{"webinars", &counts.Webinars},
		{"research_papers", &counts.ResearchPapers},
	}

	for _, tg := range targets {
		stmt, args, err := r.builder.Select("COUNT(*)").
			From(tg.table).
			Where(sq.Eq{"user_id": userID}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build count %s sql: %w", tg.table, err)
		}
		if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(tg.dst); err != nil {
			return nil, dbx.ClassifyError(err)
		}
	}

	return counts, nil
}
