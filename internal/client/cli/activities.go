package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cyberspace/internal/client/client"
	"github.com/dmitrijs2005/cyberspace/internal/client/models"
)

// afterCall drops the prompt's user name when the server rejected the session.
func (a *App) afterCall(err error) error {
	if errors.Is(err, client.ErrNotLoggedIn) {
		a.setUser("")
		return errors.New("session expired or missing, please log in")
	}
	return err
}

func (a *App) Profile(ctx context.Context) error {
	p, err := a.activityService.Profile(ctx)
	if err != nil {
		return a.afterCall(err)
	}

	printlnFn(fmt.Sprintf("%s %s <%s>", p.FirstName, p.LastName, p.Email))
	printlnFn(fmt.Sprintf("Mobile: %s  College: %s", p.MobileNumber, p.CollegeName))
	printlnFn(fmt.Sprintf("Internships: %d  Seminars: %d  Webinars: %d  Research papers: %d",
		p.Internships, p.Seminars, p.Webinars, p.ResearchPapers))
	return nil
}

func (a *App) Seminar(ctx context.Context) error {
	return a.event(ctx, models.Seminar)
}

func (a *App) Webinar(ctx context.Context) error {
	return a.event(ctx, models.Webinar)
}

func (a *App) event(ctx context.Context, kind models.EventKind) error {
	v, err := a.askFields(
		"First name", "Last name", "Email", "Phone number",
		"Course", "Year of study", "Topic", "Additional comments",
	)
	if err != nil {
		return err
	}

	out, err := a.activityService.RegisterEvent(ctx, kind, models.Event{
		FirstName:          v[0],
		LastName:           v[1],
		Email:              v[2],
		PhoneNumber:        v[3],
		Course:             v[4],
		YearOfStudy:        v[5],
		Topic:              v[6],
		AdditionalComments: v[7],
	})
	if err != nil {
		return a.afterCall(err)
	}

	printlnFn(fmt.Sprintf("Registered for the %s (id %d)", kind, out.ID))
	return nil
}

func (a *App) Internship(ctx context.Context) error {
	v, err := a.askFields(
		"First name", "Last name", "Email", "Phone number", "Address",
		"Highest qualification", "Field of study", "Skills and strengths",
		"Experience", "Available start date (dd-mm-yyyy)", "Preferred internship",
	)
	if err != nil {
		return err
	}
	info, err := getMultiline(a.reader, "Additional information", a.out)
	if err != nil {
		return err
	}

	out, err := a.activityService.RegisterInternship(ctx, models.Internship{
		FirstName:             v[0],
		LastName:              v[1],
		Email:                 v[2],
		PhoneNumber:           v[3],
		Address:               v[4],
		HighestQualification:  v[5],
		FieldOfStudy:          v[6],
		SkillsAndStrengths:    v[7],
		Experience:            v[8],
		AvailableStartDate:    v[9],
		PreferredInternship:   v[10],
		AdditionalInformation: info,
	})
	if err != nil {
		return a.afterCall(err)
	}

	printlnFn(fmt.Sprintf("Internship application saved (id %d)", out.ID))
	return nil
}

func (a *App) Paper(ctx context.Context) error {
	who, err := a.askFields("First name", "Last name", "Email", "Phone number", "Student ID", "Paper title")
	if err != nil {
		return err
	}
	abstract, err := getMultiline(a.reader, "Abstract", a.out)
	if err != nil {
		return err
	}
	v, err := a.askFields("Keywords", "Category")
	if err != nil {
		return err
	}

	pdf, closePDF, err := a.askAttachment("Path to the paper (.pdf)", false)
	if err != nil {
		return err
	}
	defer closePDF()

	out, err := a.activityService.SubmitPaper(ctx, models.Paper{
		FirstName:   who[0],
		LastName:    who[1],
		Email:       who[2],
		PhoneNumber: who[3],
		StudentID:   who[4],
		Title:       who[5],
		Abstract:    abstract,
		Keywords:    v[0],
		Category:    v[1],
		PDF:         pdf,
	})
	if err != nil {
		return a.afterCall(err)
	}

	printlnFn(fmt.Sprintf("Paper submitted (id %d)", out.ID))
	return nil
}
