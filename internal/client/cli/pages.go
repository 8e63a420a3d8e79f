package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ecoconnect/internal/client/models"
)

func (a *App) dashboardView(_ context.Context, p *models.UserProfile) (string, error) {
	printlnFn(fmt.Sprintf("Welcome, %s (%s)", p.FullName(), p.AccountType))
	printlnFn("Views:", strings.Join(a.routes(true), ", "))
	return "", nil
}

func (a *App) profileView(_ context.Context, p *models.UserProfile) (string, error) {
	printlnFn("Name:   ", p.FullName())
	printlnFn("Email:  ", p.Email)
	printlnFn("Phone:  ", p.PhoneNumber)
	printlnFn("Account:", p.AccountType.String())
	return "", nil
}

func (a *App) postsView(ctx context.Context, _ *models.UserProfile) (string, error) {
	posts, err := a.community.ListPosts(ctx)
	if err != nil {
		toast("Loading posts", err)
		return "", nil
	}
	if len(posts) == 0 {
		printlnFn("No posts yet.")
	}
	for _, p := range posts {
		printlnFn(fmt.Sprintf("[%s] %s  (%s)", p.ID, p.Title, p.CreatedAt.Format("2006-01-02")))
	}
	return "", nil
}

func (a *App) eventsView(ctx context.Context, _ *models.UserProfile) (string, error) {
	events, err := a.community.ListEvents(ctx)
	if err != nil {
		toast("Loading events", err)
		return "", nil
	}
	if len(events) == 0 {
		printlnFn("No upcoming events.")
	}
	for _, e := range events {
		printlnFn(fmt.Sprintf("%s  %s  %s", e.StartsAt.Format("2006-01-02 15:04"), e.Title, e.Location))
	}
	return "", nil
}

func (a *App) schedulesView(ctx context.Context, _ *models.UserProfile) (string, error) {
	schedules, err := a.community.ListSchedules(ctx)
	if err != nil {
		toast("Loading schedules", err)
		return "", nil
	}
	if len(schedules) == 0 {
		printlnFn("No pickup schedules.")
	}
	for _, s := range schedules {
		printlnFn(fmt.Sprintf("%-10s %-5s %s %s", s.Day, s.Time, s.Location, s.Status))
	}
	return "", nil
}

func (a *App) vouchersView(ctx context.Context, _ *models.UserProfile) (string, error) {
	vouchers, err := a.community.ListVouchers(ctx)
	if err != nil {
		toast("Loading vouchers", err)
		return "", nil
	}
	if len(vouchers) == 0 {
		printlnFn("No vouchers available.")
	}
	for _, v := range vouchers {
		printlnFn(fmt.Sprintf("%s  %d pts", v.Title, v.Points))
	}
	return "", nil
}

func (a *App) feedbackView(ctx context.Context, _ *models.UserProfile) (string, error) {
	rating, err := GetNumber(a.reader, "Rating", 1, 5, a.out)
	if err != nil {
		return "", err
	}
	comment, err := GetMultiline(a.reader, "Comment", a.out)
	if err != nil {
		return "", err
	}

	if err := a.community.SubmitFeedback(ctx, models.Feedback{Rating: rating, Comment: comment}); err != nil {
		toast("Sending feedback", err)
		return "", nil
	}
	printlnFn("Thank you for your feedback!")
	return "", nil
}

func (a *App) adminView(_ context.Context, p *models.UserProfile) (string, error) {
	printlnFn("== Administrator console ==")
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, p.Raw, "", "  "); err != nil {
		printlnFn(string(p.Raw))
		return "", nil
	}
	printlnFn(pretty.String())
	return "", nil
}

func (a *App) inaccessibleView(ctx context.Context, _ *models.UserProfile) (string, error) {
	printlnFn("This account is no longer accessible. Contact an administrator.")
	a.auth.SignOut(ctx)
	return "", nil
}
