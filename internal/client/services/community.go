package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ecoconnect/internal/client/models"
	"github.com/dmitrijs2005/ecoconnect/internal/validation"
)

// CommunityService fetches the data shown on the protected views.
type CommunityService interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListSchedules(ctx context.Context) ([]models.Schedule, error)
	ListVouchers(ctx context.Context) ([]models.Voucher, error)
	SubmitFeedback(ctx context.Context, fb models.Feedback) error
}

type communityService struct {
	api       API
	validator *validation.Validator
}

func NewCommunityService(api API) CommunityService {
	return &communityService{api: api, validator: validation.New()}
}

func list[T any](ctx context.Context, api API, path string) ([]T, error) {
	var items []T
	if err := api.Get(ctx, path, &items); err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return items, nil
}

func (s *communityService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return list[models.Post](ctx, s.api, "/posts")
}

func (s *communityService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return list[models.Event](ctx, s.api, "/events")
}

func (s *communityService) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	return list[models.Schedule](ctx, s.api, "/schedules")
}

func (s *communityService) ListVouchers(ctx context.Context) ([]models.Voucher, error) {
	return list[models.Voucher](ctx, s.api, "/vouchers")
}

func (s *communityService) SubmitFeedback(ctx context.Context, fb models.Feedback) error {
	if err := s.validator.Validate(fb); err != nil {
		return err
	}
	if err := s.api.Post(ctx, "/feedback", fb, nil); err != nil {
		return fmt.Errorf("submit feedback: %w", err)
	}
	return nil
}
