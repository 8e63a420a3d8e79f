package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ecoconnect/internal/client/apiclient"
	"github.com/dmitrijs2005/ecoconnect/internal/client/models"
	"github.com/dmitrijs2005/ecoconnect/internal/validation"
)

func TestCommunity_Lists(t *testing.T) {
	api := newFakeAPI()
	api.responses["/posts"] = `[{"id":1,"title":"Cleanup day","content":"Join us","createdAt":"2024-05-01T10:00:00Z"}]`
	api.responses["/events"] = `[{"id":"e1","title":"Market","startDate":"2024-06-01T09:00:00Z","endDate":"2024-06-01T12:00:00Z"}]`
	api.responses["/schedules"] = `[{"id":"s1","location":"North","day":"Mon","time":"08:00"}]`
	api.responses["/vouchers"] = `[{"id":"v1","title":"Coffee","points":20}]`
	svc := NewCommunityService(api)
	ctx := context.Background()

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, models.ID("1"), posts[0].ID)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), posts[0].CreatedAt)

	events, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, events[0].StartsAt.Hour())

	schedules, err := svc.ListSchedules(ctx)
	require.NoError(t, err)
	assert.Equal(t, "North", schedules[0].Location)

	vouchers, err := svc.ListVouchers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, vouchers[0].Points)

	paths := make([]string, 0, len(api.calls))
	for _, c := range api.calls {
		paths = append(paths, c.path)
	}
	assert.Equal(t, []string{"/posts", "/events", "/schedules", "/vouchers"}, paths)
}

func TestCommunity_ListError(t *testing.T) {
	api := newFakeAPI()
	api.errs["/posts"] = &apiclient.StatusError{Code: 404}

	_, err := NewCommunityService(api).ListPosts(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrNotFound)
}

func TestCommunity_SubmitFeedback(t *testing.T) {
	api := newFakeAPI()
	svc := NewCommunityService(api)

	err := svc.SubmitFeedback(context.Background(), models.Feedback{Rating: 6, Comment: "ok"})
	assert.ErrorIs(t, err, validation.ErrInvalid)
	assert.Empty(t, api.calls)

	fb := models.Feedback{Rating: 5, Comment: "great pickup service"}
	require.NoError(t, svc.SubmitFeedback(context.Background(), fb))
	require.Len(t, api.calls, 1)
	assert.Equal(t, call{method: "POST", path: "/feedback", body: fb}, api.calls[0])
}
