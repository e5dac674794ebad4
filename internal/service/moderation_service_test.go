package service

import (
	"context"
	"testing"

	"ourcircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModerationServiceForTest(reports *reportRepoStub, posts *postRepoStub, circles *circleRepoStub) *ModerationService {
	return NewModerationService(reports, posts, circles, noopUserRepo(), noopCommentRepo(), noopAnnouncementRepo())
}

func TestModerationService_ReportPost(t *testing.T) {
	t.Parallel()

	t.Run("empty reason rejected", func(t *testing.T) {
		t.Parallel()
		svc := newModerationServiceForTest(noopReportRepo(), noopPostRepo(), noopCircleRepo())
		_, err := svc.ReportPost(context.Background(), ReportPostInput{UserID: 1, PostID: 1, Reason: "  "})
		assertValidationError(t, err)
	})

	t.Run("missing post rejected", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := newModerationServiceForTest(noopReportRepo(), posts, noopCircleRepo())
		_, err := svc.ReportPost(context.Background(), ReportPostInput{UserID: 1, PostID: 9, Reason: "spam"})
		assertNotFoundError(t, err)
	})

	t.Run("duplicate reports are allowed", func(t *testing.T) {
		t.Parallel()
		created := 0
		reports := noopReportRepo()
		reports.createFn = func(_ context.Context, r *models.Report) error {
			created++
			r.ID = uint(created)
			return nil
		}
		svc := newModerationServiceForTest(reports, noopPostRepo(), noopCircleRepo())

		in := ReportPostInput{UserID: 1, PostID: 1, Reason: "spam"}
		_, err := svc.ReportPost(context.Background(), in)
		require.NoError(t, err)
		_, err = svc.ReportPost(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, 2, created, "no dedup against open reports")
	})
}

func TestModerationService_ResolveReport(t *testing.T) {
	t.Parallel()

	resolved := map[uint]bool{}
	reports := noopReportRepo()
	reports.resolveFn = func(_ context.Context, id uint) error {
		resolved[id] = true
		return nil
	}
	reports.getByIDFn = func(_ context.Context, id uint) (*models.Report, error) {
		return &models.Report{ID: id, IsResolved: resolved[id]}, nil
	}
	svc := newModerationServiceForTest(reports, noopPostRepo(), noopCircleRepo())

	report, err := svc.ResolveReport(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, report.IsResolved)

	report, err = svc.ResolveReport(context.Background(), 5)
	require.NoError(t, err, "re-resolving must not error")
	assert.True(t, report.IsResolved)
}

func TestModerationService_Dashboard(t *testing.T) {
	t.Parallel()

	reports := noopReportRepo()
	reports.countOpenFn = func(_ context.Context) (int64, error) { return 4, nil }
	circles := noopCircleRepo()
	circles.countActiveFn = func(_ context.Context) (int64, error) { return 7, nil }
	posts := noopPostRepo()
	posts.countFn = func(_ context.Context) (int64, error) { return 30, nil }
	svc := newModerationServiceForTest(reports, posts, circles)

	counts, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, counts.OpenReports)
	assert.EqualValues(t, 7, counts.ActiveCircles)
	assert.EqualValues(t, 30, counts.Posts)
}
