package service

import (
	"context"
	"errors"
	"testing"

	"ourcircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn            func(context.Context, *models.Post) error
	getByIDFn           func(context.Context, uint) (*models.Post, error)
	listByCircleFn      func(context.Context, uint, string, int, int) ([]*models.Post, error)
	listByUserFn        func(context.Context, uint, int, int) ([]*models.Post, error)
	listPopularFn       func(context.Context, int) ([]*models.Post, error)
	listRecommendedFn   func(context.Context, int) ([]*models.Post, error)
	searchFn            func(context.Context, string, int, int) ([]*models.Post, error)
	updateFn            func(context.Context, *models.Post) error
	deleteFn            func(context.Context, uint) error
	incrementLikesFn    func(context.Context, uint) error
	incrementDislikesFn func(context.Context, uint) error
	setPinnedFn         func(context.Context, uint, bool) error
	setRecommendedFn    func(context.Context, uint, bool) error
	countByCircleFn     func(context.Context, uint) (int64, error)
	countFn             func(context.Context) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListByCircle(ctx context.Context, circleID uint, sort string, limit, offset int) ([]*models.Post, error) {
	return s.listByCircleFn(ctx, circleID, sort, limit, offset)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) ListPopular(ctx context.Context, limit int) ([]*models.Post, error) {
	return s.listPopularFn(ctx, limit)
}
func (s *postRepoStub) ListRecommended(ctx context.Context, limit int) ([]*models.Post, error) {
	return s.listRecommendedFn(ctx, limit)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IncrementLikes(ctx context.Context, id uint) error {
	return s.incrementLikesFn(ctx, id)
}
func (s *postRepoStub) IncrementDislikes(ctx context.Context, id uint) error {
	return s.incrementDislikesFn(ctx, id)
}
func (s *postRepoStub) SetPinned(ctx context.Context, id uint, pinned bool) error {
	return s.setPinnedFn(ctx, id, pinned)
}
func (s *postRepoStub) SetRecommended(ctx context.Context, id uint, recommended bool) error {
	return s.setRecommendedFn(ctx, id, recommended)
}
func (s *postRepoStub) CountByCircle(ctx context.Context, circleID uint) (int64, error) {
	return s.countByCircleFn(ctx, circleID)
}
func (s *postRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:            func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:           func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listByCircleFn:      func(_ context.Context, _ uint, _ string, _, _ int) ([]*models.Post, error) { return nil, nil },
		listByUserFn:        func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) { return nil, nil },
		listPopularFn:       func(_ context.Context, _ int) ([]*models.Post, error) { return nil, nil },
		listRecommendedFn:   func(_ context.Context, _ int) ([]*models.Post, error) { return nil, nil },
		searchFn:            func(_ context.Context, _ string, _, _ int) ([]*models.Post, error) { return nil, nil },
		updateFn:            func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:            func(_ context.Context, _ uint) error { return nil },
		incrementLikesFn:    func(_ context.Context, _ uint) error { return nil },
		incrementDislikesFn: func(_ context.Context, _ uint) error { return nil },
		setPinnedFn:         func(_ context.Context, _ uint, _ bool) error { return nil },
		setRecommendedFn:    func(_ context.Context, _ uint, _ bool) error { return nil },
		countByCircleFn:     func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFn:             func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// circleRepoStub is a stub for repository.CircleRepository.
type circleRepoStub struct {
	createFn      func(context.Context, *models.Circle) error
	getByIDFn     func(context.Context, uint) (*models.Circle, error)
	updateFn      func(context.Context, *models.Circle) error
	deleteFn      func(context.Context, uint) error
	listActiveFn  func(context.Context, int, int) ([]models.Circle, error)
	countActiveFn func(context.Context) (int64, error)
	listAllFn     func(context.Context, int, int) ([]models.Circle, error)
	searchFn      func(context.Context, string, int, int) ([]models.Circle, error)
	countSearchFn func(context.Context, string) (int64, error)
	setActiveFn   func(context.Context, uint, bool) error
}

func (s *circleRepoStub) Create(ctx context.Context, circle *models.Circle) error {
	return s.createFn(ctx, circle)
}
func (s *circleRepoStub) GetByID(ctx context.Context, id uint) (*models.Circle, error) {
	return s.getByIDFn(ctx, id)
}
func (s *circleRepoStub) Update(ctx context.Context, circle *models.Circle) error {
	return s.updateFn(ctx, circle)
}
func (s *circleRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *circleRepoStub) ListActive(ctx context.Context, limit, offset int) ([]models.Circle, error) {
	return s.listActiveFn(ctx, limit, offset)
}
func (s *circleRepoStub) CountActive(ctx context.Context) (int64, error) {
	return s.countActiveFn(ctx)
}
func (s *circleRepoStub) ListAll(ctx context.Context, limit, offset int) ([]models.Circle, error) {
	return s.listAllFn(ctx, limit, offset)
}
func (s *circleRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]models.Circle, error) {
	return s.searchFn(ctx, query, limit, offset)
}
func (s *circleRepoStub) CountSearch(ctx context.Context, query string) (int64, error) {
	return s.countSearchFn(ctx, query)
}
func (s *circleRepoStub) SetActive(ctx context.Context, id uint, active bool) error {
	return s.setActiveFn(ctx, id, active)
}

func noopCircleRepo() *circleRepoStub {
	return &circleRepoStub{
		createFn: func(_ context.Context, _ *models.Circle) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Circle, error) {
			return &models.Circle{ID: id, IsActive: true}, nil
		},
		updateFn:      func(_ context.Context, _ *models.Circle) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
		listActiveFn:  func(_ context.Context, _, _ int) ([]models.Circle, error) { return nil, nil },
		countActiveFn: func(_ context.Context) (int64, error) { return 0, nil },
		listAllFn:     func(_ context.Context, _, _ int) ([]models.Circle, error) { return nil, nil },
		searchFn:      func(_ context.Context, _ string, _, _ int) ([]models.Circle, error) { return nil, nil },
		countSearchFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
		setActiveFn:   func(_ context.Context, _ uint, _ bool) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
	countFn         func(context.Context) (int64, error)
	setAdminFn      func(context.Context, uint, bool) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *userRepoStub) SetAdmin(ctx context.Context, id uint, isAdmin bool) error {
	return s.setAdminFn(ctx, id, isAdmin)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		countFn:         func(_ context.Context) (int64, error) { return 0, nil },
		setAdminFn:      func(_ context.Context, _ uint, _ bool) error { return nil },
	}
}

// reportRepoStub is a stub for repository.ReportRepository.
type reportRepoStub struct {
	createFn    func(context.Context, *models.Report) error
	getByIDFn   func(context.Context, uint) (*models.Report, error)
	listFn      func(context.Context, *bool, int, int) ([]*models.Report, error)
	resolveFn   func(context.Context, uint) error
	countOpenFn func(context.Context) (int64, error)
}

func (s *reportRepoStub) Create(ctx context.Context, report *models.Report) error {
	return s.createFn(ctx, report)
}
func (s *reportRepoStub) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reportRepoStub) List(ctx context.Context, resolved *bool, limit, offset int) ([]*models.Report, error) {
	return s.listFn(ctx, resolved, limit, offset)
}
func (s *reportRepoStub) Resolve(ctx context.Context, id uint) error {
	return s.resolveFn(ctx, id)
}
func (s *reportRepoStub) CountOpen(ctx context.Context) (int64, error) {
	return s.countOpenFn(ctx)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		createFn:    func(_ context.Context, _ *models.Report) error { return nil },
		getByIDFn:   func(_ context.Context, id uint) (*models.Report, error) { return &models.Report{ID: id}, nil },
		listFn:      func(_ context.Context, _ *bool, _, _ int) ([]*models.Report, error) { return nil, nil },
		resolveFn:   func(_ context.Context, _ uint) error { return nil },
		countOpenFn: func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn            func(context.Context, *models.Comment) error
	getByIDFn           func(context.Context, uint) (*models.Comment, error)
	listByPostFn        func(context.Context, uint, int, int) ([]*models.Comment, error)
	deleteFn            func(context.Context, uint) error
	incrementLikesFn    func(context.Context, uint) error
	incrementDislikesFn func(context.Context, uint) error
	countByPostFn       func(context.Context, uint) (int64, error)
	countFn             func(context.Context) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) IncrementLikes(ctx context.Context, id uint) error {
	return s.incrementLikesFn(ctx, id)
}
func (s *commentRepoStub) IncrementDislikes(ctx context.Context, id uint) error {
	return s.incrementDislikesFn(ctx, id)
}
func (s *commentRepoStub) CountByPost(ctx context.Context, postID uint) (int64, error) {
	return s.countByPostFn(ctx, postID)
}
func (s *commentRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:            func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:           func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn:        func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) { return nil, nil },
		deleteFn:            func(_ context.Context, _ uint) error { return nil },
		incrementLikesFn:    func(_ context.Context, _ uint) error { return nil },
		incrementDislikesFn: func(_ context.Context, _ uint) error { return nil },
		countByPostFn:       func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFn:             func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	followFn         func(context.Context, uint, uint) error
	unfollowFn       func(context.Context, uint, uint) error
	isFollowingFn    func(context.Context, uint, uint) (bool, error)
	listCirclesFn    func(context.Context, uint) ([]models.Circle, error)
	countFollowersFn func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) Follow(ctx context.Context, userID, circleID uint) error {
	return s.followFn(ctx, userID, circleID)
}
func (s *followRepoStub) Unfollow(ctx context.Context, userID, circleID uint) error {
	return s.unfollowFn(ctx, userID, circleID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, userID, circleID uint) (bool, error) {
	return s.isFollowingFn(ctx, userID, circleID)
}
func (s *followRepoStub) ListCircles(ctx context.Context, userID uint) ([]models.Circle, error) {
	return s.listCirclesFn(ctx, userID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, circleID uint) (int64, error) {
	return s.countFollowersFn(ctx, circleID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		followFn:         func(_ context.Context, _, _ uint) error { return nil },
		unfollowFn:       func(_ context.Context, _, _ uint) error { return nil },
		isFollowingFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listCirclesFn:    func(_ context.Context, _ uint) ([]models.Circle, error) { return nil, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// geocoderStub is a stub for geo.Geocoder.
type geocoderStub struct {
	reverseFn func(context.Context, float64, float64) (string, error)
}

func (s *geocoderStub) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	return s.reverseFn(ctx, lat, lon)
}

func adminAlways(_ context.Context, _ uint) (bool, error) { return true, nil }
func adminNever(_ context.Context, _ uint) (bool, error)  { return false, nil }

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "NOT_FOUND")
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "UNAUTHORIZED")
}

// assertForbiddenError asserts that err is an AppError with code FORBIDDEN.
func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
