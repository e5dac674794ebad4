package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ourcircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), noopCircleRepo(), noopUserRepo(), nil, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{
			name:  "empty content",
			input: CreatePostInput{UserID: 1, CircleID: 1},
		},
		{
			name:  "whitespace content",
			input: CreatePostInput{UserID: 1, CircleID: 1, Content: "   "},
		},
		{
			name:  "content too long",
			input: CreatePostInput{UserID: 1, CircleID: 1, Content: strings.Repeat("x", 50001)},
		},
		{
			name:  "anonymous without nickname",
			input: CreatePostInput{UserID: 1, CircleID: 1, Content: "c", IsAnonymous: true},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreatePost(ctx, tc.input)
			assertValidationError(t, err)
		})
	}
}

func TestPostService_CreatePost_InactiveCircleIsNotFound(t *testing.T) {
	t.Parallel()

	circles := noopCircleRepo()
	circles.getByIDFn = func(_ context.Context, id uint) (*models.Circle, error) {
		return &models.Circle{ID: id, IsActive: false}, nil
	}
	svc := NewPostService(noopPostRepo(), circles, noopUserRepo(), nil, nil)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 1, CircleID: 5, Content: "hi"})
	assertNotFoundError(t, err)
}

func TestPostService_CreatePost_NicknameBinding(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Nicknames: models.NicknameList{"shadow"}}, nil
	}

	t.Run("bound nickname succeeds", func(t *testing.T) {
		t.Parallel()
		var created *models.Post
		posts := noopPostRepo()
		posts.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 7
			created = p
			return nil
		}
		svc := NewPostService(posts, noopCircleRepo(), users, nil, nil)

		_, err := svc.CreatePost(context.Background(), CreatePostInput{
			UserID: 1, CircleID: 1, Content: "hi", IsAnonymous: true, Nickname: "shadow",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "shadow", created.Nickname)
		assert.True(t, created.IsAnonymous)
	})

	t.Run("unbound nickname rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopCircleRepo(), users, nil, nil)
		_, err := svc.CreatePost(context.Background(), CreatePostInput{
			UserID: 1, CircleID: 1, Content: "hi", IsAnonymous: true, Nickname: "ghost",
		})
		assertValidationError(t, err)
	})

	t.Run("case differs means unbound", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopCircleRepo(), users, nil, nil)
		_, err := svc.CreatePost(context.Background(), CreatePostInput{
			UserID: 1, CircleID: 1, Content: "hi", IsAnonymous: true, Nickname: "Shadow",
		})
		assertValidationError(t, err)
	})
}

func TestPostService_CreatePost_GeocodeFallbackNeverFails(t *testing.T) {
	t.Parallel()

	var created *models.Post
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 1
		created = p
		return nil
	}
	geocoder := &geocoderStub{
		reverseFn: func(_ context.Context, _, _ float64) (string, error) {
			return "", errors.New("upstream down")
		},
	}
	svc := NewPostService(posts, noopCircleRepo(), noopUserRepo(), geocoder, nil)

	lat, lon := 39.9, 116.4
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID: 1, CircleID: 1, Content: "hi", Latitude: &lat, Longitude: &lon,
	})
	require.NoError(t, err, "geocoding failure must not fail post creation")
	require.NotNil(t, created)
	assert.Equal(t, "Lat: 39.9, Lon: 116.4", created.Location)
}

func TestPostService_CreatePost_NoGeocoderStillStampsCoordinates(t *testing.T) {
	t.Parallel()

	var created *models.Post
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 1
		created = p
		return nil
	}
	svc := NewPostService(posts, noopCircleRepo(), noopUserRepo(), nil, nil)

	lat, lon := 39.9, 116.4
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID: 1, CircleID: 1, Content: "hi", Latitude: &lat, Longitude: &lon,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Lat: 39.9, Lon: 116.4", created.Location)
}

func TestPostService_CreatePost_ClientLocationWinsOverGeocode(t *testing.T) {
	t.Parallel()

	var created *models.Post
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post) error {
		created = p
		return nil
	}
	geocoder := &geocoderStub{
		reverseFn: func(_ context.Context, _, _ float64) (string, error) {
			t.Fatal("geocoder must not be called when client supplies location text")
			return "", nil
		},
	}
	svc := NewPostService(posts, noopCircleRepo(), noopUserRepo(), geocoder, nil)

	lat, lon := 1.0, 2.0
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID: 1, CircleID: 1, Content: "hi", Location: "Downtown", Latitude: &lat, Longitude: &lon,
	})
	require.NoError(t, err)
	assert.Equal(t, "Downtown", created.Location)
}

func TestPostService_GetPost_InactiveCircleHidesPost(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, CircleID: 3}, nil
	}
	circles := noopCircleRepo()
	circles.getByIDFn = func(_ context.Context, id uint) (*models.Circle, error) {
		return &models.Circle{ID: id, IsActive: false}, nil
	}
	svc := NewPostService(posts, circles, noopUserRepo(), nil, nil)

	_, err := svc.GetPost(context.Background(), 9)
	assertNotFoundError(t, err)
}

func TestPostService_Like_IncrementsEachCall(t *testing.T) {
	t.Parallel()

	calls := 0
	posts := noopPostRepo()
	posts.incrementLikesFn = func(_ context.Context, _ uint) error {
		calls++
		return nil
	}
	svc := NewPostService(posts, noopCircleRepo(), noopUserRepo(), nil, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Like(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls, "every like call must hit the counter")
}

func TestPostService_DeletePost_Ownership(t *testing.T) {
	t.Parallel()

	ownedByOther := func() *postRepoStub {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 10}, nil
		}
		return repo
	}

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1}, nil
		}
		svc := NewPostService(repo, noopCircleRepo(), noopUserRepo(), nil, nil)
		assert.NoError(t, svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 1}))
	})

	t.Run("admin can delete another user's post", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(ownedByOther(), noopCircleRepo(), noopUserRepo(), nil, adminAlways)
		assert.NoError(t, svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 1}))
	})

	t.Run("non-admin cannot delete another user's post", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(ownedByOther(), noopCircleRepo(), noopUserRepo(), nil, adminNever)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 1})
		assertUnauthorizedError(t, err)
	})
}

func TestPostService_UpdatePost_OwnerOnly(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 10, Content: "old"}, nil
	}
	svc := NewPostService(repo, noopCircleRepo(), noopUserRepo(), nil, adminAlways)

	// Admins do not get an edit path for others' posts, only delete.
	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 1, PostID: 1, Content: "new"})
	assertUnauthorizedError(t, err)
}

func TestPostService_SearchPosts_EmptyQueryReturnsNothing(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.searchFn = func(_ context.Context, _ string, _, _ int) ([]*models.Post, error) {
		t.Fatal("repository search must not run for an empty query")
		return nil, nil
	}
	svc := NewPostService(posts, noopCircleRepo(), noopUserRepo(), nil, nil)

	results, err := svc.SearchPosts(context.Background(), "   ", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestPostService_TogglePin(t *testing.T) {
	t.Parallel()

	pinned := false
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, IsPinned: pinned}, nil
	}
	repo.setPinnedFn = func(_ context.Context, _ uint, value bool) error {
		pinned = value
		return nil
	}
	svc := NewPostService(repo, noopCircleRepo(), noopUserRepo(), nil, nil)

	_, err := svc.TogglePin(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, pinned)

	_, err = svc.TogglePin(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, pinned)
}
