// Package seed creates demo data for development and testing.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"ourcircle/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// demoPassword is the shared password for all seeded accounts.
const demoPassword = "Demo!Password123"

// Run populates the database with built-in circles, fake users, posts,
// comments, follows, reports, and announcements.
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.ShouldClean {
		if err := clean(ctx, db); err != nil {
			return fmt.Errorf("cleaning database: %w", err)
		}
	}

	if err := Circles(ctx, db); err != nil {
		return fmt.Errorf("seeding built-in circles: %w", err)
	}

	var circles []models.Circle
	if err := db.WithContext(ctx).Find(&circles).Error; err != nil {
		return err
	}

	users, err := seedUsers(ctx, db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}

	posts, err := seedPosts(ctx, db, r, users, circles, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("seeding posts: %w", err)
	}

	if err := seedComments(ctx, db, r, users, posts); err != nil {
		return fmt.Errorf("seeding comments: %w", err)
	}
	if err := seedFollows(ctx, db, r, users, circles); err != nil {
		return fmt.Errorf("seeding follows: %w", err)
	}
	if err := seedReports(ctx, db, r, users, posts); err != nil {
		return fmt.Errorf("seeding reports: %w", err)
	}
	if err := seedAnnouncements(ctx, db, users); err != nil {
		return fmt.Errorf("seeding announcements: %w", err)
	}

	log.Printf("Seeded %d users, %d circles, %d posts", len(users), len(circles), len(posts))
	return nil
}

func clean(ctx context.Context, db *gorm.DB) error {
	// Children before parents so FK constraints hold.
	tables := []string{
		"reports", "comments", "circle_follows", "posts",
		"announcements", "circles", "users",
	}
	for _, table := range tables {
		if err := db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(ctx context.Context, db *gorm.DB, n int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n+1)
	users = append(users, models.User{
		Username: "admin",
		Email:    "admin@ourcircle.local",
		Password: string(hash),
		IsAdmin:  true,
	})
	for i := 0; i < n; i++ {
		user := models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			Password: string(hash),
		}
		if i%3 == 0 {
			user.Nicknames = models.NicknameList{gofakeit.PetName()}
		}
		users = append(users, user)
	}

	if err := db.WithContext(ctx).CreateInBatches(&users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func seedPosts(ctx context.Context, db *gorm.DB, r *rand.Rand, users []models.User, circles []models.Circle, n int) ([]models.Post, error) {
	if len(users) == 0 || len(circles) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[r.Intn(len(users))]
		post := models.Post{
			UserID:   author.ID,
			CircleID: circles[r.Intn(len(circles))].ID,
			Content:  gofakeit.Paragraph(1, 3, 12, "\n"),
			Likes:    r.Intn(50),
			Dislikes: r.Intn(10),
		}
		if len(author.Nicknames) > 0 && r.Intn(4) == 0 {
			post.IsAnonymous = true
			post.Nickname = author.Nicknames[0]
		}
		// Spread creation over the last 90 days so sort orders look real.
		post.CreatedAt = time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour)
		posts = append(posts, post)
	}

	if err := db.WithContext(ctx).CreateInBatches(&posts, 100).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func seedComments(ctx context.Context, db *gorm.DB, r *rand.Rand, users []models.User, posts []models.Post) error {
	if len(users) == 0 || len(posts) == 0 {
		return nil
	}

	var comments []models.Comment
	for _, post := range posts {
		for i := 0; i < r.Intn(5); i++ {
			comments = append(comments, models.Comment{
				UserID:  users[r.Intn(len(users))].ID,
				PostID:  post.ID,
				Content: gofakeit.Sentence(10),
				Likes:   r.Intn(20),
			})
		}
	}
	if len(comments) == 0 {
		return nil
	}

	return db.WithContext(ctx).CreateInBatches(&comments, 200).Error
}

func seedFollows(ctx context.Context, db *gorm.DB, r *rand.Rand, users []models.User, circles []models.Circle) error {
	if len(circles) == 0 {
		return nil
	}

	var follows []models.CircleFollow
	for _, user := range users {
		seen := map[uint]bool{}
		for i := 0; i < r.Intn(4); i++ {
			circle := circles[r.Intn(len(circles))]
			if seen[circle.ID] {
				continue
			}
			seen[circle.ID] = true
			follows = append(follows, models.CircleFollow{UserID: user.ID, CircleID: circle.ID})
		}
	}
	if len(follows) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(&follows, 200).Error
}

func seedReports(ctx context.Context, db *gorm.DB, r *rand.Rand, users []models.User, posts []models.Post) error {
	if len(users) == 0 || len(posts) == 0 {
		return nil
	}

	reasons := []string{"spam", "harassment", "off topic", "misinformation"}
	var reports []models.Report
	for i := 0; i < len(posts)/10; i++ {
		reports = append(reports, models.Report{
			UserID:     users[r.Intn(len(users))].ID,
			PostID:     posts[r.Intn(len(posts))].ID,
			Reason:     reasons[r.Intn(len(reasons))],
			IsResolved: r.Intn(3) == 0,
		})
	}
	if len(reports) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(&reports, 100).Error
}

func seedAnnouncements(ctx context.Context, db *gorm.DB, users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	adminID := users[0].ID

	announcements := []models.Announcement{
		{Title: "Welcome to Our Circle", Content: "Find a circle, say hello, and start posting.", CreatedByUserID: &adminID, IsPinned: true},
		{Title: "Community guidelines", Content: "Be kind. Report posts that cross the line.", CreatedByUserID: &adminID},
		{Title: "Scheduled maintenance", Content: "The site will be briefly unavailable Sunday 02:00 UTC.", CreatedByUserID: &adminID},
	}
	return db.WithContext(ctx).Create(&announcements).Error
}
