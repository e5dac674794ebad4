package service

import (
	"context"
	"strings"

	"ourcircle/internal/models"
	"ourcircle/internal/repository"
)

// ModerationService handles abuse reports and the admin dashboard.
type ModerationService struct {
	reportRepo       repository.ReportRepository
	postRepo         repository.PostRepository
	circleRepo       repository.CircleRepository
	userRepo         repository.UserRepository
	commentRepo      repository.CommentRepository
	announcementRepo repository.AnnouncementRepository
}

type ReportPostInput struct {
	UserID uint
	PostID uint
	Reason string
}

// DashboardCounts summarizes site state for the admin dashboard.
type DashboardCounts struct {
	Users         int64 `json:"users"`
	ActiveCircles int64 `json:"active_circles"`
	Posts         int64 `json:"posts"`
	Comments      int64 `json:"comments"`
	OpenReports   int64 `json:"open_reports"`
	Announcements int64 `json:"announcements"`
}

func NewModerationService(
	reportRepo repository.ReportRepository,
	postRepo repository.PostRepository,
	circleRepo repository.CircleRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	announcementRepo repository.AnnouncementRepository,
) *ModerationService {
	return &ModerationService{
		reportRepo:       reportRepo,
		postRepo:         postRepo,
		circleRepo:       circleRepo,
		userRepo:         userRepo,
		commentRepo:      commentRepo,
		announcementRepo: announcementRepo,
	}
}

// ReportPost files a new report. Every call creates a fresh unresolved
// record; open duplicates against the same post are allowed.
func (s *ModerationService) ReportPost(ctx context.Context, in ReportPostInput) (*models.Report, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, models.NewValidationError("Reason is required")
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	report := &models.Report{
		UserID: in.UserID,
		PostID: in.PostID,
		Reason: in.Reason,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ResolveReport marks the report handled. The reported post is untouched;
// re-resolving succeeds without effect.
func (s *ModerationService) ResolveReport(ctx context.Context, reportID uint) (*models.Report, error) {
	if err := s.reportRepo.Resolve(ctx, reportID); err != nil {
		return nil, err
	}
	return s.reportRepo.GetByID(ctx, reportID)
}

func (s *ModerationService) ListReports(ctx context.Context, resolved *bool, limit, offset int) ([]*models.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.reportRepo.List(ctx, resolved, limit, offset)
}

func (s *ModerationService) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	counts := &DashboardCounts{}
	var err error
	if counts.Users, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if counts.ActiveCircles, err = s.circleRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if counts.Posts, err = s.postRepo.Count(ctx); err != nil {
		return nil, err
	}
	if counts.Comments, err = s.commentRepo.Count(ctx); err != nil {
		return nil, err
	}
	if counts.OpenReports, err = s.reportRepo.CountOpen(ctx); err != nil {
		return nil, err
	}
	if counts.Announcements, err = s.announcementRepo.Count(ctx); err != nil {
		return nil, err
	}
	return counts, nil
}
