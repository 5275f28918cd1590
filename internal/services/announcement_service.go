package services

import (
	"context"
	"time"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"
)

type AnnouncementService interface {
	// CreateAndBroadcast persists the announcement and fans it out to the
	// audience roles (every active user when no audience is given).
	CreateAndBroadcast(ctx context.Context, adminID string, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	GetAnnouncement(id string) (*dto.AnnouncementResponse, error)
	ListAnnouncements(page, pageSize int) ([]*dto.AnnouncementResponse, int64, error)
}

type announcementService struct {
	announcementRepo repositories.AnnouncementRepository
	notifier         NotificationService
}

func NewAnnouncementService(
	announcementRepo repositories.AnnouncementRepository,
	notifier NotificationService,
) AnnouncementService {
	return &announcementService{
		announcementRepo: announcementRepo,
		notifier:         notifier,
	}
}

func (s *announcementService) CreateAndBroadcast(ctx context.Context, adminID string, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	notificationType := models.NotificationTypeAnnouncement
	if req.Type != "" {
		notificationType = models.NotificationType(req.Type)
	}

	announcement := &models.Announcement{
		Title:       req.Title,
		Content:     req.Content,
		Type:        notificationType,
		Audience:    req.Audience,
		CreatedByID: adminID,
	}
	if err := s.announcementRepo.Create(announcement); err != nil {
		return nil, apperrors.InternalError(err)
	}

	fanOut, err := s.notifier.BroadcastAnnouncement(ctx, announcement.ID, announcement.Title, announcement.Content, notificationType, announcement.Audience)
	if err != nil {
		// The announcement row exists, only the fan-out failed.
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	if err := s.announcementRepo.MarkPublished(announcement.ID, now); err != nil {
		return nil, apperrors.InternalError(err)
	}
	announcement.PublishedAt = &now

	response := buildAnnouncementResponse(announcement)
	response.Recipients = fanOut.Created
	response.Warning = fanOut.Warning
	return response, nil
}

func (s *announcementService) GetAnnouncement(id string) (*dto.AnnouncementResponse, error) {
	announcement, err := s.announcementRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return buildAnnouncementResponse(announcement), nil
}

func (s *announcementService) ListAnnouncements(page, pageSize int) ([]*dto.AnnouncementResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	announcements, total, err := s.announcementRepo.FindAll(page, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	responses := make([]*dto.AnnouncementResponse, 0, len(announcements))
	for i := range announcements {
		responses = append(responses, buildAnnouncementResponse(&announcements[i]))
	}
	return responses, total, nil
}

func buildAnnouncementResponse(announcement *models.Announcement) *dto.AnnouncementResponse {
	return &dto.AnnouncementResponse{
		ID:          announcement.ID,
		Title:       announcement.Title,
		Content:     announcement.Content,
		Type:        string(announcement.Type),
		Audience:    announcement.Audience,
		CreatedByID: announcement.CreatedByID,
		PublishedAt: announcement.PublishedAt,
		CreatedAt:   announcement.CreatedAt,
	}
}
