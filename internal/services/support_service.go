package services

import (
	"context"
	"fmt"
	"time"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"
)

type SupportService interface {
	// CreateRequest opens a ticket and alerts all admins.
	CreateRequest(ctx context.Context, userID string, req *dto.CreateSupportRequest) (*dto.SupportRequestResponse, error)
	// Respond answers an open or in-progress ticket and notifies the submitter.
	Respond(ctx context.Context, requestID, adminID string, req *dto.RespondSupportRequest) (*dto.SupportRequestResponse, error)
	GetRequest(userID, role, requestID string) (*dto.SupportRequestResponse, error)
	ListRequests(criteria repositories.SupportCriteria) (*dto.SupportListResponse, error)
}

type supportService struct {
	supportRepo repositories.SupportRepository
	notifier    NotificationService
}

func NewSupportService(supportRepo repositories.SupportRepository, notifier NotificationService) SupportService {
	return &supportService{supportRepo: supportRepo, notifier: notifier}
}

func (s *supportService) CreateRequest(ctx context.Context, userID string, req *dto.CreateSupportRequest) (*dto.SupportRequestResponse, error) {
	priority := models.SupportPriorityMedium
	if req.Priority != "" {
		priority = models.SupportPriority(req.Priority)
	}

	request := &models.SupportRequest{
		UserID:   userID,
		Subject:  req.Subject,
		Message:  req.Message,
		Status:   models.SupportStatusOpen,
		Priority: priority,
	}
	if err := s.supportRepo.Create(request); err != nil {
		return nil, apperrors.InternalError(err)
	}

	fanOut, err := s.notifier.NotifyAllAdmins(ctx, &dto.NotifyAdminsRequest{
		Type:    string(models.NotificationTypeNewSupportRequest),
		Title:   "New support request",
		Message: fmt.Sprintf("[%s] %s", priority, req.Subject),
		Metadata: map[string]interface{}{
			"support_request_id": request.ID,
			"priority":           string(priority),
		},
	})

	response := buildSupportResponse(request)
	if err != nil {
		// Admins can still find the ticket via listing.
		response.Warning = WarningDeliveryDegraded
	} else {
		response.Warning = fanOut.Warning
	}
	return response, nil
}

func (s *supportService) Respond(ctx context.Context, requestID, adminID string, req *dto.RespondSupportRequest) (*dto.SupportRequestResponse, error) {
	request, err := s.supportRepo.FindByID(requestID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	switch request.Status {
	case models.SupportStatusOpen, models.SupportStatusInProgress:
	default:
		return nil, apperrors.ErrInvalidState("support",
			fmt.Sprintf("support request is %s and no longer accepts responses", request.Status))
	}

	newStatus := models.SupportStatusInProgress
	now := time.Now()
	updates := map[string]interface{}{
		"response":        req.Response,
		"responded_by_id": adminID,
		"responded_at":    now,
	}
	if req.Resolve {
		newStatus = models.SupportStatusResolved
		updates["closed_at"] = now
	}
	updates["status"] = newStatus

	rows, err := s.supportRepo.UpdateStatusIf(requestID, request.Status, updates)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, apperrors.ErrConflict("support", "support request was updated concurrently")
	}

	request.Status = newStatus
	request.Response = req.Response
	request.RespondedByID = &adminID
	request.RespondedAt = &now
	if req.Resolve {
		request.ClosedAt = &now
	}

	title := "Support request update"
	if req.Resolve {
		title = "Support request resolved"
	}
	notifyResp, notifyErr := s.notifier.NotifyUser(ctx, &dto.CreateNotificationRequest{
		UserID:      request.UserID,
		Type:        string(models.NotificationTypeSystemAlert),
		Title:       title,
		Message:     fmt.Sprintf("Your request %q received a response: %s", request.Subject, req.Response),
		RelatedID:   request.ID,
		RelatedType: "support_request",
	})

	response := buildSupportResponse(request)
	if notifyErr != nil {
		response.Warning = WarningDeliveryDegraded
	} else {
		response.Warning = notifyResp.Warning
	}
	return response, nil
}

// GetRequest lets admins read any ticket and everyone else only their own.
func (s *supportService) GetRequest(userID, role, requestID string) (*dto.SupportRequestResponse, error) {
	request, err := s.supportRepo.FindByID(requestID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if role != string(models.UserRoleAdmin) && request.UserID != userID {
		return nil, apperrors.NewForbiddenError("you can only view your own support requests")
	}
	return buildSupportResponse(request), nil
}

func (s *supportService) ListRequests(criteria repositories.SupportCriteria) (*dto.SupportListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	requests, total, err := s.supportRepo.FindAll(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.SupportRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, buildSupportResponse(&requests[i]))
	}
	return &dto.SupportListResponse{
		Requests:   responses,
		Total:      total,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
		TotalPages: calculateTotalPages(total, criteria.PageSize),
	}, nil
}

func buildSupportResponse(request *models.SupportRequest) *dto.SupportRequestResponse {
	return &dto.SupportRequestResponse{
		ID:            request.ID,
		UserID:        request.UserID,
		Subject:       request.Subject,
		Message:       request.Message,
		Status:        request.Status,
		Priority:      request.Priority,
		Response:      request.Response,
		RespondedByID: request.RespondedByID,
		RespondedAt:   request.RespondedAt,
		CreatedAt:     request.CreatedAt,
	}
}
