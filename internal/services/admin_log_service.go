package services

import (
	"encoding/json"
	"time"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/pkg/apperrors"
)

type AdminLogListOptions struct {
	AdminID    string
	EntityType string
	EntityID   string
	DateFrom   time.Time
	DateTo     time.Time
	Page       int
	PageSize   int
}

type AdminLogEntry struct {
	ID          string                 `json:"id"`
	AdminID     string                 `json:"admin_id"`
	Action      string                 `json:"action"`
	EntityType  string                 `json:"entity_type"`
	EntityID    string                 `json:"entity_id"`
	Description string                 `json:"description,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type AdminLogListResponse struct {
	Entries    []*AdminLogEntry `json:"entries"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

type AdminLogService interface {
	List(opts AdminLogListOptions) (*AdminLogListResponse, error)
}

type adminLogService struct {
	adminLogRepo repositories.AdminLogRepository
}

func NewAdminLogService(adminLogRepo repositories.AdminLogRepository) AdminLogService {
	return &adminLogService{adminLogRepo: adminLogRepo}
}

func (s *adminLogService) List(opts AdminLogListOptions) (*AdminLogListResponse, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 || opts.PageSize > 100 {
		opts.PageSize = 20
	}

	entries, total, err := s.adminLogRepo.FindAll(repositories.AdminLogCriteria{
		AdminID:    opts.AdminID,
		EntityType: opts.EntityType,
		EntityID:   opts.EntityID,
		DateFrom:   opts.DateFrom,
		DateTo:     opts.DateTo,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*AdminLogEntry, 0, len(entries))
	for i := range entries {
		responses = append(responses, buildAdminLogEntry(&entries[i]))
	}
	return &AdminLogListResponse{
		Entries:    responses,
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: calculateTotalPages(total, opts.PageSize),
	}, nil
}

func buildAdminLogEntry(entry *models.AdminLog) *AdminLogEntry {
	var metadata map[string]interface{}
	if len(entry.Metadata) > 0 {
		_ = json.Unmarshal(entry.Metadata, &metadata)
	}
	return &AdminLogEntry{
		ID:          entry.ID,
		AdminID:     entry.AdminID,
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Description: entry.Description,
		Metadata:    metadata,
		CreatedAt:   entry.CreatedAt,
	}
}
