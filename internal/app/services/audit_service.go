package services

import (
	"context"

	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/helpers"
)

// AuditService exposes the audit trail to the admin.
type AuditService struct {
	auditRepo *repositories.AuditLogRepository
}

// NewAuditService creates a new AuditService
func NewAuditService(q db.DBTX) *AuditService {
	return &AuditService{auditRepo: repositories.NewAuditLogRepository(q)}
}

// List returns one page of the trail, newest first.
func (s *AuditService) List(ctx context.Context, page, pageSize int) (*dto.PaginatedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	logs, total, err := s.auditRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &dto.PaginatedResponse{
		Items:      logs,
		Pagination: helpers.NewPaginationInfo(total, page, int(limit)),
	}, nil
}
