package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/providers"
	apperrors "github.com/careclear/prescreen-dashboard/backend/pkg/errors"
)

// ConsultService forwards consultation enquiries to the forms backend.
type ConsultService struct {
	forms providers.FormsProvider
}

// NewConsultService creates a new consult service.
func NewConsultService(forms providers.FormsProvider) *ConsultService {
	return &ConsultService{forms: forms}
}

// Submit validates and forwards one enquiry.
func (s *ConsultService) Submit(ctx context.Context, request *entities.ConsultRequest) error {
	if request == nil {
		return apperrors.NewValidationError("consult request is required")
	}
	if strings.TrimSpace(request.Name) == "" {
		return apperrors.NewValidationError("name is required")
	}
	if strings.TrimSpace(request.Email) == "" && strings.TrimSpace(request.Phone) == "" {
		return apperrors.NewValidationError("email or phone is required")
	}
	if s.forms == nil {
		return apperrors.NewExternalError("forms backend is not configured", nil)
	}

	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}

	return s.forms.Submit(ctx, request)
}
