package providers

import (
	"context"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
)

// FormsProvider forwards consultation enquiries to the external forms
// backend. Delivery is fire-and-forget from the dashboard's point of
// view; the forms backend owns retries and storage.
type FormsProvider interface {
	Submit(ctx context.Context, request *entities.ConsultRequest) error
}
