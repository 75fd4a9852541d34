package providers

import (
	"context"
	"errors"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
)

// ErrInsightUnauthorized indicates the AI backend rejected our
// credentials; callers should stop retrying until reconfigured.
var ErrInsightUnauthorized = errors.New("insight provider unauthorized")

// InsightProvider generates the clinician-facing summary for one
// question's answer distribution. Implementations may rate-limit; the
// insights service treats any failure as "serve distributions only".
type InsightProvider interface {
	SummarizeQuestion(ctx context.Context, insight *entities.QuestionInsight) (string, error)
}
