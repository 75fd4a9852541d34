package services

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/prescreen"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/providers"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/repositories"
)

// The screening questions the insights panel aggregates, with the
// field-name variants each question appears under in the record store.
var insightQuestions = []struct {
	question   string
	field      string
	candidates []string
}{
	{
		question:   "Do you have any allergies?",
		field:      "allergies",
		candidates: []string{"allergies_yesno", "allergies", "Allergies"},
	},
	{
		question:   "Are you taking any medications?",
		field:      "medications",
		candidates: []string{"medications_yesno", "taking_medications", "Taking Medications", "medications", "Medications"},
	},
	{
		question:   "Are you pregnant or breastfeeding?",
		field:      "pregnancy",
		candidates: []string{"pregnant", "Pregnant", "pregnant_breastfeeding", "Pregnant/Breastfeeding", "Are you pregnant?"},
	},
	{
		question:   "Have you taken antibiotics recently?",
		field:      "antibiotics",
		candidates: []string{"antibiotics_yesno", "recent_antibiotics", "Recent Antibiotics", "antibiotics", "Antibiotics"},
	},
	{
		question:   "Do you have any medical conditions?",
		field:      "conditions",
		candidates: []string{"medical_conditions_yesno", "has_medical_conditions", "medical_conditions", "Medical Conditions"},
	},
}

// InsightsParams scopes one insights request.
type InsightsParams struct {
	ClinicID string
	From     time.Time
	To       time.Time
}

// InsightsService aggregates per-question answer distributions and,
// when a summarizer is configured, attaches AI-written summaries.
type InsightsService struct {
	repo       repositories.RecordRepository
	summarizer providers.InsightProvider

	// Set after the summarizer rejects our credentials; further calls
	// are skipped until restart.
	summarizerDisabled atomic.Bool
}

// NewInsightsService creates a new insights service. The summarizer
// may be nil; the service then serves distributions only.
func NewInsightsService(repo repositories.RecordRepository, summarizer providers.InsightProvider) *InsightsService {
	return &InsightsService{
		repo:       repo,
		summarizer: summarizer,
	}
}

// Questions returns one insight per configured question.
func (s *InsightsService) Questions(ctx context.Context, params InsightsParams) ([]entities.QuestionInsight, error) {
	raws, err := s.repo.ListPrescreens(ctx, repositories.RecordQuery{
		ClinicID: params.ClinicID,
		From:     params.From,
		To:       params.To,
	})
	if err != nil {
		return nil, err
	}

	insights := make([]entities.QuestionInsight, 0, len(insightQuestions))
	for _, q := range insightQuestions {
		insight := entities.QuestionInsight{
			Question: q.question,
			Field:    q.field,
		}

		buckets := make(map[string]int)
		for _, raw := range raws {
			value := prescreen.FirstNonEmpty(raw, q.candidates...)
			if value == nil {
				continue
			}
			insight.Answered++
			buckets[answerBucket(value)]++
		}
		insight.Distribution = sortedDistribution(buckets)

		s.summarize(ctx, &insight)
		insights = append(insights, insight)
	}

	return insights, nil
}

func (s *InsightsService) summarize(ctx context.Context, insight *entities.QuestionInsight) {
	if s.summarizer == nil || s.summarizerDisabled.Load() || insight.Answered == 0 {
		return
	}

	summary, err := s.summarizer.SummarizeQuestion(ctx, insight)
	if err != nil {
		if errors.Is(err, providers.ErrInsightUnauthorized) {
			s.summarizerDisabled.Store(true)
			log.Warn().Msg("Insight summarizer unauthorized, disabling summaries")
			return
		}
		log.Warn().Err(err).Str("question", insight.Question).Msg("Failed to summarize question")
		return
	}
	insight.Summary = summary
}

// answerBucket canonicalizes one raw answer into its distribution
// bucket. Free text that starts with "yes" counts as Yes; anything
// else non-empty that isn't a recognized answer lands in Other.
func answerBucket(value interface{}) string {
	switch prescreen.ParseAnswer(value) {
	case prescreen.AnswerYes:
		return "Yes"
	case prescreen.AnswerNo:
		return "No"
	case prescreen.AnswerUnsure:
		return "Not sure"
	}
	if prescreen.IsYes(value) {
		return "Yes"
	}
	return "Other"
}

func sortedDistribution(buckets map[string]int) []entities.AnswerCount {
	distribution := make([]entities.AnswerCount, 0, len(buckets))
	for answer, count := range buckets {
		distribution = append(distribution, entities.AnswerCount{Answer: answer, Count: count})
	}
	sort.Slice(distribution, func(i, j int) bool {
		if distribution[i].Count != distribution[j].Count {
			return distribution[i].Count > distribution[j].Count
		}
		return distribution[i].Answer < distribution[j].Answer
	})
	return distribution
}
