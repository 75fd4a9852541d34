package services

import (
	"context"
	"time"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/prescreen"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/repositories"
)

// Stage names the drop-off records use, in funnel order. Stages the
// data never mentions are omitted from the response; stages the data
// mentions but this list doesn't are appended after, in first-seen
// order.
var funnelStageOrder = []string{
	"Started",
	"Contact Details",
	"Medical History",
	"Screening Questions",
	"Completed",
}

var stageFields = []string{"Stage", "stage", "Step", "step", "Drop Off Stage"}

// FunnelParams scopes one funnel request.
type FunnelParams struct {
	ClinicID string
	From     time.Time
	To       time.Time
}

// FunnelService derives the drop-off funnel from drop-off records and
// the store's aggregate tables.
type FunnelService struct {
	repo repositories.RecordRepository
}

// NewFunnelService creates a new funnel service.
func NewFunnelService(repo repositories.RecordRepository) *FunnelService {
	return &FunnelService{repo: repo}
}

// Build assembles the complete funnel view in one pass over the
// drop-off records.
func (s *FunnelService) Build(ctx context.Context, params FunnelParams) (*entities.Funnel, error) {
	query := repositories.RecordQuery{
		ClinicID: params.ClinicID,
		From:     params.From,
		To:       params.To,
	}

	dropOffs, err := s.repo.ListDropOffs(ctx, query)
	if err != nil {
		return nil, err
	}

	failReasons, err := s.repo.ListFailReasons(ctx, query)
	if err != nil {
		return nil, err
	}

	treatmentStats, err := s.repo.ListTreatmentStats(ctx, query)
	if err != nil {
		return nil, err
	}

	return &entities.Funnel{
		Stages:         countStages(dropOffs),
		FailReasons:    failReasons,
		TreatmentStats: treatmentStats,
	}, nil
}

func countStages(dropOffs []prescreen.RawRecord) []entities.FunnelStage {
	counts := make(map[string]int)
	var extras []string
	known := make(map[string]bool, len(funnelStageOrder))
	for _, stage := range funnelStageOrder {
		known[stage] = true
	}

	for _, record := range dropOffs {
		stage := prescreen.Text(prescreen.FirstNonEmpty(record, stageFields...))
		if stage == "" {
			continue
		}
		if counts[stage] == 0 && !known[stage] {
			extras = append(extras, stage)
		}
		counts[stage]++
	}

	var stages []entities.FunnelStage
	for _, stage := range funnelStageOrder {
		if count, ok := counts[stage]; ok {
			stages = append(stages, entities.FunnelStage{Name: stage, Count: count})
		}
	}
	for _, stage := range extras {
		stages = append(stages, entities.FunnelStage{Name: stage, Count: counts[stage]})
	}
	return stages
}
