package services

import (
	"context"
	"sort"
	"time"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/prescreen"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/repositories"
)

// ComplianceParams scopes one compliance request.
type ComplianceParams struct {
	ClinicID string
	From     time.Time
	To       time.Time
}

// ComplianceService extracts the records a clinic must act on before
// treatment: everything in the REVIEW or UNSUITABLE state, each paired
// with its triggering signals.
type ComplianceService struct {
	repo repositories.RecordRepository
}

// NewComplianceService creates a new compliance service.
func NewComplianceService(repo repositories.RecordRepository) *ComplianceService {
	return &ComplianceService{repo: repo}
}

// Flags returns the flagged records, most urgent state first, newest
// within each state.
func (s *ComplianceService) Flags(ctx context.Context, params ComplianceParams) ([]entities.ComplianceFlag, error) {
	raws, err := s.repo.ListPrescreens(ctx, repositories.RecordQuery{
		ClinicID: params.ClinicID,
		From:     params.From,
		To:       params.To,
	})
	if err != nil {
		return nil, err
	}

	var unsuitable, review []entities.ComplianceFlag
	for _, raw := range raws {
		record := prescreen.Normalize(raw)
		switch record.Eligibility {
		case prescreen.EligibilityUnsuitable:
			unsuitable = append(unsuitable, entities.ComplianceFlag{
				Record:  record,
				Signals: prescreen.ReviewSignals(raw),
			})
		case prescreen.EligibilityReview:
			review = append(review, entities.ComplianceFlag{
				Record:  record,
				Signals: prescreen.ReviewSignals(raw),
			})
		}
	}

	flags := append(sortFlags(unsuitable), sortFlags(review)...)
	return flags, nil
}

// sortFlags orders newest first, records without a timestamp last,
// matching the list view's recency sort.
func sortFlags(flags []entities.ComplianceFlag) []entities.ComplianceFlag {
	out := make([]entities.ComplianceFlag, len(flags))
	copy(out, flags)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Record.Timestamp.After(out[j].Record.Timestamp)
	})
	return out
}
