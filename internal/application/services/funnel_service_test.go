package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careclear/prescreen-dashboard/backend/internal/adapters/records"
	"github.com/careclear/prescreen-dashboard/backend/internal/application/services"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/prescreen"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/repositories"
)

type stubDropOffRepo struct {
	repositories.RecordRepository
	dropOffs []prescreen.RawRecord
}

func (r *stubDropOffRepo) ListDropOffs(ctx context.Context, query repositories.RecordQuery) ([]prescreen.RawRecord, error) {
	return r.dropOffs, nil
}

func TestFunnelService_BuildAssemblesAllSections(t *testing.T) {
	service := services.NewFunnelService(records.NewMockAdapter())

	funnel, err := service.Build(context.Background(), services.FunnelParams{ClinicID: "glow"})
	require.NoError(t, err)

	assert.NotEmpty(t, funnel.Stages)
	assert.NotEmpty(t, funnel.FailReasons)
	assert.NotEmpty(t, funnel.TreatmentStats)
}

func TestFunnelService_StagesFollowCanonicalOrder(t *testing.T) {
	repo := &stubDropOffRepo{
		RecordRepository: records.NewMockAdapter(),
		dropOffs: []prescreen.RawRecord{
			{"fields": map[string]interface{}{"Stage": "Medical History"}},
			{"fields": map[string]interface{}{"Stage": "Started"}},
			{"fields": map[string]interface{}{"Stage": "Started"}},
			{"fields": map[string]interface{}{"Stage": "Payment"}},
			{"fields": map[string]interface{}{"note": "no stage field"}},
		},
	}
	service := services.NewFunnelService(repo)

	funnel, err := service.Build(context.Background(), services.FunnelParams{})
	require.NoError(t, err)

	// Known stages in canonical order, then unknown stages, records
	// without a stage dropped.
	assert.Equal(t, []entities.FunnelStage{
		{Name: "Started", Count: 2},
		{Name: "Medical History", Count: 1},
		{Name: "Payment", Count: 1},
	}, funnel.Stages)
}
