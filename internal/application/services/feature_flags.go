package services

import (
	"os"
)

type FeatureFlags struct {
	aiSummariesEnabled bool
	liveUpdatesEnabled bool
}

func NewFeatureFlags() *FeatureFlags {
	summaries := os.Getenv("FEATURE_AI_SUMMARIES") != "false"
	live := os.Getenv("FEATURE_LIVE_UPDATES") != "false"

	return &FeatureFlags{
		aiSummariesEnabled: summaries,
		liveUpdatesEnabled: live,
	}
}

func (f *FeatureFlags) AISummariesEnabled() bool {
	return f.aiSummariesEnabled
}

func (f *FeatureFlags) LiveUpdatesEnabled() bool {
	return f.liveUpdatesEnabled
}
