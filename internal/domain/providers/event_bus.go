package providers

import (
	"context"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// record events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.RecordEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.RecordEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelClinicPrefix is the prefix for per-clinic record update
// channels
const EventChannelClinicPrefix = "clinic:"

// EventChannelRecordUpdates carries every record update regardless of
// clinic, for process-wide listeners like cache invalidation
const EventChannelRecordUpdates = "records:updates"

// GetClinicChannel returns the channel name carrying record updates
// for one clinic
func GetClinicChannel(clinicID string) string {
	return EventChannelClinicPrefix + clinicID
}
