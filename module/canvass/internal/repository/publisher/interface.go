package publisher

import (
	"context"

	"github.com/nandanugg/canvass/module/canvass/domain"
)

// ViolationPublisher fans geofence violations out to alert consumers.
type ViolationPublisher interface {
	PublishViolation(ctx context.Context, alert *domain.GeofenceAlert) error
}
