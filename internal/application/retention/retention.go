package retention

import (
	"context"
	"time"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
)

// PurgeReadNotifications deletes notifications that were read and created more than
// keepDays ago. Call periodically (e.g. daily cron). keepDays 0 = no-op.
func PurgeReadNotifications(ctx context.Context, repo ports.NotificationRepository, keepDays int, now time.Time) (int, error) {
	if keepDays <= 0 {
		return 0, nil
	}
	threshold := now.Add(-time.Duration(keepDays) * 24 * time.Hour)
	return repo.DeleteReadBefore(ctx, threshold)
}
