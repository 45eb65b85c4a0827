package model

import (
	"context"
	"fmt"
	"posta/internal/cache"
	"time"

	"github.com/sirupsen/logrus"
)

// ReconcileAllTagUsage rewrites the tag counters of every active user from a
// scan of their content. It is safe to run repeatedly and to interrupt.
// Cached usage listings of each reconciled user are dropped, including ones
// a shared cache kept from before the restart.
func ReconcileAllTagUsage(ctx context.Context, repo Repository, usage cache.UsageCache) error {
	if repo == nil {
		return nil
	}

	userIDs, err := repo.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		updated, created, err := repo.ReconcileTagUsage(ctx, userID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("reconcile tags of %s: %w", userID, err)
		}
		if updated > 0 || created > 0 {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"updated": updated,
				"created": created,
			}).Info("tag usage reconciled")
		}
		if usage != nil {
			if err := usage.Invalidate(ctx, userID); err != nil {
				logrus.WithError(err).WithField("user_id", userID).Warn("failed to invalidate tag usage cache")
			}
		}
	}
	return nil
}
