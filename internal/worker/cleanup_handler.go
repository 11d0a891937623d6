package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/nastiaetstesha/metadeck/internal/service"
	"github.com/nastiaetstesha/metadeck/internal/tasks"
)

// SessionCleanupHandler runs the retention sweep task.
type SessionCleanupHandler struct {
	retention *service.RetentionService
}

func NewSessionCleanupHandler(retention *service.RetentionService) *SessionCleanupHandler {
	if retention == nil {
		panic("RetentionService cannot be nil for SessionCleanupHandler")
	}
	return &SessionCleanupHandler{retention: retention}
}

// ProcessTask implements asynq.Handler.
func (h *SessionCleanupHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithField("task_type", t.Type())

	var payload tasks.SessionCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal cleanup payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.MaxAgeDays <= 0 {
		logCtx.Errorf("Invalid max_age_days %d in cleanup payload", payload.MaxAgeDays)
		return fmt.Errorf("invalid max_age_days %d: %w", payload.MaxAgeDays, asynq.SkipRetry)
	}

	maxAge := time.Duration(payload.MaxAgeDays) * 24 * time.Hour
	rooms, events, err := h.retention.Cleanup(ctx, maxAge, payload.OnlyInactive)
	if err != nil {
		return fmt.Errorf("retention sweep failed: %w", err)
	}

	logCtx.WithFields(logrus.Fields{
		"rooms_deleted":  rooms,
		"events_deleted": events,
	}).Info("Session cleanup task processed")
	return nil
}
