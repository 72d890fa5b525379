package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/elite/internal/client/api"
	"github.com/dmitrijs2005/elite/internal/client/models"
	"github.com/dmitrijs2005/elite/internal/client/poller"
	"github.com/dmitrijs2005/elite/internal/logging"
)

const DefaultThreadInterval = 3 * time.Second

// WatchThread polls the conversation with userID and hands every fetched
// snapshot to deliver. Failed fetches are logged and skipped, except an
// expired session, which stops delivering until the caller stops the poller.
// deliver may be called concurrently when fetches overlap.
func WatchThread(svc MessageService, userID int64, interval time.Duration, deliver func([]models.ChatMessage), logger logging.Logger) (*poller.Poller, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if interval <= 0 {
		interval = DefaultThreadInterval
	}

	var expired atomic.Bool
	job := func(ctx context.Context) {
		if expired.Load() {
			return
		}
		msgs, err := svc.Thread(ctx, userID)
		switch {
		case errors.Is(err, api.ErrSessionExpired):
			expired.Store(true)
			logger.Info(ctx, "thread polling halted, session expired", "user_id", userID)
			return
		case err != nil:
			if ctx.Err() == nil {
				logger.Warn(ctx, "thread refresh failed", "user_id", userID, "error", err)
			}
			return
		}
		deliver(msgs)
	}

	return poller.New("thread", interval, job, poller.Options{
		Timeout:   api.DefaultTimeout,
		Immediate: true,
		Logger:    logger,
	})
}
