package email

import (
	"context"
	"time"

	"go.uber.org/zap"

	"coffeechat/internal/ratelimit"
)

const defaultSendAcquireTimeout = 2 * time.Minute

// Dispatcher sends drafts under the email-send rate limiter. Sending is a
// separate stage from generation; a failed send marks the draft and moves on.
type Dispatcher struct {
	sender  Sender
	limiter *ratelimit.Limiter
	logger  *zap.Logger

	AcquireTimeout time.Duration
}

func NewDispatcher(sender Sender, limiter *ratelimit.Limiter, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		sender:         sender,
		limiter:        limiter,
		logger:         logger,
		AcquireTimeout: defaultSendAcquireTimeout,
	}
}

// Dispatch sends each draft in order, stamping status, send time and
// per-draft errors in place. Returns the number of drafts sent.
func (d *Dispatcher) Dispatch(ctx context.Context, drafts []*Draft) int {
	sent := 0
	for _, draft := range drafts {
		if d.limiter != nil && !d.limiter.Acquire(true, d.AcquireTimeout) {
			draft.Status = StatusFailed
			draft.Error = "email rate limit exceeded"
			d.logger.Warn("send skipped by rate limit", zap.String("contact", draft.ContactName))
			continue
		}

		if err := d.sender.Send(ctx, draft); err != nil {
			draft.Status = StatusFailed
			draft.Error = err.Error()
			d.logger.Warn("send failed",
				zap.String("contact", draft.ContactName),
				zap.Error(err),
			)
			continue
		}

		now := time.Now().UTC()
		draft.Status = StatusSent
		draft.SentAt = &now
		draft.Error = ""
		sent++

		d.logger.Info("draft sent",
			zap.String("contact", draft.ContactName),
			zap.String("email", draft.ContactEmail),
		)
	}
	return sent
}
