package jobs

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
)

// SendUnreadDigests emails every user with unread messages a summary of
// how many are waiting.
func (jr *JobRunner) SendUnreadDigests() {
	jr.runWithRecovery("SendUnreadDigests", func() {
		sent, err := jr.sendUnreadDigests(context.Background())
		if err != nil {
			logger.Error("Failed to send unread digests", "error", err)
			return
		}
		logger.Info("Unread digests sent", "count", sent)
	})
}

// sendUnreadDigests returns the number of emails delivered. A failure for
// one recipient is logged and does not stop the others.
func (jr *JobRunner) sendUnreadDigests(ctx context.Context) (int, error) {
	digests, err := jr.messages.ListUnreadDigests(ctx)
	if err != nil {
		return 0, err
	}

	var sent atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jr.workers)
	for _, d := range digests {
		if d.UnreadCount <= 0 || d.Email == "" {
			continue
		}
		g.Go(func() error {
			if err := jr.sendDigest(gctx, d); err != nil {
				logger.Error("Failed to send unread digest",
					"user_id", d.UserID,
					"email", d.Email,
					"error", err)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	err = g.Wait()
	return int(sent.Load()), err
}

func (jr *JobRunner) sendDigest(ctx context.Context, d domain.UnreadDigest) error {
	if err := jr.email.SendUnreadDigest(ctx, d.Email, d.Name, d.UnreadCount, d.Conversations); err != nil {
		return err
	}
	logger.Debug("Sent unread digest", "user_id", d.UserID, "unread", d.UnreadCount)
	return nil
}
