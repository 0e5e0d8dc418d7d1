// Package audit turns the attendance change feed into structured log lines.
package audit

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"rollbook/internal/attendance"
	"rollbook/internal/queue"
)

// Consumer is the read side of a queue.
type Consumer interface {
	Consume(ctx context.Context) (<-chan queue.Message, error)
}

// Run logs every attendance change until ctx is done or the feed closes.
// It returns the number of changes logged.
func Run(ctx context.Context, q Consumer, logger *zap.Logger) (int, error) {
	messages, err := q.Consume(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for msg := range messages {
		if msg.Type != queue.TypeAttendanceUpdated {
			logger.Debug("skipping message", zap.String("type", msg.Type))
			continue
		}
		var change attendance.Change
		if err := json.Unmarshal(msg.Body, &change); err != nil {
			logger.Warn("undecodable attendance change", zap.Error(err))
			continue
		}
		logger.Info("attendance updated",
			zap.String("student_id", change.StudentID),
			zap.String("date", change.Date),
			zap.String("status", string(change.Status)),
			zap.String("reason", change.Reason),
			zap.Bool("justified", change.Justified),
			zap.String("request_id", change.RequestID),
			zap.Time("at", change.At),
			zap.Time("published_at", msg.PublishedAt),
		)
		n++
	}
	return n, nil
}
