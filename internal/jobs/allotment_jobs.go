package jobs

import (
	"context"
	"time"

	"allotrack-backend/internal/logger"
)

// MarkOverdueAllotments flips ACTIVE and EXTENDED allotments past their due
// date to OVERDUE. Each allotment transitions through the lifecycle service
// so the guard rules stay in one place; rows that fail are logged and the
// sweep moves on.
func (jr *JobRunner) MarkOverdueAllotments() {
	jr.runWithRecovery("MarkOverdueAllotments", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		due, err := jr.repos.Allotments.ListOpenDueBefore(ctx, now)
		if err != nil {
			logger.Error("Failed to list due allotments", "error", err)
			return
		}

		count := 0
		for _, allotment := range due {
			if _, err := jr.allotments.MarkOverdue(ctx, allotment.ID, now); err != nil {
				logger.Error("Failed to mark allotment overdue",
					"allotment_id", allotment.ID, "number", allotment.Number, "error", err)
				continue
			}
			count++
			logger.Debug("Marked allotment as overdue",
				"allotment_id", allotment.ID,
				"number", allotment.Number,
				"due_date", allotment.DueDate.Format("2006-01-02"))
		}

		logger.Info("Marked allotments as overdue", "count", count, "candidates", len(due))
	})
}
