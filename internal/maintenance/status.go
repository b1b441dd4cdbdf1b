package maintenance

import "github.com/lindenpm/linden/internal/database/models"

// statusGraph is the allowed workflow: pending can start or be rejected,
// working can finish or be rejected, finished and rejected are terminal.
var statusGraph = map[models.RequestStatus][]models.RequestStatus{
	models.RequestStatusPending: {models.RequestStatusWorking, models.RequestStatusRejected},
	models.RequestStatusWorking: {models.RequestStatusFinished, models.RequestStatusRejected},
}

// CanTransition reports whether from -> to is a legal status change.
// Re-writing the current status is always allowed (notes-only updates).
func CanTransition(from, to models.RequestStatus) bool {
	if from == to {
		return true
	}
	for _, next := range statusGraph[from] {
		if next == to {
			return true
		}
	}
	return false
}
