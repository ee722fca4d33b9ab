package tracked

import "fmt"

type Phase int

const (
	PhaseFetchRemote Phase = iota
	PhaseBackfill
	PhaseReconcile
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseFetchRemote:
		return "fetching"
	case PhaseBackfill:
		return "backfilling"
	case PhaseReconcile:
		return "reconciling"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// Progress is an advisory status update emitted during a sync.
type Progress struct {
	Phase   Phase
	Step    int
	Total   int
	Message string
}

// sendProgress never blocks; updates are dropped when the reader lags.
func sendProgress(ch chan<- Progress, update Progress) {
	if ch == nil {
		return
	}
	select {
	case ch <- update:
	default:
	}
}

func fetchingUpdate() Progress {
	return Progress{Phase: PhaseFetchRemote, Message: "Fetching tracked mods from Nexus..."}
}

func backfillUpdate(step, total int, domain string, modID int) Progress {
	return Progress{
		Phase:   PhaseBackfill,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching mod %d (%s)", modID, domain),
	}
}

func reconcileUpdate() Progress {
	return Progress{Phase: PhaseReconcile, Message: "Updating tracked modlist..."}
}

func doneUpdate(r *Result) Progress {
	return Progress{
		Phase:   PhaseDone,
		Message: fmt.Sprintf("Added %d, removed %d", len(r.Added), len(r.Removed)),
	}
}
