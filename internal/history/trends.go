package history

// Trend summarizes how warning counts moved between the two most recent
// runs of a project.
type Trend struct {
	Latest        *Run
	Previous      *Run
	WarningDelta  int
	FileDelta     int
	FirstRecorded bool // true when only a single run exists
}

// ComputeTrend derives the trend from runs ordered oldest to newest, as
// returned by LoadRuns. Returns nil when there is nothing recorded.
func ComputeTrend(runs []Run) *Trend {
	if len(runs) == 0 {
		return nil
	}
	latest := runs[len(runs)-1]
	if len(runs) == 1 {
		return &Trend{Latest: &latest, FirstRecorded: true}
	}
	previous := runs[len(runs)-2]
	return &Trend{
		Latest:       &latest,
		Previous:     &previous,
		WarningDelta: latest.WarningCount - previous.WarningCount,
		FileDelta:    latest.FileCount - previous.FileCount,
	}
}
