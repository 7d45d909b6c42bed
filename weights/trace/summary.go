package trace

// TraceSummary aggregates statistics from an AccountingTrace.
type TraceSummary struct {
	TotalAccesses      int
	ClassCounts        map[AccessClass]int
	UnknownPrefixes    int
	SkippedKeys        int
	TotalContribution  uint64
	MaxContribution    uint64
	StorageTouchCounts map[string]int // "pallet item" → new keys charged
}

// Summarize computes aggregate statistics from an AccountingTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(at *AccountingTrace) *TraceSummary {
	summary := &TraceSummary{
		ClassCounts:        make(map[AccessClass]int),
		StorageTouchCounts: make(map[string]int),
	}
	if at == nil {
		return summary
	}

	summary.TotalAccesses = len(at.Accesses)
	for _, a := range at.Accesses {
		summary.ClassCounts[a.Class]++
		if a.Class == ClassNewPrefix && !a.Declared {
			summary.UnknownPrefixes++
		}
		if a.Skipped {
			summary.SkippedKeys++
		}
		summary.TotalContribution += a.Contribution
		if a.Contribution > summary.MaxContribution {
			summary.MaxContribution = a.Contribution
		}
		if a.Declared && (a.Class == ClassNewKey || a.Class == ClassNewPrefix) {
			summary.StorageTouchCounts[a.Storage]++
		}
	}
	return summary
}
