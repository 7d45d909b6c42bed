// Package trace records the decisions of the storage accountant.
// It has no dependencies on weights/ and stores pure data types.
package trace

// TraceLevel controls the verbosity of accounting traces.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures one record per storage access fact.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// AccountingTrace collects the access records of one benchmark.
type AccountingTrace struct {
	Level     TraceLevel
	Benchmark string
	Accesses  []AccessRecord
}

// NewAccountingTrace creates an AccountingTrace ready for recording.
// Returns nil for TraceLevelNone so callers can pass the result straight
// through; recording on a nil trace is a no-op.
func NewAccountingTrace(level TraceLevel, benchmark string) *AccountingTrace {
	if level == "" || level == TraceLevelNone {
		return nil
	}
	return &AccountingTrace{
		Level:     level,
		Benchmark: benchmark,
		Accesses:  make([]AccessRecord, 0),
	}
}

// RecordAccess appends an access record.
func (at *AccountingTrace) RecordAccess(record AccessRecord) {
	if at == nil {
		return
	}
	at.Accesses = append(at.Accesses, record)
}
