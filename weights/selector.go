package weights

import "fmt"

// Selector picks the measured cost dimension a regression is fit against.
type Selector int

const (
	ExtrinsicTime Selector = iota
	Reads
	Writes
	ProofSize
)

// Selectors lists the four cost dimensions in the order they are resolved.
var Selectors = [...]Selector{ExtrinsicTime, Reads, Writes, ProofSize}

func (s Selector) String() string {
	switch s {
	case ExtrinsicTime:
		return "extrinsic_time"
	case Reads:
		return "reads"
	case Writes:
		return "writes"
	case ProofSize:
		return "proof_size"
	default:
		return fmt.Sprintf("Selector(%d)", int(s))
	}
}

// Value extracts the measurement this selector refers to from a run.
func (s Selector) Value(r *BenchmarkResult) uint64 {
	switch s {
	case ExtrinsicTime:
		return r.ExtrinsicTime
	case Reads:
		return uint64(r.Reads)
	case Writes:
		return uint64(r.Writes)
	case ProofSize:
		return uint64(r.ProofSize)
	default:
		panic(fmt.Sprintf("unknown selector %d", int(s)))
	}
}
