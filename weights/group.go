package weights

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// ErrEmptyInput is returned when there are no batches to analyze at all.
var ErrEmptyInput = errors.New("empty batches")

// PalletKey identifies one pallet instance.
type PalletKey struct {
	Pallet   string
	Instance string
}

// BatchGroup is the batches of one pallet instance in input order.
type BatchGroup struct {
	PalletKey
	Batches []*BenchmarkBatch
}

// GroupBatches organizes batches by pallet instance, so
// [(p1, b1), (p1, b2), (p2, b1), (p1, b3)] becomes p1 → [b1, b2, b3], p2 → [b1].
// Groups keep first-seen order. Batches without samples are dropped.
// Returns ErrEmptyInput if batches is empty, or a validation error if a batch
// declares inconsistent parameters.
func GroupBatches(batches []BenchmarkBatch) ([]BatchGroup, error) {
	if len(batches) == 0 {
		return nil, ErrEmptyInput
	}

	var groups []BatchGroup
	index := make(map[PalletKey]int)
	for i := range batches {
		b := &batches[i]
		if b.IsEmpty() {
			logrus.Debugf("skipping %s/%s: no samples", b.Pallet, b.Benchmark)
			continue
		}
		if err := b.Validate(); err != nil {
			return nil, err
		}
		key := PalletKey{Pallet: b.Pallet, Instance: b.Instance}
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, BatchGroup{PalletKey: key})
		}
		groups[gi].Batches = append(groups[gi].Batches, b)
	}
	return groups, nil
}

// MapResults analyzes every non-empty batch with oracle and returns one
// PalletResults per pallet instance in first-seen order. ranges may be nil.
func MapResults(
	batches []BenchmarkBatch,
	storageInfo []StorageInfo,
	ranges map[RangeKey][]ComponentRange,
	oracle RegressionOracle,
) ([]PalletResults, error) {
	a := &Analyzer{
		Oracle:    oracle,
		Catalogue: NewStorageCatalogue(storageInfo),
		Ranges:    ranges,
	}
	return a.Run(batches)
}
