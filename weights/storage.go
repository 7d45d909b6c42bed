package weights

import (
	"encoding/hex"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/benchweight/weights/trace"
)

// PrefixLen is the number of leading key bytes treated as the storage prefix.
const PrefixLen = 32

const (
	trieBranchWidth   = 16 // children per trie node
	trieHashSize      = 32 // bytes per child hash
	defaultTrieLayers = 6  // assumed when a storage item declares no max_values
)

// StorageInfo describes one declared storage item.
// MaxValues and MaxSize are nil when the item declares no bound.
type StorageInfo struct {
	PalletName  string
	StorageName string
	Prefix      []byte
	MaxValues   *uint32
	MaxSize     *uint32
}

func (si *StorageInfo) label() string {
	return si.PalletName + " " + si.StorageName
}

// Sentinel declarations present in every catalogue. Neither carries size bounds.
var (
	SkippedMetadata = StorageInfo{
		PalletName:  "Skipped",
		StorageName: "Metadata",
		Prefix:      []byte("Skipped Metadata"),
	}
	BenchmarkOverride = StorageInfo{
		PalletName:  "Benchmark",
		StorageName: "Override",
		Prefix:      []byte("Benchmark Override"),
	}
)

// StorageCatalogue indexes storage declarations by prefix. Read-only once built.
type StorageCatalogue struct {
	byPrefix map[string]*StorageInfo
}

// NewStorageCatalogue indexes infos by prefix and adds the sentinel
// declarations, which take precedence over a declared item with the same prefix.
// Later duplicates of a prefix override earlier ones.
func NewStorageCatalogue(infos []StorageInfo) *StorageCatalogue {
	c := &StorageCatalogue{byPrefix: make(map[string]*StorageInfo, len(infos)+2)}
	for i := range infos {
		info := infos[i]
		c.byPrefix[string(info.Prefix)] = &info
	}
	for _, sentinel := range []StorageInfo{SkippedMetadata, BenchmarkOverride} {
		s := sentinel
		c.byPrefix[string(s.Prefix)] = &s
	}
	return c
}

// Lookup returns the declaration registered under prefix.
func (c *StorageCatalogue) Lookup(prefix []byte) (*StorageInfo, bool) {
	info, ok := c.byPrefix[string(prefix)]
	return info, ok
}

// Len returns the number of declarations, sentinels included.
func (c *StorageCatalogue) Len() int {
	return len(c.byPrefix)
}

// KeyPrefix returns the first PrefixLen bytes of key, or key itself if shorter.
func KeyPrefix(key []byte) []byte {
	return key[:min(len(key), PrefixLen)]
}

// StorageAccountant deduplicates the storage accesses of one benchmark and
// accumulates its worst-case proof size. Not safe for concurrent use.
type StorageAccountant struct {
	catalogue    *StorageCatalogue
	seenKeys     *keySet
	seenPrefixes *keySet
	worstCase    uint64
	comments     []string
	trace        *trace.AccountingTrace
}

// NewStorageAccountant creates an accountant over catalogue. tr may be nil.
func NewStorageAccountant(catalogue *StorageCatalogue, tr *trace.AccountingTrace) *StorageAccountant {
	if catalogue == nil {
		catalogue = NewStorageCatalogue(nil)
	}
	return &StorageAccountant{
		catalogue:    catalogue,
		seenKeys:     newKeySet(),
		seenPrefixes: newKeySet(),
		trace:        tr,
	}
}

// Observe accounts for a single access fact.
func (a *StorageAccountant) Observe(access KeyAccess) {
	keyHex := "0x" + hex.EncodeToString(access.Key)
	record := trace.AccessRecord{Key: keyHex, Reads: access.Reads, Writes: access.Writes}

	if access.Whitelisted {
		record.Class = trace.ClassWhitelisted
		a.trace.RecordAccess(record)
		return
	}

	prefix := KeyPrefix(access.Key)
	keySeen := a.seenKeys.Contains(access.Key)
	prefixSeen := a.seenPrefixes.Contains(prefix)

	switch {
	case keySeen && prefixSeen:
		record.Class = trace.ClassDuplicate
		a.trace.RecordAccess(record)
		return
	case !keySeen && prefixSeen:
		// Trie path was charged with the first key of this prefix.
		a.seenKeys.Insert(access.Key)
		record.Class = trace.ClassNewKey
	case !keySeen && !prefixSeen:
		a.seenKeys.Insert(access.Key)
		a.seenPrefixes.Insert(prefix)
		record.Class = trace.ClassNewPrefix
	default:
		panic(fmt.Sprintf("storage accountant: key %s seen but its prefix is not", keyHex))
	}

	info, declared := a.catalogue.Lookup(prefix)
	record.Declared = declared
	if declared {
		record.Storage = info.label()
	}

	if !prefixSeen {
		if declared {
			a.comments = append(a.comments, fmt.Sprintf("Storage: %s (r:%d w:%d)",
				info.label(), access.Reads, access.Writes))
		} else {
			logrus.Debugf("storage key %s matches no declared prefix", keyHex)
			a.comments = append(a.comments, fmt.Sprintf("Storage: unknown [%s] (r:%d w:%d)",
				keyHex, access.Reads, access.Writes))
		}
	}

	// The key is new in every case that reaches this point.
	if declared {
		if pov, ok := worstCasePoV(info.MaxValues, info.MaxSize, !prefixSeen); ok {
			a.worstCase = SaturatingAdd(a.worstCase, pov)
			record.Contribution = pov
		} else {
			record.Skipped = true
			a.comments = append(a.comments, "Storage Proof Skipped: "+info.label())
		}
	} else {
		record.Skipped = true
		a.comments = append(a.comments, fmt.Sprintf("Storage Proof Skipped: unknown [%s] (r:%d w:%d)",
			keyHex, access.Reads, access.Writes))
	}
	a.trace.RecordAccess(record)
}

// WorstCaseProofSize returns the bound accumulated so far.
func (a *StorageAccountant) WorstCaseProofSize() uint64 {
	return a.worstCase
}

// Comments returns the attribution comments in emission order.
func (a *StorageAccountant) Comments() []string {
	return a.comments
}

// ProcessStorageResults accounts for every key touched by results, run by run
// and key by key, and returns the worst-case proof size with its comments.
func ProcessStorageResults(results []BenchmarkResult, catalogue *StorageCatalogue, tr *trace.AccountingTrace) (uint64, []string) {
	a := NewStorageAccountant(catalogue, tr)
	for i := range results {
		for _, access := range results[i].Keys {
			a.Observe(access)
		}
	}
	return a.WorstCaseProofSize(), a.Comments()
}

// WorstCaseProofSize is the proof contribution of one new key of si, counting
// the trie path when the prefix has not been touched yet.
// ok is false when si declares no MaxSize.
func (si *StorageInfo) WorstCaseProofSize(knownPrefix bool) (uint64, bool) {
	return worstCasePoV(si.MaxValues, si.MaxSize, !knownPrefix)
}

// worstCasePoV bounds the proof bytes needed for one new key of a storage
// item. A new prefix additionally pays for a trie path of the depth implied by
// maxValues. ok is false when the item declares no maxSize.
func worstCasePoV(maxValues, maxSize *uint32, newPrefix bool) (pov uint64, ok bool) {
	if maxSize == nil {
		return 0, false
	}
	var trieSize uint64
	if newPrefix {
		values := uint32(1) << (4 * defaultTrieLayers) // 16^6
		if maxValues != nil {
			values = *maxValues
		}
		trieSize = easyLog16(values) * trieBranchWidth * trieHashSize
	}
	return trieSize + uint64(*maxSize), true
}

// easyLog16 returns the least i in [1, 8] with input <= 16^(i-1).
func easyLog16(input uint32) uint64 {
	for i := uint64(0); i < 7; i++ {
		if uint64(input) <= uint64(1)<<(4*i) {
			return i + 1
		}
	}
	// uint32 holds at most 16^8 - 1
	return 8
}
