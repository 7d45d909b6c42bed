package weights

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/benchweight/weights/trace"
)

func u32(v uint32) *uint32 { return &v }

// key builds a storage key of a 32-byte prefix filled with p followed by suffix.
func key(p byte, suffix ...byte) []byte {
	return append(bytes.Repeat([]byte{p}, PrefixLen), suffix...)
}

func TestEasyLog16_Boundaries(t *testing.T) {
	tests := []struct {
		input uint32
		want  uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{16, 2},
		{17, 3},
		{256, 3},
		{257, 4},
		{1 << 24, 7},    // 16^6
		{1<<24 + 1, 8},  // beyond 16^6
		{1 << 28, 8},    // 16^7 is not probed
		{^uint32(0), 8}, // max uint32
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, easyLog16(tt.input), "easyLog16(%d)", tt.input)
	}
}

func TestWorstCasePoV_NewPrefixChargesTriePath(t *testing.T) {
	// GIVEN an item with 16 values of at most 40 bytes
	// WHEN its first key is seen
	pov, ok := worstCasePoV(u32(16), u32(40), true)

	// THEN two trie layers of 16 hashes are charged on top of the value
	require.True(t, ok)
	assert.Equal(t, uint64(2*16*32+40), pov)
}

func TestWorstCasePoV_KnownPrefixChargesValueOnly(t *testing.T) {
	pov, ok := worstCasePoV(u32(16), u32(40), false)
	require.True(t, ok)
	assert.Equal(t, uint64(40), pov)
}

func TestWorstCasePoV_UndeclaredMaxValuesAssumesSixLayers(t *testing.T) {
	pov, ok := worstCasePoV(nil, u32(100), true)
	require.True(t, ok)
	assert.Equal(t, uint64(7*16*32+100), pov)
}

func TestWorstCasePoV_NoMaxSizeIsNotApplicable(t *testing.T) {
	_, ok := worstCasePoV(u32(16), nil, true)
	assert.False(t, ok)
}

func TestKeyPrefix_ShortKeyIsItsOwnPrefix(t *testing.T) {
	short := []byte{0xaa, 0xbb}
	assert.Equal(t, short, KeyPrefix(short))
	long := key(0x01, 0xff, 0xee)
	assert.Equal(t, bytes.Repeat([]byte{0x01}, PrefixLen), KeyPrefix(long))
}

func TestKeySet_InsertAndContains(t *testing.T) {
	s := newKeySet()
	k := []byte{1, 2, 3}

	assert.False(t, s.Contains(k))
	assert.True(t, s.Insert(k))
	assert.False(t, s.Insert([]byte{1, 2, 3}), "second insert of equal bytes must report present")
	assert.True(t, s.Contains(k))
	assert.False(t, s.Contains([]byte{1, 2}))
	assert.Equal(t, 1, s.Len())

	// Mutating the caller's slice must not change the stored key
	k[0] = 9
	assert.True(t, s.Contains([]byte{1, 2, 3}))
}

func testCatalogue() *StorageCatalogue {
	return NewStorageCatalogue([]StorageInfo{
		{PalletName: "System", StorageName: "Account", Prefix: KeyPrefix(key(0x01)), MaxSize: u32(100)},
		{PalletName: "Balances", StorageName: "Locks", Prefix: KeyPrefix(key(0x02)), MaxValues: u32(16), MaxSize: u32(40)},
		{PalletName: "Timestamp", StorageName: "Now", Prefix: KeyPrefix(key(0x03))},
	})
}

func TestStorageCatalogue_SentinelsAlwaysPresent(t *testing.T) {
	c := NewStorageCatalogue(nil)

	info, ok := c.Lookup([]byte("Skipped Metadata"))
	require.True(t, ok)
	assert.Equal(t, "Skipped", info.PalletName)
	assert.Nil(t, info.MaxSize)

	info, ok = c.Lookup([]byte("Benchmark Override"))
	require.True(t, ok)
	assert.Equal(t, "Override", info.StorageName)
	assert.Equal(t, 2, c.Len())
}

func TestProcessStorageResults_NewPrefixThenNewKey(t *testing.T) {
	// GIVEN two keys under the same declared prefix, the first read twice
	results := []BenchmarkResult{
		{Keys: []KeyAccess{{Key: key(0x01, 0xa), Reads: 1}}},
		{Keys: []KeyAccess{{Key: key(0x01, 0xa), Reads: 1}, {Key: key(0x01, 0xb), Reads: 2, Writes: 1}}},
	}

	// WHEN accounted
	pov, comments := ProcessStorageResults(results, testCatalogue(), nil)

	// THEN the trie path is charged once and the value size per distinct key
	assert.Equal(t, uint64(7*512+100+100), pov)
	// AND only the first key of the prefix is attributed
	assert.Equal(t, []string{"Storage: System Account (r:1 w:0)"}, comments)
}

func TestProcessStorageResults_UnknownPrefixDegradesToComments(t *testing.T) {
	results := []BenchmarkResult{
		{Keys: []KeyAccess{{Key: []byte{0x0a, 0x0b}, Reads: 2, Writes: 1}}},
	}

	pov, comments := ProcessStorageResults(results, testCatalogue(), nil)

	assert.Zero(t, pov)
	assert.Equal(t, []string{
		"Storage: unknown [0x0a0b] (r:2 w:1)",
		"Storage Proof Skipped: unknown [0x0a0b] (r:2 w:1)",
	}, comments)
}

func TestProcessStorageResults_DeclaredWithoutMaxSizeIsSkipped(t *testing.T) {
	results := []BenchmarkResult{
		{Keys: []KeyAccess{{Key: key(0x03), Reads: 1}, {Key: []byte("Skipped Metadata"), Reads: 0, Writes: 0}}},
	}

	pov, comments := ProcessStorageResults(results, testCatalogue(), nil)

	assert.Zero(t, pov)
	assert.Equal(t, []string{
		"Storage: Timestamp Now (r:1 w:0)",
		"Storage Proof Skipped: Timestamp Now",
		"Storage: Skipped Metadata (r:0 w:0)",
		"Storage Proof Skipped: Skipped Metadata",
	}, comments)
}

func TestProcessStorageResults_WhitelistedKeyIgnored(t *testing.T) {
	results := []BenchmarkResult{
		{Keys: []KeyAccess{
			{Key: key(0x01, 0xa), Reads: 1, Whitelisted: true},
			{Key: []byte{0xde, 0xad}, Reads: 1, Whitelisted: true},
		}},
	}

	pov, comments := ProcessStorageResults(results, testCatalogue(), nil)

	assert.Zero(t, pov)
	assert.Empty(t, comments)
}

func TestProcessStorageResults_WhitelistedDoesNotMarkKeySeen(t *testing.T) {
	// GIVEN a key whitelisted in one run and touched normally in the next
	results := []BenchmarkResult{
		{Keys: []KeyAccess{{Key: key(0x02, 0x1), Reads: 1, Whitelisted: true}}},
		{Keys: []KeyAccess{{Key: key(0x02, 0x1), Reads: 3}}},
	}

	pov, comments := ProcessStorageResults(results, testCatalogue(), nil)

	// THEN the second access is accounted as a new prefix
	assert.Equal(t, uint64(2*512+40), pov)
	assert.Equal(t, []string{"Storage: Balances Locks (r:3 w:0)"}, comments)
}

func TestProcessStorageResults_RunOrderInvariant(t *testing.T) {
	runs := []BenchmarkResult{
		{Keys: []KeyAccess{{Key: key(0x01, 1), Reads: 1}, {Key: key(0x02, 1), Reads: 1}}},
		{Keys: []KeyAccess{{Key: key(0x02, 2), Writes: 1}, {Key: key(0x01, 1), Reads: 1}}},
		{Keys: []KeyAccess{{Key: key(0x01, 2), Reads: 1}, {Key: []byte{0x99}, Reads: 1}}},
	}
	reversed := []BenchmarkResult{runs[2], runs[1], runs[0]}

	forward, _ := ProcessStorageResults(runs, testCatalogue(), nil)
	backward, _ := ProcessStorageResults(reversed, testCatalogue(), nil)

	assert.Equal(t, forward, backward)
	// 0x01: trie(7) + 2 values of 100; 0x02: trie(2) + 2 values of 40
	assert.Equal(t, uint64(7*512+200+2*512+80), forward)
}

func TestStorageAccountant_WorstCaseNonDecreasing(t *testing.T) {
	a := NewStorageAccountant(testCatalogue(), nil)
	accesses := []KeyAccess{
		{Key: key(0x01, 1)}, {Key: key(0x02, 1)}, {Key: key(0x01, 1)},
		{Key: []byte{0x42}}, {Key: key(0x02, 9)}, {Key: key(0x03)},
	}
	var last uint64
	for _, acc := range accesses {
		a.Observe(acc)
		assert.GreaterOrEqual(t, a.WorstCaseProofSize(), last)
		last = a.WorstCaseProofSize()
	}
}

func TestStorageAccountant_KeySeenPrefixUnseenPanics(t *testing.T) {
	// GIVEN corrupted bookkeeping with a key recorded but not its prefix
	a := NewStorageAccountant(testCatalogue(), nil)
	a.seenKeys.Insert(key(0x01, 1))

	// WHEN the key is observed THEN the accountant refuses to continue
	assert.Panics(t, func() { a.Observe(KeyAccess{Key: key(0x01, 1)}) })
}

func TestStorageAccountant_TraceRecordsClasses(t *testing.T) {
	tr := trace.NewAccountingTrace(trace.TraceLevelDecisions, "transfer")
	a := NewStorageAccountant(testCatalogue(), tr)

	a.Observe(KeyAccess{Key: key(0x01, 1), Reads: 1})
	a.Observe(KeyAccess{Key: key(0x01, 2), Reads: 1})
	a.Observe(KeyAccess{Key: key(0x01, 1), Reads: 1})
	a.Observe(KeyAccess{Key: []byte{0x07}, Writes: 1})
	a.Observe(KeyAccess{Key: key(0x02), Whitelisted: true})

	require.Len(t, tr.Accesses, 5)
	assert.Equal(t, trace.ClassNewPrefix, tr.Accesses[0].Class)
	assert.Equal(t, uint64(7*512+100), tr.Accesses[0].Contribution)
	assert.Equal(t, "System Account", tr.Accesses[0].Storage)
	assert.Equal(t, trace.ClassNewKey, tr.Accesses[1].Class)
	assert.Equal(t, uint64(100), tr.Accesses[1].Contribution)
	assert.Equal(t, trace.ClassDuplicate, tr.Accesses[2].Class)
	assert.False(t, tr.Accesses[3].Declared)
	assert.True(t, tr.Accesses[3].Skipped)
	assert.Equal(t, "0x07", tr.Accesses[3].Key)
	assert.Equal(t, trace.ClassWhitelisted, tr.Accesses[4].Class)

	summary := trace.Summarize(tr)
	assert.Equal(t, a.WorstCaseProofSize(), summary.TotalContribution)
	assert.Equal(t, 1, summary.UnknownPrefixes)
}
