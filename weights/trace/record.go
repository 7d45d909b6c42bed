package trace

// AccessClass is how the accountant classified one storage access fact.
type AccessClass string

const (
	// ClassWhitelisted accesses are excluded from accounting.
	ClassWhitelisted AccessClass = "whitelisted"
	// ClassDuplicate accesses hit a key already accounted for.
	ClassDuplicate AccessClass = "duplicate"
	// ClassNewKey accesses hit a new key under a known prefix.
	ClassNewKey AccessClass = "new-key"
	// ClassNewPrefix accesses hit a key whose prefix was never seen.
	ClassNewPrefix AccessClass = "new-prefix"
)

// AccessRecord captures the accounting decision for a single access fact.
type AccessRecord struct {
	Key          string // 0x-prefixed hex
	Reads        uint32
	Writes       uint32
	Class        AccessClass
	Declared     bool   // prefix matched a storage declaration
	Storage      string // "pallet item" when declared
	Contribution uint64 // bytes added to the worst-case proof size
	Skipped      bool   // new key without a size bound
}
