package reconcile

// Changeset compares a baseline snapshot with the desired set.
type Changeset struct {
	// Added holds keys in the desired set but not in the baseline.
	Added []IdentityKey `json:"added" yaml:"added"`

	// Retained holds keys present in both.
	Retained []IdentityKey `json:"retained" yaml:"retained"`

	// Removed holds keys in the baseline but not in the desired set.
	Removed []IdentityKey `json:"removed" yaml:"removed"`
}

// Diff computes the changeset. A nil baseline yields no removals and no retained keys.
// Every slice is sorted by the folded key.
func Diff(baseline, desired *KeySet) Changeset {
	var cs Changeset
	for _, k := range desired.Keys() {
		if baseline.Contains(k) {
			cs.Retained = append(cs.Retained, k)
		} else {
			cs.Added = append(cs.Added, k)
		}
	}
	for _, k := range baseline.Keys() {
		if !desired.Contains(k) {
			cs.Removed = append(cs.Removed, k)
		}
	}
	return cs
}

// RemovalCandidates returns baseline \ desired.
func RemovalCandidates(baseline, desired *KeySet) []IdentityKey {
	return Diff(baseline, desired).Removed
}
