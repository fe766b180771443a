package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemovalCandidates_BaselineMinusDesired(t *testing.T) {
	baseline := NewKeySet(IdentityKey{Name: "F1", Classifier: "P1"}, IdentityKey{Name: "F2", Classifier: "P1"})
	desired := NewKeySet(IdentityKey{Name: "f1", Classifier: "p1"})

	assert.Equal(t, []IdentityKey{{Name: "F2", Classifier: "P1"}}, RemovalCandidates(baseline, desired))
}

func TestRemovalCandidates_NoBaseline(t *testing.T) {
	desired := NewKeySet(IdentityKey{Name: "F1", Classifier: "P1"})
	assert.Empty(t, RemovalCandidates(nil, desired))
}

func TestDiff_Changeset(t *testing.T) {
	baseline := NewKeySet(
		IdentityKey{Name: "F1", Classifier: "P1"},
		IdentityKey{Name: "F2", Classifier: "P1"},
		IdentityKey{Name: "F3", Classifier: "P2"},
	)
	desired := NewKeySet(
		IdentityKey{Name: "F3", Classifier: "P2"},
		IdentityKey{Name: "F4", Classifier: "P1"},
		IdentityKey{Name: "F1", Classifier: "P1"},
	)

	cs := Diff(baseline, desired)
	assert.Equal(t, []IdentityKey{{Name: "F4", Classifier: "P1"}}, cs.Added)
	assert.Equal(t, []IdentityKey{{Name: "F1", Classifier: "P1"}, {Name: "F3", Classifier: "P2"}}, cs.Retained)
	assert.Equal(t, []IdentityKey{{Name: "F2", Classifier: "P1"}}, cs.Removed)
}

func TestDiff_OrderIndependent(t *testing.T) {
	keys := []IdentityKey{
		{Name: "A", Classifier: "X"},
		{Name: "B", Classifier: "X"},
		{Name: "C", Classifier: "Y"},
		{Name: "D", Classifier: "Y"},
	}
	desired := NewKeySet(keys[1])

	forward := RemovalCandidates(NewKeySet(keys...), desired)
	reversed := RemovalCandidates(NewKeySet(keys[3], keys[2], keys[1], keys[0]), desired)

	assert.Equal(t, forward, reversed)
	assert.Len(t, forward, 3)
	for _, k := range forward {
		assert.False(t, desired.Contains(k))
	}
}
