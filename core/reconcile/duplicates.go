package reconcile

import "fmt"

// DuplicatePolicy decides which rows survive when several share an identity key.
type DuplicatePolicy string

const (
	// DuplicatesLastWins keeps the last row for each key.
	DuplicatesLastWins DuplicatePolicy = "last-wins"
	// DuplicatesFirstWins keeps the first row for each key.
	DuplicatesFirstWins DuplicatePolicy = "first-wins"
	// DuplicatesReject skips every row of a duplicated key.
	DuplicatesReject DuplicatePolicy = "reject"
	// DuplicatesKeepAll keeps every row, for add-mode batches that stack loads.
	DuplicatesKeepAll DuplicatePolicy = "keep-all"
)

// Valid reports whether p is a known policy.
func (p DuplicatePolicy) Valid() bool {
	switch p {
	case DuplicatesLastWins, DuplicatesFirstWins, DuplicatesReject, DuplicatesKeepAll:
		return true
	}
	return false
}

// ResolveDuplicates marks duplicate rows as skipped according to the policy.
// Rows that are already skipped still take part in duplicate detection.
// The returned slice is a copy in the original order.
func ResolveDuplicates(rows []Row, policy DuplicatePolicy) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	if policy == DuplicatesKeepAll {
		return out
	}

	groups := make(map[string][]int)
	var order []string
	for i, r := range out {
		if !r.Key.Valid() {
			continue
		}
		id := r.Key.ID()
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], i)
	}

	for _, id := range order {
		idx := groups[id]
		if len(idx) < 2 {
			continue
		}
		switch policy {
		case DuplicatesFirstWins:
			for _, i := range idx[1:] {
				markDuplicate(&out[i], out[idx[0]].Index)
			}
		case DuplicatesReject:
			for _, i := range idx {
				if out[i].Skip == "" {
					out[i].Skip = fmt.Sprintf("duplicate key rejected (%d rows)", len(idx))
				}
			}
		default:
			last := idx[len(idx)-1]
			for _, i := range idx[:len(idx)-1] {
				markDuplicate(&out[i], out[last].Index)
			}
		}
	}
	return out
}

func markDuplicate(r *Row, winner int) {
	if r.Skip == "" {
		r.Skip = fmt.Sprintf("duplicate key superseded by row %d", winner)
	}
}
