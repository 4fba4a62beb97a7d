// Package reports computes read-only aggregates over snapshots of the domain
// collections. Nothing here touches the store; callers pass in the slices and
// a reference time, which keeps every function trivially testable.
package reports

// BranchScoped is satisfied by every entity that belongs to a branch.
type BranchScoped interface {
	Branch() string
}

// ForBranch keeps the items owned by branchID, preserving source order.
func ForBranch[T BranchScoped](items []T, branchID string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.Branch() == branchID {
			out = append(out, item)
		}
	}
	return out
}
