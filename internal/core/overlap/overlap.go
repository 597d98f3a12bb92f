// Package overlap splits two interaction sets into their shared part and the
// part unique to each.
package overlap

import "github.com/agenthands/ppimap/internal/core/model"

// Result partitions X ∪ Y into three pairwise disjoint sets.
type Result struct {
	Intersection *model.InteractionSet
	RemainderX   *model.InteractionSet
	RemainderY   *model.InteractionSet
}

// Compute returns the overlap of x and y by canonical PPI identity. Neither
// input is modified.
func Compute(x, y *model.InteractionSet) Result {
	both := x.Intersect(y)
	return Result{
		Intersection: both,
		RemainderX:   x.Difference(both),
		RemainderY:   y.Difference(both),
	}
}

// Union recombines the three parts.
func (r Result) Union() *model.InteractionSet {
	return r.Intersection.Union(r.RemainderX).Union(r.RemainderY)
}

// Counts summarises the sizes of the three parts.
type Counts struct {
	Intersection int `json:"intersection" yaml:"intersection"`
	RemainderX   int `json:"remainder_x" yaml:"remainder_x"`
	RemainderY   int `json:"remainder_y" yaml:"remainder_y"`
}

func (r Result) Counts() Counts {
	return Counts{
		Intersection: r.Intersection.Len(),
		RemainderX:   r.RemainderX.Len(),
		RemainderY:   r.RemainderY.Len(),
	}
}
