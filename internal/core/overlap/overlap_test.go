package overlap

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/ppimap/internal/core/model"
)

func ppi(a, b string) model.PPI {
	return model.MustPPI(model.NewProtein(a, model.StringDB), model.NewProtein(b, model.StringDB))
}

func TestCompute_Scenario(t *testing.T) {
	// ("A","B") and ("B","A") collapse into one interaction
	x := model.NewInteractionSet(ppi("A", "B"), ppi("B", "A"))
	assert.Equal(t, 1, x.Len())

	y := model.NewInteractionSet(ppi("B", "A"), ppi("C", "D"))
	res := Compute(x, y)

	assert.Equal(t, []model.PPI{ppi("A", "B")}, res.Intersection.Sorted())
	assert.Equal(t, 0, res.RemainderX.Len())
	assert.Equal(t, []model.PPI{ppi("C", "D")}, res.RemainderY.Sorted())
	assert.Equal(t, Counts{Intersection: 1, RemainderX: 0, RemainderY: 1}, res.Counts())
}

func TestCompute_PartitionLaw(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	random := func(n int) *model.InteractionSet {
		s := model.NewInteractionSet()
		for s.Len() < n {
			a, b := rng.Intn(12), rng.Intn(12)
			if a == b {
				continue
			}
			s.Add(ppi(fmt.Sprintf("p%d", a), fmt.Sprintf("p%d", b)))
		}
		return s
	}

	for i := 0; i < 50; i++ {
		x, y := random(rng.Intn(20)), random(rng.Intn(20))
		res := Compute(x, y)

		assert.Equal(t, 0, res.Intersection.Intersect(res.RemainderX).Len())
		assert.Equal(t, 0, res.Intersection.Intersect(res.RemainderY).Len())
		assert.Equal(t, 0, res.RemainderX.Intersect(res.RemainderY).Len())
		assert.True(t, res.Union().Equal(x.Union(y)))
	}
}

func TestCompute_DoesNotModifyInputs(t *testing.T) {
	x := model.NewInteractionSet(ppi("A", "B"), ppi("E", "F"))
	y := model.NewInteractionSet(ppi("A", "B"))

	res := Compute(x, y)
	res.RemainderX.Add(ppi("G", "H"))

	assert.Equal(t, 2, x.Len())
	assert.Equal(t, 1, y.Len())
	assert.False(t, x.Contains(ppi("G", "H")))
}

func TestCompute_EmptySets(t *testing.T) {
	res := Compute(model.NewInteractionSet(), model.NewInteractionSet(ppi("A", "B")))
	assert.Equal(t, 0, res.Intersection.Len())
	assert.Equal(t, 0, res.RemainderX.Len())
	assert.Equal(t, 1, res.RemainderY.Len())
}
