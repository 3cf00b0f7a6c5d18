package trajectory

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/shopspring/decimal"
)

// Sampler keeps the positions of selected bodies after every n-th step.
// The initial state is not recorded; the first point is at t = dt.
type Sampler struct {
	every  int
	ids    []int
	tracks map[int][]Point
}

func NewSampler(every int, ids ...int) *Sampler {
	if every < 1 {
		every = 1
	}
	tracks := make(map[int][]Point, len(ids))
	for _, id := range ids {
		tracks[id] = make([]Point, 0, 1024)
	}
	return &Sampler{every: every, ids: ids, tracks: tracks}
}

func (s *Sampler) OnStep(step int, t decimal.Decimal, sys *physics.System) error {
	if (step+1)%s.every != 0 {
		return nil
	}
	for _, id := range s.ids {
		b, ok := sys.Body(id)
		if !ok {
			return fmt.Errorf("%w: no body with id %d to sample", dynamo.ErrValidation, id)
		}
		s.tracks[id] = append(s.tracks[id], NewPoint(t, b.X))
	}
	return nil
}

func (s *Sampler) IDs() []int { return s.ids }

func (s *Sampler) Points(id int) []Point { return s.tracks[id] }
