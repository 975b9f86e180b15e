// Package planner computes the dimension plans a compression call walks
// through: the initial fit to the caller's constraint, then progressively
// smaller plans when a plan cannot meet the byte budget at any quality.
package planner

import (
	"math"

	"github.com/iamNilotpal/sizefit/internal/core/domain"
)

const (
	DefaultShrinkFactor    = 0.9
	DefaultMaxShrinkRounds = 10
)

// Planner is immutable and safe for concurrent use.
type Planner struct {
	shrinkFactor float64
	maxRounds    int
}

// New returns a planner. Out of range values fall back to the defaults;
// callers are expected to have validated them already.
func New(shrinkFactor float64, maxRounds int) *Planner {
	if shrinkFactor <= 0 || shrinkFactor >= 1 {
		shrinkFactor = DefaultShrinkFactor
	}
	if maxRounds < 0 {
		maxRounds = DefaultMaxShrinkRounds
	}
	return &Planner{shrinkFactor: shrinkFactor, maxRounds: maxRounds}
}

// MaxRounds is the number of shrink plans allowed after the initial one.
func (p *Planner) MaxRounds() int {
	return p.maxRounds
}

// Initial fits (width, height) to constraint. Without a constraint the
// original dimensions come back unchanged. A width constraint yields
// (maxWidth, round(height*maxWidth/width)), symmetric for height. The
// constraint is a maximum: images already within it are not enlarged.
func (p *Planner) Initial(width, height int, constraint domain.Constraint) domain.Dimensions {
	original := domain.Dimensions{Width: width, Height: height}

	switch {
	case constraint.MaxWidth > 0 && width > constraint.MaxWidth:
		return domain.Dimensions{
			Width:  constraint.MaxWidth,
			Height: atLeastOne(math.Round(float64(height) * float64(constraint.MaxWidth) / float64(width))),
		}
	case constraint.MaxHeight > 0 && height > constraint.MaxHeight:
		return domain.Dimensions{
			Width:  atLeastOne(math.Round(float64(width) * float64(constraint.MaxHeight) / float64(height))),
			Height: constraint.MaxHeight,
		}
	default:
		return original
	}
}

// Shrink returns the next smaller plan: each side multiplied by the shrink
// factor, rounded, floored at 1 pixel. A side longer than one pixel always
// loses at least one pixel, otherwise rounding would stall small plans
// (5 * 0.9 rounds back to 5). It reports false once the plan is 1x1.
func (p *Planner) Shrink(current domain.Dimensions) (domain.Dimensions, bool) {
	next := domain.Dimensions{
		Width:  p.shrinkSide(current.Width),
		Height: p.shrinkSide(current.Height),
	}
	return next, next != current
}

func (p *Planner) shrinkSide(side int) int {
	next := atLeastOne(math.Round(float64(side) * p.shrinkFactor))
	if next >= side && side > 1 {
		next = side - 1
	}
	return next
}

func atLeastOne(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}
