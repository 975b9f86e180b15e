package planner

import (
	"testing"

	"github.com/iamNilotpal/sizefit/internal/core/domain"
)

func TestInitial(t *testing.T) {
	p := New(DefaultShrinkFactor, DefaultMaxShrinkRounds)

	tests := []struct {
		name       string
		w, h       int
		constraint domain.Constraint
		want       domain.Dimensions
	}{
		{"no constraint", 2000, 1500, domain.Constraint{}, domain.Dimensions{Width: 2000, Height: 1500}},
		{"width", 2000, 1500, domain.Constraint{MaxWidth: 800}, domain.Dimensions{Width: 800, Height: 600}},
		{"height", 2000, 1500, domain.Constraint{MaxHeight: 300}, domain.Dimensions{Width: 400, Height: 300}},
		{"width rounds", 1000, 333, domain.Constraint{MaxWidth: 500}, domain.Dimensions{Width: 500, Height: 167}},
		{"already narrower", 640, 480, domain.Constraint{MaxWidth: 800}, domain.Dimensions{Width: 640, Height: 480}},
		{"already shorter", 640, 480, domain.Constraint{MaxHeight: 480}, domain.Dimensions{Width: 640, Height: 480}},
		{"floored", 5000, 2, domain.Constraint{MaxWidth: 10}, domain.Dimensions{Width: 10, Height: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Initial(tt.w, tt.h, tt.constraint); got != tt.want {
				t.Fatalf("Initial = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestShrink(t *testing.T) {
	p := New(0.9, 10)

	tests := []struct {
		in   domain.Dimensions
		want domain.Dimensions
		ok   bool
	}{
		{domain.Dimensions{Width: 1000, Height: 500}, domain.Dimensions{Width: 900, Height: 450}, true},
		{domain.Dimensions{Width: 15, Height: 5}, domain.Dimensions{Width: 14, Height: 4}, true},
		{domain.Dimensions{Width: 5, Height: 3}, domain.Dimensions{Width: 4, Height: 2}, true},
		{domain.Dimensions{Width: 2, Height: 1}, domain.Dimensions{Width: 1, Height: 1}, true},
		{domain.Dimensions{Width: 1, Height: 1}, domain.Dimensions{Width: 1, Height: 1}, false},
	}

	for _, tt := range tests {
		got, ok := p.Shrink(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Shrink(%+v) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestShrinkConverges(t *testing.T) {
	p := New(0.5, 10)
	d := domain.Dimensions{Width: 1024, Height: 3}

	for i := 0; i < 64; i++ {
		next, ok := p.Shrink(d)
		if !ok {
			if d.Width < 1 || d.Height < 1 {
				t.Fatalf("shrunk below one pixel: %+v", d)
			}
			return
		}
		d = next
	}
	t.Fatalf("Shrink never stopped, last plan %+v", d)
}

func TestNewFallsBackToDefaults(t *testing.T) {
	p := New(1.5, -1)
	if p.shrinkFactor != DefaultShrinkFactor || p.MaxRounds() != DefaultMaxShrinkRounds {
		t.Fatalf("got factor %v rounds %d", p.shrinkFactor, p.MaxRounds())
	}
}
