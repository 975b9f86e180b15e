package domain

import "fmt"

// UnattainableTargetError reports that no quality level at any of the
// bounded dimension plans met the byte budget. Best is the smallest encoding
// observed, so callers can decide whether to accept a best effort result
// produced with a relaxed target.
type UnattainableTargetError struct {
	Target int
	Rounds int
	Best   Probe
}

func (e *UnattainableTargetError) Error() string {
	return fmt.Sprintf(
		"target of %d bytes unattainable after %d shrink rounds, smallest output was %d bytes at quality %d and %dx%d",
		e.Target, e.Rounds, e.Best.Size, e.Best.Quality, e.Best.Width, e.Best.Height,
	)
}
