package service

import "time"

// StalenessPolicy supplies the cutoff timestamp that splits users into
// active and inactive. A user whose last activity is at or after the
// cutoff counts as active.
type StalenessPolicy struct {
	window time.Duration
	now    func() time.Time
}

func NewStalenessPolicy(window time.Duration) *StalenessPolicy {
	return &StalenessPolicy{
		window: window,
		now:    time.Now,
	}
}

// StaleCutoff returns the timestamp below which activity is stale.
func (p *StalenessPolicy) StaleCutoff() time.Time {
	return p.now().Add(-p.window)
}
