package backoffdelay

import (
	"time"
)

type exponential struct {
	growthRate uint
	interval   time.Duration
	maximum    time.Duration
}

func newExponential(minimumDelay, maximumDelay time.Duration,
	growthRate uint) *exponential {
	if minimumDelay <= 0 {
		minimumDelay = time.Second
	}
	if maximumDelay <= minimumDelay {
		maximumDelay = minimumDelay * 10
	}
	return &exponential{
		growthRate: growthRate,
		interval:   minimumDelay,
		maximum:    maximumDelay,
	}
}

func (s *exponential) Sleep() {
	time.Sleep(s.interval)
	s.interval += s.interval >> s.growthRate
	if s.interval > s.maximum {
		s.interval = s.maximum
	}
}
