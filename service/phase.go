package service

import "time"

// Phase is where a screen is in its load/submit cycle.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	Failed
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	case Submitting:
		return "submitting"
	}
	return "unknown"
}

// nowFunc is the clock used for form defaults.
var nowFunc = time.Now
