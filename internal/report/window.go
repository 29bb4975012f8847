package report

// Window is one of the four rolling day-range buckets, counted back from the
// reference date (the newest transaction date in the upload).
type Window string

const (
	Window0to30   Window = "0-30"
	Window31to60  Window = "31-60"
	Window61to90  Window = "61-90"
	Window91to120 Window = "91-120"
)

// NumWindows is the analysis horizon; rows older than the last window are
// out of scope and excluded from aggregation.
const NumWindows = 4

var Windows = [NumWindows]Window{Window0to30, Window31to60, Window61to90, Window91to120}

// WindowForAge buckets an age in days. ok is false past the horizon.
func WindowForAge(days int) (int, bool) {
	switch {
	case days <= 30:
		return 0, true
	case days <= 60:
		return 1, true
	case days <= 90:
		return 2, true
	case days <= 120:
		return 3, true
	default:
		return -1, false
	}
}

// Curve is the ABC classification of one product within one window.
// "-" means zero revenue in that window, never a cumulative-share class.
type Curve string

const (
	CurveA    Curve = "A"
	CurveB    Curve = "B"
	CurveC    Curve = "C"
	CurveNone Curve = "-"
)

// Rank orders curves for drop/recovery comparisons: "-" < C < B < A.
func (c Curve) Rank() int {
	switch c {
	case CurveA:
		return 3
	case CurveB:
		return 2
	case CurveC:
		return 1
	default:
		return 0
	}
}

func (c Curve) Valid() bool {
	switch c {
	case CurveA, CurveB, CurveC, CurveNone:
		return true
	}
	return false
}
