package plan

import "abccurve/internal/segment"

// Front is the single strategic bucket a product lands in. Precedence is
// fixed so every product gets exactly one front no matter how many segments
// it belongs to.
type Front string

const (
	FrontDefense      Front = "Defense, Anchor"
	FrontCorrection   Front = "Correction, Revenue leak"
	FrontRevitalize   Front = "Correction, Revitalize"
	FrontAttack       Front = "Attack, Growth"
	FrontCleanup      Front = "Cleanup, Stalled"
	FrontOptimization Front = "Optimization"
)

// ResolveFront picks the front for a product, first match wins.
func ResolveFront(id string, seg *segment.Result) Front {
	switch {
	case seg.Anchor[id]:
		return FrontDefense
	case hasLeak(id, seg):
		return FrontCorrection
	case seg.Revitalize[id]:
		return FrontRevitalize
	case seg.Rising[id] || seg.Opportunity[id]:
		return FrontAttack
	case seg.DeadStock[id] || seg.Inactivate[id]:
		return FrontCleanup
	default:
		return FrontOptimization
	}
}

func hasLeak(id string, seg *segment.Result) bool {
	_, ok := seg.Leak[id]
	return ok
}
