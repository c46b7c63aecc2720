// Package classify implements spec §4.3: mapping a marker pane's
// (glass meta, glass name) pair to its semantic Mode.
package classify

import (
	"strings"

	"github.com/mldsl-tools/mldsl/internal/model"
)

var locationTokens = []string{"местополож", "location", "locat"}
var vectorTokens = []string{"вектор", "vector"}
var blockTokens = []string{"блок", "block"}
var itemTokens = []string{"предмет", "item"}

func containsAny(name string, tokens []string) bool {
	low := strings.ToLower(name)
	for _, t := range tokens {
		if strings.Contains(low, t) {
			return true
		}
	}
	return false
}

func hasPrefixAny(name string, tokens []string) bool {
	low := strings.ToLower(strings.TrimSpace(name))
	for _, t := range tokens {
		if strings.HasPrefix(low, t) {
			return true
		}
	}
	return false
}

// NeighborHint is the minimal neighbor-item view the classifier needs to
// disambiguate meta=5 panes (ARRAY vs LOCATION).
type NeighborHint struct {
	HasItem  bool
	ItemID   string
}

// paperLike/frameLike mirror the "input item" shapes from §4.4: a
// paper-like id suggests LOCATION, a frame-like id suggests ARRAY.
func paperLike(id string) bool {
	return strings.Contains(id, "paper")
}

func frameLike(id string) bool {
	return strings.Contains(id, "item_frame") || strings.Contains(id, "frame")
}

// Classify determines the Mode of a marker pane given its glass meta,
// glass name, and (for the meta=5 ambiguous case) its bound neighbor, if
// any has already been chosen by the caller. neighbor may be zero-valued
// when the caller hasn't resolved a binding yet, in which case the
// location-token / default-ARRAY rules still apply.
func Classify(meta int, name string, neighbor NeighborHint) (model.Mode, bool) {
	if hasPrefixAny(name, vectorTokens) {
		return model.ModeVector, true
	}
	if containsAny(name, blockTokens) {
		return model.ModeBlock, true
	}

	switch meta {
	case 0:
		return model.ModeAny, true
	case 1:
		return model.ModeVariable, true
	case 3:
		return model.ModeText, true
	case 4:
		return model.ModeItem, true
	case 9:
		return model.ModeVector, true
	case 14:
		return model.ModeNumber, true
	case 5:
		if containsAny(name, locationTokens) {
			return model.ModeLocation, true
		}
		if neighbor.HasItem {
			if paperLike(neighbor.ItemID) {
				return model.ModeLocation, true
			}
			if frameLike(neighbor.ItemID) {
				return model.ModeArray, true
			}
		}
		return model.ModeArray, true
	case 13:
		if containsAny(name, blockTokens) || containsAny(name, itemTokens) {
			return model.ModeItem, true
		}
		return "", false
	default:
		return "", false
	}
}
