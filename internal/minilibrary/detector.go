package minilibrary

import (
	"bookdroplist/internal/books"
)

// Thresholds tunes the detector.
type Thresholds struct {
	// Match is the minimum similarity for two records to count as the
	// same book.
	Match float64
	// AddConfidence is assigned to proposed additions. A book visible in
	// the scan is strong evidence it is on the shelf.
	AddConfidence float64
	// RemoveConfidence is assigned to proposed removals. Absence from a
	// scan is weaker evidence; spines hide behind each other.
	RemoveConfidence float64
}

// DefaultThresholds mirrors the production tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{Match: 0.6, AddConfidence: 0.8, RemoveConfidence: 0.6}
}

// Detector proposes inventory changes from a shelf scan.
type Detector struct {
	thresholds Thresholds
}

// New builds a Detector. Zero thresholds fall back to the defaults.
func New(thresholds Thresholds) *Detector {
	defaults := DefaultThresholds()
	if thresholds.Match <= 0 {
		thresholds.Match = defaults.Match
	}
	if thresholds.AddConfidence <= 0 {
		thresholds.AddConfidence = defaults.AddConfidence
	}
	if thresholds.RemoveConfidence <= 0 {
		thresholds.RemoveConfidence = defaults.RemoveConfidence
	}
	return &Detector{thresholds: thresholds}
}

// Detect diffs the scanned books against the recorded inventory. Adds
// come first, then removes, each in their source order.
func (d *Detector) Detect(inventory, scanned []books.Book) []books.BookChange {
	matchedInventory := make([]bool, len(inventory))
	var changes []books.BookChange

	for _, scan := range scanned {
		bestIdx := -1
		bestScore := 0.0
		for i, have := range inventory {
			if matchedInventory[i] {
				continue
			}
			if score := Similarity(scan, have); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx >= 0 && bestScore >= d.thresholds.Match {
			matchedInventory[bestIdx] = true
			continue
		}
		changes = append(changes, books.BookChange{
			Book:       scan,
			Action:     books.ChangeAdd,
			Confidence: d.thresholds.AddConfidence,
		})
	}

	for i, have := range inventory {
		if matchedInventory[i] {
			continue
		}
		changes = append(changes, books.BookChange{
			Book:       have,
			Action:     books.ChangeRemove,
			Confidence: d.thresholds.RemoveConfidence,
		})
	}
	return changes
}
