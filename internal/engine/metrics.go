// Package engine implements the typing assessment core: the pure
// metrics calculator and the timed session state machine. Everything
// here is deterministic and free of I/O so the server can recompute a
// submission's metrics and get byte-identical numbers to a live session.
package engine

import (
	"math"
	"strings"
)

// Metrics is the derived view of a typed text against its reference.
type Metrics struct {
	WPM      int `json:"wpm"`
	Accuracy int `json:"accuracy"` // 0-100
	Errors   int `json:"errors"`
}

// Compute scores typed against reference after elapsedSeconds of typing.
//
// WPM counts whitespace-delimited tokens, not length/5: a trailing
// partial word counts as a full word. Errors are strict positional
// character mismatches; no edit distance, no partial credit. Accuracy
// defaults to 100 before any input.
func Compute(reference, typed string, elapsedSeconds int) Metrics {
	typedRunes := []rune(typed)
	if len(typedRunes) == 0 {
		return Metrics{WPM: 0, Accuracy: 100, Errors: 0}
	}

	wpm := 0
	if elapsedSeconds > 0 {
		words := len(strings.Fields(typed))
		minutes := float64(elapsedSeconds) / 60.0
		wpm = int(math.Round(float64(words) / minutes))
	}

	refRunes := []rune(reference)
	errors := 0
	for i, r := range typedRunes {
		if i >= len(refRunes) || r != refRunes[i] {
			errors++
		}
	}

	accuracy := int(math.Round(float64(len(typedRunes)-errors) / float64(len(typedRunes)) * 100))

	return Metrics{WPM: wpm, Accuracy: accuracy, Errors: errors}
}
