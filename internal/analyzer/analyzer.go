// Package analyzer turns free-form story text into a structured dramatized
// script by calling an external language-model service and validating the
// result shape before handing it to the pipeline.
package analyzer

import (
	"context"
	"errors"

	"github.com/example/audiodrama/internal/script"
)

// ErrAnalysis covers every analysis failure: transport errors, non-2xx
// responses, and responses that do not decode into a valid script.
var ErrAnalysis = errors.New("script analysis failed")

// Client analyzes non-empty text into a script satisfying the data-model
// invariants. A malformed service response is an analysis failure, never
// silently accepted.
type Client interface {
	Analyze(ctx context.Context, text string) (*script.Script, error)
}
