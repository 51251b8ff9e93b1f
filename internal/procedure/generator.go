// Package procedure decides where a test procedure comes from: the catalog
// when one is attached, otherwise a generative provider. It tracks the one
// in-flight generation per visit and discards results nobody waits for.
package procedure

import (
	"context"
	"errors"

	"purity/internal/model"
)

// Generator produces a procedure for a food/adulterant pair. A zero or
// incomplete procedure counts as no result.
type Generator interface {
	Generate(ctx context.Context, foodName, adulterantName string) (model.TestProcedure, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, foodName, adulterantName string) (model.TestProcedure, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, foodName, adulterantName string) (model.TestProcedure, error) {
	return f(ctx, foodName, adulterantName)
}

// ErrUnavailable is returned by Unavailable.
var ErrUnavailable = errors.New("no generative provider configured")

// Unavailable is the Generator used when no API key is set: every request
// fails, so custom entries land in the failed state.
type Unavailable struct{}

// Generate implements Generator.
func (Unavailable) Generate(context.Context, string, string) (model.TestProcedure, error) {
	return model.TestProcedure{}, ErrUnavailable
}
