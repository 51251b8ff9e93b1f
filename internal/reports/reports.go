// Package reports stores community adulteration reports. A LocalStore keeps
// them on the device, a RemoteStore keeps them in a shared database, and a
// FallbackStore combines the two with the local copy acting as cache.
package reports

import (
	"context"

	"purity/internal/model"
)

// DefaultRemoteLimit caps how many reports a remote list returns.
const DefaultRemoteLimit = 50

// Mode names where reports are kept.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// Label is the badge text front-ends show for the mode.
func (m Mode) Label() string {
	if m == ModeRemote {
		return "Online DB"
	}
	return "Local Mode"
}

// Store is the Report Store.
//
// Save persists r, assigning an id when r has none, and returns the report
// as stored. It either fully succeeds or leaves the store unchanged.
//
// List returns reports most recent first. Repeated calls without writes in
// between return the same order.
type Store interface {
	Save(ctx context.Context, r model.Report) (model.Report, error)
	List(ctx context.Context) ([]model.Report, error)
	Mode() Mode
}
