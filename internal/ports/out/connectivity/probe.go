package connectivity

import "context"

// Probe reports whether the backing store is reachable. Services consult it
// before writes that must not partially apply while offline.
type Probe interface {
	Online(ctx context.Context) bool
}

// Always is a static probe, useful as the default and in tests.
type Always bool

func (a Always) Online(context.Context) bool { return bool(a) }
