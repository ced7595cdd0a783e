package persist

// Persister handles I/O for a specific state type using a Codec.
type Persister[T any] struct {
	dir      string
	basename string
	codec    Codec
}

// NewPersister creates a persister for dir/basename<ext>.
func NewPersister[T any](dir, basename string, codec Codec) *Persister[T] {
	return &Persister[T]{
		dir:      dir,
		basename: basename,
		codec:    codec,
	}
}

// Path returns the state file location.
func (p *Persister[T]) Path() string {
	return StatePath(p.dir, p.basename, p.codec)
}

// Save writes state atomically.
func (p *Persister[T]) Save(state *T) error {
	return SaveState(p.dir, p.basename, p.codec, state)
}

// Load restores state. A missing file yields ErrNotFound.
func (p *Persister[T]) Load() (*T, error) {
	var state T

	err := LoadState(p.dir, p.basename, p.codec, &state)
	if err != nil {
		return nil, err
	}

	return &state, nil
}
