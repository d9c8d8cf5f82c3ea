package reader

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// FromBytes creates a Reader loaded with b. A []byte argument is used in
// place and must not be modified afterwards.
func FromBytes[T ~[]byte | ~string](b T, opts *Options) (*Reader, error) {
	r, err := New(opts)
	if err != nil {
		return nil, err
	}
	if err := r.Load([]byte(b)); err != nil {
		return nil, err
	}
	return r, nil
}

// FromReader reads src to the end and loads the result.
func FromReader(src io.Reader, opts *Options) (*Reader, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read database")
	}
	return FromBytes(b, opts)
}

// Open reads the database file at path into memory.
func Open(path string, opts *Options) (*Reader, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database '%s'", path)
	}
	r, err := FromBytes(b, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load database '%s'", path)
	}
	return r, nil
}
