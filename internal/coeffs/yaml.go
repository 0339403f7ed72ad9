package coeffs

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes and validates a table of the form
//
//	stepping: 128
//	coefficients: [1.0, 0.99, ...]
func LoadYAML(r io.Reader) (*List, error) {
	var l List
	if err := yaml.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %w", ErrInvalidCoefficients, err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadFile reads a YAML table from path.
func LoadFile(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coefficient file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadYAML(f)
}

// WriteYAML encodes l to w.
func WriteYAML(w io.Writer, l *List) error {
	if err := l.Validate(); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
