package output

import (
	"context"
	"errors"
	"fmt"
)

// Multi writes every report line to each of its outputs in order.
type Multi struct {
	outputs []Output
}

// NewMulti creates a new Multi output.
func NewMulti(outputs ...Output) (*Multi, error) {
	if len(outputs) == 0 {
		return nil, fmt.Errorf("at least one output is required")
	}
	for i, o := range outputs {
		if o == nil {
			return nil, fmt.Errorf("output %d cannot be nil", i)
		}
	}
	return &Multi{outputs: outputs}, nil
}

// Write writes data to every output, returning the joined errors. A failing
// output does not prevent delivery to the others.
func (m *Multi) Write(ctx context.Context, data []byte) error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Write(ctx, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stop stops every output.
func (m *Multi) Stop(ctx context.Context) error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
