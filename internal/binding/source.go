package binding

import (
	"context"
	"slices"

	"github.com/roach88/critnf/internal/ir"
)

// ValueSource supplies the values bound to one correlation id.
// For a dependent set these are the members of the set; for an EXISTS
// they are the subquery's rows, where only emptiness matters.
type ValueSource interface {
	Values(ctx context.Context) ([]ir.Datum, error)
}

// StaticValues is a ValueSource over a fixed list.
type StaticValues []ir.Datum

// Values returns a copy of the list.
func (s StaticValues) Values(context.Context) ([]ir.Datum, error) {
	return slices.Clone([]ir.Datum(s)), nil
}

// ValueFunc adapts a function to ValueSource. It is called on every
// lookup; results are not cached.
type ValueFunc func(ctx context.Context) ([]ir.Datum, error)

func (f ValueFunc) Values(ctx context.Context) ([]ir.Datum, error) {
	return f(ctx)
}

// StaticFromGo builds a StaticValues from decoded YAML or JSON values.
func StaticFromGo(values []any) (StaticValues, error) {
	out := make(StaticValues, len(values))
	for i, v := range values {
		d, err := ir.FromGo(v)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}
