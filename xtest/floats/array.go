package floats

import (
	"fmt"
	"reflect"
)

// Array is an n-dimensional operand stored in row-major order. Implement it to
// compare image or matrix types without copying them into nested slices.
type Array interface {
	Shape() []int
	Values() []float64
}

// Dense is a ready-made Array.
type Dense struct {
	Dims []int
	Data []float64
}

func (d Dense) Shape() []int      { return d.Dims }
func (d Dense) Values() []float64 { return d.Data }

// operand is a flattened scalar or array.
type operand struct {
	shape  []int
	values []float64
	scalar bool
}

func (o operand) at(i int) float64 {
	if o.scalar {
		return o.values[0]
	}
	return o.values[i]
}

func toOperand(v any) (operand, error) {
	if a, ok := v.(Array); ok {
		shape := append([]int(nil), a.Shape()...)
		vals := a.Values()
		if product(shape) != len(vals) {
			return operand{}, fmt.Errorf("%w: shape %v holds %d values", ErrShapeMismatch, shape, len(vals))
		}
		return operand{shape: shape, values: vals}, nil
	}

	rv := deref(reflect.ValueOf(v))
	if !rv.IsValid() {
		return operand{}, fmt.Errorf("%w: nil", ErrUnsupported)
	}
	if f, ok := number(rv); ok {
		return operand{values: []float64{f}, scalar: true}, nil
	}
	if !isList(rv) {
		return operand{}, fmt.Errorf("%w: %T", ErrUnsupported, v)
	}

	var shape []int
	for cur := rv; cur.IsValid() && isList(cur); {
		shape = append(shape, cur.Len())
		if cur.Len() == 0 {
			break
		}
		cur = deref(cur.Index(0))
	}
	o := operand{shape: shape, values: make([]float64, 0, product(shape))}
	if err := o.fill(rv, 0); err != nil {
		return operand{}, err
	}
	return o, nil
}

func (o *operand) fill(rv reflect.Value, depth int) error {
	rv = deref(rv)
	if depth == len(o.shape) {
		f, ok := number(rv)
		if !ok {
			return fmt.Errorf("%w: ragged or non-numeric element at depth %d", ErrShapeMismatch, depth)
		}
		o.values = append(o.values, f)
		return nil
	}
	if !isList(rv) || rv.Len() != o.shape[depth] {
		return fmt.Errorf("%w: ragged input at depth %d", ErrShapeMismatch, depth)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := o.fill(rv.Index(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func deref(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func isList(rv reflect.Value) bool {
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}

func number(rv reflect.Value) (float64, bool) {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}

func product(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
