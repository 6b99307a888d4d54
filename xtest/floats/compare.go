package floats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Result is the outcome of Compare. Element slices are broadcast to Size and
// stored in row-major order.
type Result struct {
	Failed bool
	Scalar bool  // lhs, rhs (and relTo when used) were all scalars
	Shape  []int // broadcast shape; nil for scalars
	Size   int
	NumBad int
	Bad    []bool // failing elements; after Invert, the equal ones

	Lhs, Rhs, Diff, AbsDiff, RelTo []float64

	// Summary is the first line of the failure message and Details the
	// listing of failing elements. Both are empty when Failed is false.
	Summary string
	Details []string
	Note    string // the Msg option

	lhsDims, rhsDims int
}

// Message joins the summary, the listing and the note.
func (r *Result) Message() string {
	lines := make([]string, 0, len(r.Details)+2)
	if r.Summary != "" {
		lines = append(lines, r.Summary)
	}
	lines = append(lines, r.Details...)
	if r.Note != "" {
		lines = append(lines, r.Note)
	}
	return strings.Join(lines, "\n")
}

// Compare evaluates the almost-equal rule without reporting anything. An
// element is bad when
//
//	|lhs-rhs| > rtol*|relTo|  AND  |lhs-rhs| > atol
//
// with a disabled term dropped from the conjunction. The comparison fails
// when any element is bad (or, inverted, when none is).
//
// Compare returns ErrNonFinite when an operand holds NaN or ±Inf and a usage
// error (ErrNoTolerance, ErrShapeMismatch, ErrUnsupported) for invalid input.
func Compare(lhs, rhs any, opts ...Option) (*Result, error) {
	o := gatherOptions(opts)
	if !o.useRtol && !o.useAtol {
		return nil, ErrNoTolerance
	}

	l, err := toOperand(lhs)
	if err != nil {
		return nil, fmt.Errorf("lhs: %w", err)
	}
	r, err := toOperand(rhs)
	if err != nil {
		return nil, fmt.Errorf("rhs: %w", err)
	}
	if !finite(l.values) {
		return nil, &NonFiniteError{Operand: "lhs"}
	}
	if !finite(r.values) {
		return nil, &NonFiniteError{Operand: "rhs"}
	}

	res := &Result{Scalar: l.scalar && r.scalar, Note: o.msg, lhsDims: len(l.shape), rhsDims: len(r.shape)}
	switch {
	case l.scalar && r.scalar:
		res.Size = 1
	case l.scalar:
		res.Shape = r.shape
	case r.scalar:
		res.Shape = l.shape
	case sameShape(l.shape, r.shape):
		res.Shape = l.shape
	default:
		return nil, fmt.Errorf("%w: lhs %v vs rhs %v", ErrShapeMismatch, l.shape, r.shape)
	}
	if !res.Scalar {
		res.Size = product(res.Shape)
	}

	var rel operand
	hasRel := o.useRtol && o.relTo != nil
	if hasRel {
		if rel, err = toOperand(o.relTo); err != nil {
			return nil, fmt.Errorf("relTo: %w", err)
		}
		if !rel.scalar && (res.Scalar || !sameShape(rel.shape, res.Shape)) {
			if res.Scalar {
				res.Scalar = false
				res.Shape = rel.shape
				res.Size = product(rel.shape)
			} else {
				return nil, fmt.Errorf("%w: relTo %v vs %v", ErrShapeMismatch, rel.shape, res.Shape)
			}
		}
	}

	n := res.Size
	res.Lhs, res.Rhs = make([]float64, n), make([]float64, n)
	res.Diff, res.AbsDiff = make([]float64, n), make([]float64, n)
	res.RelTo, res.Bad = make([]float64, n), make([]bool, n)
	for i := 0; i < n; i++ {
		a, b := l.at(i), r.at(i)
		d := a - b
		ad := math.Abs(d)
		res.Lhs[i], res.Rhs[i], res.Diff[i], res.AbsDiff[i] = a, b, d, ad

		var bad bool
		if o.useRtol {
			rt := math.Max(math.Abs(a), math.Abs(b))
			if hasRel {
				rt = math.Abs(rel.at(i))
			}
			res.RelTo[i] = rt
			bad = ad > o.rtol*rt
			if o.useAtol {
				bad = bad && ad > o.atol
			}
		} else {
			bad = ad > o.atol
		}
		if bad {
			res.NumBad++
		}
		res.Bad[i] = bad
	}

	res.Failed = res.NumBad > 0
	cmp, failStr := "!=", "differ"
	if o.invert {
		res.Failed = !res.Failed
		res.NumBad = n - res.NumBad
		for i := range res.Bad {
			res.Bad[i] = !res.Bad[i]
		}
		cmp, failStr = "==", "are the same"
	}
	if !res.Failed {
		return res, nil
	}

	rtol, atol := tolString(o.useRtol, o.rtol), tolString(o.useAtol, o.atol)
	if res.Scalar {
		a, b, ad, rt := g(res.Lhs[0]), g(res.Rhs[0]), res.AbsDiff[0], res.RelTo[0]
		switch {
		case !o.useRtol:
			res.Summary = fmt.Sprintf("%s %s %s; diff=%s with atol=%s", a, cmp, b, g(ad), atol)
		case !o.useAtol:
			res.Summary = fmt.Sprintf("%s %s %s; diff=%s/%s=%s with rtol=%s", a, cmp, b, g(ad), g(rt), g(ad/rt), rtol)
		default:
			res.Summary = fmt.Sprintf("%s %s %s; diff=%s/%s=%s with rtol=%s, atol=%s", a, cmp, b, g(ad), g(rt), g(ad/rt), rtol, atol)
		}
		return res, nil
	}

	res.Summary = fmt.Sprintf("%d/%d elements %s with rtol=%s, atol=%s", res.NumBad, n, failStr, rtol, atol)
	if o.printFailures {
		printed := 0
		for i, bad := range res.Bad {
			if !bad {
				continue
			}
			if o.maxPrinted > 0 && printed == o.maxPrinted {
				res.Details = append(res.Details, fmt.Sprintf("... and %d more", res.NumBad-printed))
				break
			}
			a, b, ad := g(res.Lhs[i]), g(res.Rhs[i]), res.AbsDiff[i]
			if o.useRtol {
				rt := res.RelTo[i]
				res.Details = append(res.Details, fmt.Sprintf("%s %s %s (diff=%s/%s=%s)", a, cmp, b, g(ad), g(rt), g(ad/rt)))
			} else {
				res.Details = append(res.Details, fmt.Sprintf("%s %s %s (diff=%s)", a, cmp, b, g(ad)))
			}
			printed++
		}
	}
	return res, nil
}

func finite(vs []float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func g(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func tolString(enabled bool, v float64) string {
	if !enabled {
		return "none"
	}
	return g(v)
}
