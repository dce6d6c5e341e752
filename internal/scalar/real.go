package scalar

// Real is a float64 scalar.
type Real float64

var _ Scalar[Real] = Real(0)

func (r Real) Add(o Real) Real        { return r + o }
func (r Real) Sub(o Real) Real        { return r - o }
func (r Real) Mul(o Real) Real        { return r * o }
func (r Real) Div(o Real) Real        { return r / o }
func (r Real) Less(o Real) bool       { return r < o }
func (r Real) Equal(o Real) bool      { return r == o }
func (Real) FromFloat(v float64) Real { return Real(v) }
func (r Real) Float() float64         { return float64(r) }

// Reals converts a float slice.
func Reals(xs []float64) []Real {
	out := make([]Real, len(xs))
	for i, x := range xs {
		out[i] = Real(x)
	}
	return out
}
