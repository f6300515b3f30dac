package rating

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// imagTolerance bounds the imaginary part accepted on the dominant eigenvalue.
const imagTolerance = 1e-9

// PrincipalEigenvector returns the component-wise absolute value of the
// eigenvector whose eigenvalue has the largest real part, together with
// that eigenvalue. For a positive matrix this is the Perron vector.
func PrincipalEigenvector(a [][]float64) ([]float64, float64, error) {
	n := len(a)
	if n == 0 {
		return nil, 0, fmt.Errorf("%w: empty matrix", ErrInsufficientData)
	}
	data := make([]float64, 0, n*n)
	for i, row := range a {
		if len(row) != n {
			return nil, 0, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInsufficientData, i, len(row), n)
		}
		data = append(data, row...)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(mat.NewDense(n, n, data), mat.EigenRight); !ok {
		return nil, 0, fmt.Errorf("%w: eigen decomposition did not converge", ErrInsufficientData)
	}
	values := eig.Values(nil)

	best := -1
	for i, v := range values {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return nil, 0, fmt.Errorf("%w: non-finite eigenvalue", ErrInsufficientData)
		}
		if best < 0 || real(v) > real(values[best]) {
			best = i
		}
	}
	lambda := values[best]
	if math.Abs(imag(lambda)) > imagTolerance || real(lambda) <= 0 {
		return nil, 0, fmt.Errorf("%w: dominant eigenvalue %v is not real and positive", ErrInsufficientData, lambda)
	}

	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	out := make([]float64, n)
	var norm float64
	for i := range out {
		out[i] = cmplx.Abs(vectors.At(i, best))
		norm += out[i]
	}
	if norm == 0 || math.IsNaN(norm) {
		return nil, 0, fmt.Errorf("%w: degenerate principal eigenvector", ErrInsufficientData)
	}
	return out, real(lambda), nil
}
