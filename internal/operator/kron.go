package operator

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// Vec flattens a matrix column-major. All lowered operators use this
// flattening convention.
func Vec(m mat.Matrix) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
}

// Eye returns the n×n sparse identity.
func Eye(n int) *sparse.CSR {
	rows := make([]int, n)
	cols := make([]int, n)
	data := make([]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = i
		cols[i] = i
		data[i] = 1
	}
	return sparse.NewCOO(n, n, rows, cols, data).ToCSR()
}

// Diagonal returns the sparse diagonal matrix diag(d).
func Diagonal(d []float64) *sparse.CSR {
	n := len(d)
	rows := make([]int, 0, n)
	cols := make([]int, 0, n)
	data := make([]float64, 0, n)
	for i, v := range d {
		if v == 0 {
			continue
		}
		rows = append(rows, i)
		cols = append(cols, i)
		data = append(data, v)
	}
	return sparse.NewCOO(n, n, rows, cols, data).ToCSR()
}

// KronEyeLeft returns I_n ⊗ A: the block-diagonal matrix with n copies of A.
// Premultiplying vec(X) by KronEyeLeft(cols(X), A) computes vec(A·X).
func KronEyeLeft(n int, a mat.Matrix) *sparse.CSR {
	ar, ac := a.Dims()
	var rows, cols []int
	var data []float64
	for t := 0; t < n; t++ {
		for j := 0; j < ac; j++ {
			for i := 0; i < ar; i++ {
				v := a.At(i, j)
				if v == 0 {
					continue
				}
				rows = append(rows, t*ar+i)
				cols = append(cols, t*ac+j)
				data = append(data, v)
			}
		}
	}
	return sparse.NewCOO(n*ar, n*ac, rows, cols, data).ToCSR()
}

// KronEyeRight returns A ⊗ I_n. Premultiplying vec(X) by
// KronEyeRight(Bᵗ, rows(X)) computes vec(X·B).
func KronEyeRight(a mat.Matrix, n int) *sparse.CSR {
	ar, ac := a.Dims()
	var rows, cols []int
	var data []float64
	for j := 0; j < ac; j++ {
		for i := 0; i < ar; i++ {
			v := a.At(i, j)
			if v == 0 {
				continue
			}
			for t := 0; t < n; t++ {
				rows = append(rows, i*n+t)
				cols = append(cols, j*n+t)
				data = append(data, v)
			}
		}
	}
	return sparse.NewCOO(ar*n, ac*n, rows, cols, data).ToCSR()
}
