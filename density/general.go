package density

import (
	"gonum.org/v1/gonum/mat"
)

// RowView is a mat.Matrix represented by a subset of the rows of another
// matrix.
type RowView struct {
	Data mat.Matrix // Underlying matrix
	Rows []int      // Rows considered to be a part of the matrix.
}

func (s RowView) Dims() (r, c int) {
	_, c = s.Data.Dims()
	r = len(s.Rows)
	return r, c
}

func (s RowView) At(i, j int) float64 {
	i = s.Rows[i]
	return s.Data.At(i, j)
}

func (s RowView) T() mat.Matrix {
	return mat.Transpose{Matrix: s}
}

// Dense copies the selected rows into a new *mat.Dense in the order given
// by Rows.
func (s RowView) Dense() *mat.Dense {
	r, c := s.Dims()
	dst := resizeMat(nil, r, c)
	if raw, ok := s.Data.(mat.RawRowViewer); ok {
		for i, idx := range s.Rows {
			dst.SetRow(i, raw.RawRowView(idx))
		}
		return dst
	}
	row := make([]float64, c)
	for i, idx := range s.Rows {
		dst.SetRow(i, mat.Row(row, idx, s.Data))
	}
	return dst
}

// resizeMat returns a matrix of size r×c. It returns a slice of x if
// x has enough capacity, and a new matrix otherwise.
func resizeMat(x *mat.Dense, r, c int) *mat.Dense {
	if r == 0 || c == 0 {
		// mat.NewDense panics on zero dimensions.
		return &mat.Dense{}
	}
	var rCap, cCap int
	if x != nil && !x.IsEmpty() {
		rCap, cCap = x.Caps()
	}
	if rCap < r || cCap < c {
		// Not enough space, allocate new.
		return mat.NewDense(r, c, nil)
	}
	return x.Slice(0, r, 0, c).(*mat.Dense)
}
