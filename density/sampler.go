package density

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// RowSampler selects rows from a dataset of a fixed size.
type RowSampler interface {
	// Init initializes the RowSampler for a dataset with nRows rows.
	Init(nRows int)
	// Rows returns the indices of the selected rows. The returned
	// slice will not be modified.
	Rows() []int
}

// RandomRows selects a subset of the specified size at random from the
// total dataset.
type RandomRows struct {
	// Size is the number of rows to select. Size must not exceed the
	// number of rows unless Replacement is set.
	Size int
	// Replacement sets if the subset can have the same row multiple times.
	Replacement bool
	// Source sets the random number source
	Source rand.Source

	nData int
	idxs  []int
}

var _ RowSampler = &RandomRows{}

func (r *RandomRows) Init(nRows int) {
	r.nData = nRows
	if cap(r.idxs) < r.Size {
		r.idxs = make([]int, r.Size)
	}
	r.idxs = r.idxs[:r.Size]
}

func (r *RandomRows) Rows() []int {
	if r.Size == 0 {
		return r.idxs
	}
	if r.Replacement {
		// Replacement okay.
		intn := rand.Intn
		if r.Source != nil {
			intn = rand.New(r.Source).Intn
		}
		for i := range r.idxs {
			r.idxs[i] = intn(r.nData)
		}
	} else {
		sampleuv.WithoutReplacement(r.idxs, r.nData, r.Source)
	}
	return r.idxs
}

// Sampler reduces x to at most n rows using seed as the only source of
// randomness.
type Sampler func(x mat.Matrix, n int, seed uint64) mat.Matrix

// Subset returns at most n rows of x. A zero n means DefaultSubsample. If n
// is negative or x has no more than n rows, x itself is returned. Otherwise the result is a new *mat.Dense holding
// exactly n distinct rows of x, drawn without replacement from a source
// seeded with seed, in draw order. The same x, n and seed always select the
// same rows.
func Subset(x mat.Matrix, n int, seed uint64) mat.Matrix {
	if n == 0 {
		n = DefaultSubsample
	}
	r, _ := x.Dims()
	if n < 0 || r <= n {
		return x
	}
	s := &RandomRows{
		Size:   n,
		Source: rand.NewSource(seed),
	}
	s.Init(r)
	return RowView{Data: x, Rows: s.Rows()}.Dense()
}
