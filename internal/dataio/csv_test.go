package dataio

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestReadCSV(t *testing.T) {
	in := `# generated
x, y, z
1, 2, 3
4.5,-1e-3,6
`
	x, header, err := ReadCSV(strings.NewReader(in), CSVOptions{Header: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, header)
	assert.True(t, mat.Equal(mat.NewDense(2, 3, []float64{1, 2, 3, 4.5, -1e-3, 6}), x))
}

func TestReadCSVDelimiter(t *testing.T) {
	x, header, err := ReadCSV(strings.NewReader("1;2\n3;4\n"), CSVOptions{Comma: ';'})
	require.NoError(t, err)
	assert.Nil(t, header)
	r, c := x.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
}

func TestReadCSVErrors(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader(""), CSVOptions{})
	assert.Equal(t, ErrNoData, err)

	_, _, err = ReadCSV(strings.NewReader("a,b\n"), CSVOptions{Header: true})
	assert.Equal(t, ErrNoData, err)

	_, _, err = ReadCSV(strings.NewReader("1,2\n3,oops\n"), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2 column 2")

	_, _, err = ReadCSV(strings.NewReader("1,2\n3\n"), CSVOptions{})
	var perr *csv.ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestReadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,2\n3,4\n5,6\n"), 0o644))

	x, _, err := ReadCSVFile(path, CSVOptions{})
	require.NoError(t, err)
	r, _ := x.Dims()
	assert.Equal(t, 3, r)

	_, _, err = ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"), CSVOptions{})
	assert.True(t, os.IsNotExist(err))
}
