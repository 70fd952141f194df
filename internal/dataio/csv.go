// Package dataio reads sample matrices.
package dataio

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

var log = logrus.WithField("component", "dataio")

// ErrNoData is returned when the input holds no data rows.
var ErrNoData = errors.New("dataio: no data rows")

// CSVOptions control ReadCSV.
type CSVOptions struct {
	// Comma is the field delimiter. If Comma is 0, ',' is used.
	Comma rune
	// Header skips the first record and returns it as the column names.
	Header bool
}

// ReadCSV parses r into a matrix with one row per record. Every record must
// have the same number of numeric fields.
func ReadCSV(r io.Reader, opts CSVOptions) (*mat.Dense, []string, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	var header []string
	if opts.Header {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil, nil, ErrNoData
		}
		if err != nil {
			return nil, nil, errors.Wrap(err, "read header")
		}
		header = append(header, rec...)
	}

	var data []float64
	var rows, cols int
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "read row %d", rows+1)
		}
		if rows == 0 {
			cols = len(rec)
		}
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				line, _ := cr.FieldPos(j)
				return nil, nil, errors.Wrapf(err, "line %d column %d", line, j+1)
			}
			data = append(data, v)
		}
		rows++
	}
	if rows == 0 || cols == 0 {
		return nil, nil, ErrNoData
	}
	log.WithFields(logrus.Fields{"rows": rows, "cols": cols}).Debug("read csv")
	return mat.NewDense(rows, cols, data), header, nil
}

// ReadCSVFile is ReadCSV on the named file.
func ReadCSVFile(path string, opts CSVOptions) (*mat.Dense, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	x, header, err := ReadCSV(f, opts)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read %s", path)
	}
	return x, header, nil
}
