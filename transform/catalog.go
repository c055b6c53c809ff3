package transform

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// Angles is the rotation set of a catalog built with rotation.
var Angles = [...]float32{0, math.Pi / 4, math.Pi / 2, 3 * math.Pi / 4}

// Catalog enumerates every shift with |x| and |y| up to size/2, mirrored from the first
// quadrant outwards. With rotation every position is emitted once per angle in Angles, otherwise once
// with no rotation. The order is stable; stored spaces and catalog files rely on it.
func Catalog(size int, useRotation bool) []Transformation {
	limit := int16(size/2 + 1)
	retVal := make([]Transformation, 0, 4*int(limit)*int(limit)*len(Angles))
	emit := func(x, y int16) {
		if !useRotation {
			retVal = append(retVal, Transformation{X: x, Y: y})
			return
		}
		for _, a := range Angles {
			retVal = append(retVal, Transformation{X: x, Y: y, A: a})
		}
	}

	for y := int16(0); y < limit; y++ {
		for x := int16(0); x < limit; x++ {
			emit(x, y)
			if y != 0 {
				emit(x, -y)
			}
			if x != 0 {
				emit(-x, y)
			}
			if x != 0 && y != 0 {
				emit(-x, -y)
			}
		}
	}
	return retVal
}

// WriteCatalog writes a u64 count followed by the transformations, little endian.
func WriteCatalog(w io.Writer, ts []Transformation) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(ts))); err != nil {
		return errors.WithStack(err)
	}
	for _, t := range ts {
		if err := WriteTransformation(w, t); err != nil {
			return err
		}
	}
	return nil
}

// ReadCatalog reads what WriteCatalog wrote.
func ReadCatalog(r io.Reader) ([]Transformation, error) {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, errors.Wrap(err, "Unable to read catalog length")
	}
	retVal := make([]Transformation, 0, min(n, 1<<16))
	for i := uint64(0); i < n; i++ {
		t, err := ReadTransformation(r)
		if err != nil {
			return nil, errors.WithMessagef(err, "transformation %d of %d", i, n)
		}
		retVal = append(retVal, t)
	}
	return retVal, nil
}

// WriteTransformation writes x and y as i16 and a as f32.
func WriteTransformation(w io.Writer, t Transformation) error {
	return errors.WithStack(binary.Write(w, binary.LittleEndian, t))
}

// ReadTransformation reads a record written by WriteTransformation.
func ReadTransformation(r io.Reader) (t Transformation, err error) {
	err = errors.WithStack(binary.Read(r, binary.LittleEndian, &t))
	return
}

// SaveCatalog writes the catalog to a file.
func SaveCatalog(filename string, ts []Transformation) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "Unable to create %v", filename)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err = WriteCatalog(w, ts); err != nil {
		return errors.WithMessagef(err, "Unable to write %v", filename)
	}
	return errors.WithStack(w.Flush())
}

// LoadCatalog reads a catalog file.
func LoadCatalog(filename string) ([]Transformation, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to open %v", filename)
	}
	defer f.Close()
	ts, err := ReadCatalog(bufio.NewReader(f))
	return ts, errors.WithMessagef(err, "Unable to read %v", filename)
}
