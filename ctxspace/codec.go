package ctxspace

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/affine/diffspace/info"
	"github.com/affine/diffspace/transform"
	"github.com/pkg/errors"
)

// maxLen bounds every length read back from a stream so a corrupt file fails instead of allocating wildly.
const maxLen = 1 << 28

var order = binary.LittleEndian

// Encode writes the interpretations and then the contexts. Lengths are u64, words are written in their
// own width, transformations as {i16 x, i16 y, f32 a}; everything is little endian.
func (s *Space[T]) Encode(w io.Writer) error {
	if err := writeLen(w, len(s.interpretations)); err != nil {
		return errors.WithMessage(err, "interpretations")
	}
	for k, interp := range s.interpretations {
		if err := writeInfo(w, interp); err != nil {
			return errors.WithMessagef(err, "interpretation %d", k)
		}
	}

	if err := writeLen(w, len(s.contexts)); err != nil {
		return errors.WithMessage(err, "contexts")
	}
	for k, c := range s.contexts {
		if err := transform.WriteTransformation(w, c.Tran); err != nil {
			return errors.WithMessagef(err, "context %d", k)
		}
		if err := writeLen(w, len(c.rules)); err != nil {
			return errors.WithMessagef(err, "context %d", k)
		}
		for j, r := range c.rules {
			if err := writeInfo(w, r.I); err != nil {
				return errors.WithMessagef(err, "context %d rule %d", k, j)
			}
			if err := writeInfo(w, r.Int); err != nil {
				return errors.WithMessagef(err, "context %d rule %d", k, j)
			}
		}
	}
	return nil
}

// Decode reads a space written by Encode with the same word width.
func Decode[T info.Word](r io.Reader, conf Config) (*Space[T], error) {
	s := New[T](conf)

	n, err := readLen(r)
	if err != nil {
		return nil, errors.WithMessage(err, "interpretations")
	}
	s.interpretations = make([]info.Info[T], 0, min(n, 1024))
	for k := 0; k < n; k++ {
		interp, err := readInfo[T](r)
		if err != nil {
			return nil, errors.WithMessagef(err, "interpretation %d", k)
		}
		s.interpretations = append(s.interpretations, interp)
	}

	if n, err = readLen(r); err != nil {
		return nil, errors.WithMessage(err, "contexts")
	}
	s.contexts = make([]*Context[T], 0, min(n, 1024))
	for k := 0; k < n; k++ {
		t, err := transform.ReadTransformation(r)
		if err != nil {
			return nil, errors.WithMessagef(err, "context %d", k)
		}
		c := NewContext[T](t)
		rules, err := readLen(r)
		if err != nil {
			return nil, errors.WithMessagef(err, "context %d", k)
		}
		c.rules = make([]Rule[T], 0, min(rules, 1024))
		for j := 0; j < rules; j++ {
			var rule Rule[T]
			if rule.I, err = readInfo[T](r); err != nil {
				return nil, errors.WithMessagef(err, "context %d rule %d", k, j)
			}
			if rule.Int, err = readInfo[T](r); err != nil {
				return nil, errors.WithMessagef(err, "context %d rule %d", k, j)
			}
			c.rules = append(c.rules, rule)
		}
		c.reindex()
		s.contexts = append(s.contexts, c)
	}
	return s, nil
}

// Save writes the space to a file.
func (s *Space[T]) Save(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "Unable to create %v", filename)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err = s.Encode(w); err != nil {
		return errors.WithMessagef(err, "Unable to write %v", filename)
	}
	if err = w.Flush(); err != nil {
		return errors.Wrapf(err, "Unable to write %v", filename)
	}
	return errors.WithStack(f.Sync())
}

// Load reads a space file written by Save.
func Load[T info.Word](filename string, conf Config) (*Space[T], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to open %v", filename)
	}
	defer f.Close()

	s, err := Decode[T](bufio.NewReader(f), conf)
	if err != nil {
		return nil, errors.WithMessagef(err, "Unable to read %v", filename)
	}
	return s, nil
}

func writeLen(w io.Writer, n int) error {
	return errors.WithStack(binary.Write(w, order, uint64(n)))
}

func readLen(r io.Reader) (int, error) {
	var n uint64
	if err := binary.Read(r, order, &n); err != nil {
		return 0, errors.WithStack(err)
	}
	if n > maxLen {
		return 0, errors.Errorf("length %d exceeds %d", n, maxLen)
	}
	return int(n), nil
}

func writeInfo[T info.Word](w io.Writer, i info.Info[T]) error {
	if err := writeLen(w, len(i.Data)); err != nil {
		return err
	}
	if err := binary.Write(w, order, i.Data); err != nil {
		return errors.WithStack(err)
	}
	if err := writeLen(w, len(i.Name)); err != nil {
		return err
	}
	_, err := io.WriteString(w, i.Name)
	return errors.WithStack(err)
}

func readInfo[T info.Word](r io.Reader) (info.Info[T], error) {
	n, err := readLen(r)
	if err != nil {
		return info.Info[T]{}, err
	}
	retVal := info.New[T](n, "")
	if err = binary.Read(r, order, retVal.Data); err != nil {
		return info.Info[T]{}, errors.WithStack(err)
	}

	if n, err = readLen(r); err != nil {
		return info.Info[T]{}, err
	}
	name := make([]byte, n)
	if _, err = io.ReadFull(r, name); err != nil {
		return info.Info[T]{}, errors.WithStack(err)
	}
	retVal.Name = string(name)
	return retVal, nil
}
