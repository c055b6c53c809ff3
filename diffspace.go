// Package diffspace drives the two learning engines of this module.
//
// A Trainer lets a dcm context map self-organize over a generated code space. A Tutor teaches a
// ctxspace context space a set of images under every transformation of a catalog and measures how
// well the space recognizes new images afterwards.
package diffspace

import (
	"bytes"
	"fmt"
	"image"

	"github.com/affine/diffspace/encoding"
)

// frame is a snapshot handed to an OutputEncoder.
type frame struct {
	name    string
	epoch   int
	step    int
	caption string
	img     image.Image
}

func (f frame) Name() string { return f.name }

func (f frame) Epoch() int { return f.epoch }

func (f frame) Step() int { return f.step }

func (f frame) Caption() string { return f.caption }

func (f frame) Image() image.Image { return f.img }

var _ encoding.MetaState = frame{}

// MultiEncoder sends every snapshot to all of its encoders.
type MultiEncoder []OutputEncoder

func (m MultiEncoder) Encode(ms encoding.MetaState) error {
	var allErrs manyErr
	for _, enc := range m {
		if err := enc.Encode(ms); err != nil {
			allErrs = append(allErrs, err)
		}
	}
	if len(allErrs) > 0 {
		return allErrs
	}
	return nil
}

func (m MultiEncoder) Flush() error {
	var allErrs manyErr
	for _, enc := range m {
		if err := enc.Flush(); err != nil {
			allErrs = append(allErrs, err)
		}
	}
	if len(allErrs) > 0 {
		return allErrs
	}
	return nil
}

type manyErr []error

func (err manyErr) Error() string {
	var buf bytes.Buffer
	for _, e := range err {
		fmt.Fprintln(&buf, e.Error())
	}
	return buf.String()
}
