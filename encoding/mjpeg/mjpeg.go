package mjpeg

import (
	"bytes"
	"image/jpeg"
	"net/http"

	"github.com/affine/diffspace/encoding"
	"github.com/mattn/go-mjpeg"
	"github.com/pkg/errors"
)

// Encoder streams frames as motion jpeg according to the diffspace.OutputEncoder interface.
// Serve it over HTTP to watch a run live.
type Encoder struct {
	*encoding.Renderer

	stream *mjpeg.Stream
}

func (e *Encoder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.stream.ServeHTTP(w, r)
}

// NewEncoder with maximum height and width
func NewEncoder(h, w, scale int) *Encoder {
	return &Encoder{
		Renderer: encoding.NewRenderer(h, w, scale),
		stream:   mjpeg.NewStream(),
	}
}

// Encode a snapshot and publish it to every connected client
func (enc *Encoder) Encode(ms encoding.MetaState) error {
	im := enc.Render(ms)
	var b bytes.Buffer
	if err := jpeg.Encode(&b, im, nil); err != nil {
		return errors.Wrap(err, "Unable to encode frame")
	}
	if err := enc.stream.Update(b.Bytes()); err != nil {
		return errors.Wrap(err, "Unable to publish frame")
	}
	return nil
}

// Flush is a no-op; frames are published as they come.
func (enc *Encoder) Flush() error { return nil }

// Close disconnects all clients.
func (enc *Encoder) Close() error { return enc.stream.Close() }
