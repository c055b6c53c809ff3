package ctxspace

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/affine/diffspace/info"
	"github.com/affine/diffspace/transform"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSameSpace[T info.Word](t *testing.T, want, got *Space[T]) {
	t.Helper()
	if diff := cmp.Diff(want.Interpretations(), got.Interpretations()); diff != "" {
		t.Errorf("interpretations (-want +got):\n%s", diff)
	}
	require.Equal(t, want.Len(), got.Len())
	for k := range want.Contexts() {
		w, g := want.Contexts()[k], got.Contexts()[k]
		assert.Equal(t, w.Tran, g.Tran, "context %d", k)
		if diff := cmp.Diff(w.Rules(), g.Rules()); diff != "" {
			t.Errorf("context %d rules (-want +got):\n%s", k, diff)
		}
	}
}

func TestEncode_Layout(t *testing.T) {
	s := New[uint8](DefaultConfig())
	s.Learn(transform.Transformation{X: 1, Y: -1}, info.Info[uint8]{Data: []uint8{0x01}, Name: "i"}, info.Info[uint8]{Data: []uint8{0x01}, Name: "a"})

	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf))

	u64 := func(n uint64) []byte { return binary.LittleEndian.AppendUint64(nil, n) }
	var want []byte
	want = append(want, u64(1)...) // interpretations
	want = append(want, u64(1)...) // rows
	want = append(want, 0x01)
	want = append(want, u64(1)...) // name
	want = append(want, 'a')
	want = append(want, u64(1)...)                          // contexts
	want = append(want, 0x01, 0x00, 0xFF, 0xFF, 0, 0, 0, 0) // x, y, a
	want = append(want, u64(1)...)                          // rules
	want = append(want, u64(1)...)                          // rule source
	want = append(want, 0x01)
	want = append(want, u64(0)...)
	want = append(want, u64(1)...) // rule interpretation
	want = append(want, 0x01)
	want = append(want, u64(1)...)
	want = append(want, 'a')
	assert.Equal(t, want, buf.Bytes())
}

func TestEncode_WordWidth(t *testing.T) {
	s := New[uint16](DefaultConfig())
	s.addInterpretation(info.Info[uint16]{Data: []uint16{0x0102}})

	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf))
	assert.Equal(t, []byte{0x02, 0x01}, buf.Bytes()[16:18])
	assert.Equal(t, 8+8+2+8+8, buf.Len())
}

func TestDecode_RoundTrip(t *testing.T) {
	g := ell()
	s := New[uint16](DefaultConfig())
	for _, tr := range transform.Catalog(2, true) {
		s.Learn(tr, transform.Apply(tr, g), g)
	}
	other := ell()
	other.Name = "other"
	other.Data[12] = 0xFFFF
	s.Learn(transform.Identity, other, other)

	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf))
	got, err := Decode[uint16](&buf, DefaultConfig())
	require.NoError(t, err)
	assertSameSpace(t, s, got)

	probe := transform.Apply(transform.Transformation{X: 1, Y: -1}, g)
	want, ok := s.Interpret(probe, 0.9)
	require.True(t, ok)
	actual, ok := got.Interpret(probe, 0.9)
	require.True(t, ok)
	assert.Equal(t, want, actual)
}

func TestDecode_LearnExtendsRules(t *testing.T) {
	s := New[uint8](DefaultConfig())
	s.Learn(transform.Identity, rows(0x11), rows(0x33))
	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf))

	got, err := Decode[uint8](&buf, DefaultConfig())
	require.NoError(t, err)
	got.Learn(transform.Identity, rows(0x01), rows(0x21))
	got.Learn(transform.Identity, rows(0x40), rows(0x40))

	rules := got.Contexts()[0].Rules()
	require.Len(t, rules, 3, "a decoded bit is not learnt twice")
	assert.Equal(t, []uint8{0x01}, rules[0].I.Data)
	assert.Equal(t, []uint8{0x21}, rules[0].Int.Data)
	assert.Equal(t, []uint8{0x10}, rules[1].I.Data)
	assert.Equal(t, []uint8{0x33}, rules[1].Int.Data)
	assert.Equal(t, []uint8{0x40}, rules[2].I.Data)
}

func TestDecode_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New[uint32](DefaultConfig()).Encode(&buf))
	assert.Equal(t, 16, buf.Len())

	got, err := Decode[uint32](&buf, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.Empty(t, got.Interpretations())
}

func TestDecode_Corrupt(t *testing.T) {
	s := New[uint8](DefaultConfig())
	s.Learn(transform.Identity, rows(0x11), rows(0x22))
	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf))
	raw := buf.Bytes()

	_, err := Decode[uint8](bytes.NewReader(raw[:len(raw)-1]), DefaultConfig())
	assert.Error(t, err, "truncated")

	huge := append(binary.LittleEndian.AppendUint64(nil, 1<<40), raw[8:]...)
	_, err = Decode[uint8](bytes.NewReader(huge), DefaultConfig())
	assert.Error(t, err, "oversized length")
}

func TestSaveLoad(t *testing.T) {
	s := New[uint8](DefaultConfig())
	s.Learn(transform.Transformation{X: -2, Y: 3, A: 0.5}, rows(0x81, 0x18), info.Info[uint8]{Data: []uint8{0x42, 0x24}, Name: "glyph"})

	filename := filepath.Join(t.TempDir(), "space.bin")
	require.NoError(t, s.Save(filename))

	got, err := Load[uint8](filename, DefaultConfig())
	require.NoError(t, err)
	assertSameSpace(t, s, got)

	_, err = Load[uint8](filepath.Join(t.TempDir(), "missing.bin"), DefaultConfig())
	assert.Error(t, err)
}
