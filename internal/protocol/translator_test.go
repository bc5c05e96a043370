package protocol_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/protocol"
)

func TestTranslator_Primitives(t *testing.T) {
	var buf bytes.Buffer
	w := protocol.NewWriteTranslator(&buf)

	b := byte(0x7f)
	yes := true
	i32 := int32(-5)
	i64 := int64(1 << 40)
	s := "hello"
	w.Byte(&b)
	w.Bool(&yes)
	w.Int32(&i32)
	w.Int64(&i64)
	w.String(&s)
	require.NoError(t, w.Err())

	r := protocol.NewReadTranslator(&buf, protocol.CurrentVersion)
	var (
		gotB   byte
		gotYes bool
		gotI32 int32
		gotI64 int64
		gotS   string
	)
	r.Byte(&gotB)
	r.Bool(&gotYes)
	r.Int32(&gotI32)
	r.Int64(&gotI64)
	r.String(&gotS)
	require.NoError(t, r.Err())

	assert.Equal(t, byte(0x7f), gotB)
	assert.True(t, gotYes)
	assert.Equal(t, int32(-5), gotI32)
	assert.Equal(t, int64(1<<40), gotI64)
	assert.Equal(t, "hello", gotS)
}

func TestTranslator_NullString(t *testing.T) {
	tests := []struct {
		name string
		in   protocol.NullString
	}{
		{name: "absent", in: protocol.NullString{}},
		{name: "present empty", in: protocol.NullStringOf("")},
		{name: "present non-empty", in: protocol.NullStringOf("some text")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := protocol.NewWriteTranslator(&buf)
			in := tt.in
			w.NullString(&in)
			require.NoError(t, w.Err())

			r := protocol.NewReadTranslator(&buf, protocol.CurrentVersion)
			got := protocol.NullStringOf("stale")
			r.NullString(&got)
			require.NoError(t, r.Err())
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestTranslator_StringSliceNilVsEmpty(t *testing.T) {
	roundTrip := func(in []string) []string {
		var buf bytes.Buffer
		w := protocol.NewWriteTranslator(&buf)
		w.StringSlice(&in)
		require.NoError(t, w.Err())

		r := protocol.NewReadTranslator(&buf, protocol.CurrentVersion)
		var out []string
		r.StringSlice(&out)
		require.NoError(t, r.Err())
		return out
	}

	assert.Nil(t, roundTrip(nil))
	assert.Equal(t, []string{}, roundTrip([]string{}))
	assert.Equal(t, []string{"a", "b"}, roundTrip([]string{"a", "b"}))
}

func TestTranslator_StringMapDeterministicOrder(t *testing.T) {
	in := map[string]string{"b": "2", "a": "1", "c": "3"}

	var first, second bytes.Buffer
	w1 := protocol.NewWriteTranslator(&first)
	w1.StringMap(&in)
	w2 := protocol.NewWriteTranslator(&second)
	w2.StringMap(&in)
	require.NoError(t, w1.Err())
	require.NoError(t, w2.Err())
	assert.Equal(t, first.Bytes(), second.Bytes())

	r := protocol.NewReadTranslator(&first, protocol.CurrentVersion)
	var out map[string]string
	r.StringMap(&out)
	require.NoError(t, r.Err())
	assert.Equal(t, in, out)
}

func TestTranslator_StringMapNil(t *testing.T) {
	var buf bytes.Buffer
	var in map[string]string
	w := protocol.NewWriteTranslator(&buf)
	w.StringMap(&in)
	require.NoError(t, w.Err())

	r := protocol.NewReadTranslator(&buf, protocol.CurrentVersion)
	out := map[string]string{"stale": "x"}
	r.StringMap(&out)
	require.NoError(t, r.Err())
	assert.Nil(t, out)
}

func TestTranslator_Properties(t *testing.T) {
	in := domain.NewPropertySet(
		domain.Property{Name: "Configuration", Value: "Release"},
		domain.Property{Name: "Platform", Value: "x64"},
	)

	var buf bytes.Buffer
	w := protocol.NewWriteTranslator(&buf)
	w.Properties(&in)
	require.NoError(t, w.Err())

	r := protocol.NewReadTranslator(&buf, protocol.CurrentVersion)
	var out *domain.PropertySet
	r.Properties(&out)
	require.NoError(t, r.Err())
	assert.True(t, in.Equal(out))
}

func TestTranslator_PropertiesNil(t *testing.T) {
	var buf bytes.Buffer
	var in *domain.PropertySet
	w := protocol.NewWriteTranslator(&buf)
	w.Properties(&in)
	require.NoError(t, w.Err())

	r := protocol.NewReadTranslator(&buf, protocol.CurrentVersion)
	out := domain.NewPropertySet()
	r.Properties(&out)
	require.NoError(t, r.Err())
	assert.Nil(t, out)
}

func TestTranslator_StickyError(t *testing.T) {
	r := protocol.NewReadTranslator(bytes.NewReader(nil), protocol.CurrentVersion)

	var v int32
	r.Int32(&v)
	first := r.Err()
	require.Error(t, first)

	var s string
	r.String(&s)
	assert.Equal(t, first, r.Err(), "the first error sticks")
	assert.Empty(t, s, "later calls are no-ops")
}

func TestTranslator_TruncatedString(t *testing.T) {
	var buf bytes.Buffer
	w := protocol.NewWriteTranslator(&buf)
	s := "a longer string"
	w.String(&s)
	require.NoError(t, w.Err())

	truncated := buf.Bytes()[:buf.Len()-3]
	r := protocol.NewReadTranslator(bytes.NewReader(truncated), protocol.CurrentVersion)
	var out string
	r.String(&out)
	assert.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
}

func TestTranslator_RejectsOversizedLength(t *testing.T) {
	// A length prefix beyond the collection bound must fail before any
	// allocation is attempted.
	payload := []byte{0xff, 0xff, 0xff, 0x7f}
	r := protocol.NewReadTranslator(bytes.NewReader(payload), protocol.CurrentVersion)
	var out []string
	r.StringSlice(&out)
	assert.ErrorIs(t, r.Err(), domain.ErrMalformedPacket)
}
