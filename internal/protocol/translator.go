package protocol

import (
	"encoding/binary"
	"io"
	"sort"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// Version is the protocol revision carried by every packet. Readers branch on
// the carried version to skip fields introduced after older revisions.
type Version uint32

// CurrentVersion is the revision this build writes. Bump it when adding
// version-gated fields.
const CurrentVersion Version = 2

// Mode says which direction a translator moves data.
type Mode int

const (
	// TranslateWrite serializes fields to the stream.
	TranslateWrite Mode = iota
	// TranslateRead reconstructs fields from the stream.
	TranslateRead
)

// maxCollectionLen bounds decoded collection sizes so a corrupt length prefix
// cannot drive an enormous allocation.
const maxCollectionLen = 1 << 20

// NullString is a string that distinguishes absent from empty. The wire
// carries a one-byte presence flag followed by the string when present.
type NullString struct {
	Valid bool
	Value string
}

// NullStringOf wraps a present string.
func NullStringOf(s string) NullString {
	return NullString{Valid: true, Value: s}
}

// Translator transfers fields between typed packets and a byte stream. One
// type serves both directions: packets call the same method sequence whether
// writing or reading, passing fields by reference. The first error sticks and
// turns every later call into a no-op, so packets translate unconditionally
// and check Err once.
type Translator struct {
	mode    Mode
	r       io.Reader
	w       io.Writer
	version Version
	err     error

	scratch [8]byte
}

// NewWriteTranslator creates a translator serializing at CurrentVersion.
func NewWriteTranslator(w io.Writer) *Translator {
	return NewWriteTranslatorAt(w, CurrentVersion)
}

// NewWriteTranslatorAt serializes at an explicit version. Used by tests to
// emulate an older sender.
func NewWriteTranslatorAt(w io.Writer, version Version) *Translator {
	return &Translator{mode: TranslateWrite, w: w, version: version}
}

// NewReadTranslator creates a translator reconstructing a payload written at
// the given version.
func NewReadTranslator(r io.Reader, version Version) *Translator {
	return &Translator{mode: TranslateRead, r: r, version: version}
}

// Mode returns the translation direction.
func (t *Translator) Mode() Mode { return t.mode }

// Version returns the protocol revision carried by this payload.
func (t *Translator) Version() Version { return t.version }

// Err returns the first error encountered.
func (t *Translator) Err() error { return t.err }

func (t *Translator) fail(err error) {
	if t.err == nil && err != nil {
		t.err = err
	}
}

func (t *Translator) writeBytes(b []byte) {
	if t.err != nil {
		return
	}
	if _, err := t.w.Write(b); err != nil {
		t.fail(zerr.Wrap(err, "packet write failed"))
	}
}

func (t *Translator) readBytes(b []byte) {
	if t.err != nil {
		return
	}
	if _, err := io.ReadFull(t.r, b); err != nil {
		t.fail(zerr.Wrap(err, "packet read truncated"))
	}
}

// Byte transfers one byte.
func (t *Translator) Byte(v *byte) {
	if t.mode == TranslateWrite {
		t.scratch[0] = *v
		t.writeBytes(t.scratch[:1])
		return
	}
	t.readBytes(t.scratch[:1])
	if t.err == nil {
		*v = t.scratch[0]
	}
}

// Bool transfers a bool as one byte.
func (t *Translator) Bool(v *bool) {
	var b byte
	if *v {
		b = 1
	}
	t.Byte(&b)
	if t.mode == TranslateRead && t.err == nil {
		*v = b != 0
	}
}

// Int32 transfers a little-endian int32.
func (t *Translator) Int32(v *int32) {
	if t.mode == TranslateWrite {
		binary.LittleEndian.PutUint32(t.scratch[:4], uint32(*v))
		t.writeBytes(t.scratch[:4])
		return
	}
	t.readBytes(t.scratch[:4])
	if t.err == nil {
		*v = int32(binary.LittleEndian.Uint32(t.scratch[:4]))
	}
}

// Int64 transfers a little-endian int64.
func (t *Translator) Int64(v *int64) {
	if t.mode == TranslateWrite {
		binary.LittleEndian.PutUint64(t.scratch[:8], uint64(*v))
		t.writeBytes(t.scratch[:8])
		return
	}
	t.readBytes(t.scratch[:8])
	if t.err == nil {
		*v = int64(binary.LittleEndian.Uint64(t.scratch[:8]))
	}
}

func (t *Translator) length(v *int32) {
	t.Int32(v)
	if t.mode == TranslateRead && t.err == nil {
		if *v < -1 || *v > maxCollectionLen {
			t.fail(domain.WithDetail(domain.ErrMalformedPacket, "length", *v))
		}
	}
}

// String transfers a length-prefixed string. Absence is not representable;
// use NullString where null and empty must stay distinct.
func (t *Translator) String(v *string) {
	if t.mode == TranslateWrite {
		n := int32(len(*v))
		t.length(&n)
		t.writeBytes([]byte(*v))
		return
	}
	var n int32
	t.length(&n)
	if t.err != nil {
		return
	}
	if n < 0 {
		t.fail(domain.WithDetail(domain.ErrMalformedPacket, "length", n))
		return
	}
	buf := make([]byte, n)
	t.readBytes(buf)
	if t.err == nil {
		*v = string(buf)
	}
}

// NullString transfers a presence byte followed by the string when present.
func (t *Translator) NullString(v *NullString) {
	t.Bool(&v.Valid)
	if t.err != nil {
		return
	}
	if v.Valid {
		t.String(&v.Value)
	} else if t.mode == TranslateRead {
		v.Value = ""
	}
}

// StringSlice transfers a count-prefixed string slice. A nil slice is
// written as count -1 and reconstructed as nil.
func (t *Translator) StringSlice(v *[]string) {
	if t.mode == TranslateWrite {
		n := int32(len(*v))
		if *v == nil {
			n = -1
		}
		t.length(&n)
		for i := range *v {
			t.String(&(*v)[i])
		}
		return
	}
	var n int32
	t.length(&n)
	if t.err != nil {
		return
	}
	if n < 0 {
		*v = nil
		return
	}
	out := make([]string, n)
	for i := range out {
		t.String(&out[i])
	}
	if t.err == nil {
		*v = out
	}
}

// StringMap transfers a count-prefixed map in sorted-key order so that equal
// maps always serialize identically. A nil map round-trips as nil.
func (t *Translator) StringMap(v *map[string]string) {
	if t.mode == TranslateWrite {
		if *v == nil {
			n := int32(-1)
			t.length(&n)
			return
		}
		keys := make([]string, 0, len(*v))
		for k := range *v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := int32(len(keys))
		t.length(&n)
		for _, k := range keys {
			val := (*v)[k]
			t.String(&k)
			t.String(&val)
		}
		return
	}
	var n int32
	t.length(&n)
	if t.err != nil {
		return
	}
	if n < 0 {
		*v = nil
		return
	}
	out := make(map[string]string, n)
	for i := int32(0); i < n; i++ {
		var k, val string
		t.String(&k)
		t.String(&val)
		if t.err != nil {
			return
		}
		out[k] = val
	}
	*v = out
}

// Properties transfers a global-property set as a count-prefixed mapping,
// reconstructing through domain.NewPropertySet. A nil set round-trips as nil.
func (t *Translator) Properties(v **domain.PropertySet) {
	if t.mode == TranslateWrite {
		if *v == nil {
			n := int32(-1)
			t.length(&n)
			return
		}
		pairs := (*v).Pairs()
		n := int32(len(pairs))
		t.length(&n)
		for i := range pairs {
			t.String(&pairs[i].Name)
			t.String(&pairs[i].Value)
		}
		return
	}
	var n int32
	t.length(&n)
	if t.err != nil {
		return
	}
	if n < 0 {
		*v = nil
		return
	}
	set := domain.NewPropertySet()
	for i := int32(0); i < n; i++ {
		var name, value string
		t.String(&name)
		t.String(&value)
		if t.err != nil {
			return
		}
		set.Set(name, value)
	}
	*v = set
}

// TranslateOptional transfers a presence byte followed by the nested value
// when present. On read, factory constructs the value keyed off the carried
// version before translate fills it in.
func TranslateOptional[T any](
	t *Translator,
	v **T,
	factory func(version Version) *T,
	translate func(t *Translator, v *T),
) {
	present := *v != nil
	t.Bool(&present)
	if t.err != nil {
		return
	}
	if t.mode == TranslateWrite {
		if present {
			translate(t, *v)
		}
		return
	}
	if !present {
		*v = nil
		return
	}
	*v = factory(t.version)
	translate(t, *v)
}
