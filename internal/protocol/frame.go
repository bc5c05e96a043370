package protocol

import (
	"bytes"
	"encoding/binary"
	"io"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// maxFrameLen bounds a single packet payload.
const maxFrameLen = 64 << 20

// WritePacket frames and serializes one packet: a kind byte, a little-endian
// payload length, then the payload. The payload starts with the protocol
// version the fields were written at.
func WritePacket(w io.Writer, p Packet) error {
	return WritePacketAt(w, p, CurrentVersion)
}

// WritePacketAt serializes at an explicit version, emulating an older sender.
func WritePacketAt(w io.Writer, p Packet, version Version) error {
	var payload bytes.Buffer
	var vbuf [4]byte
	binary.LittleEndian.PutUint32(vbuf[:], uint32(version))
	payload.Write(vbuf[:])

	t := NewWriteTranslatorAt(&payload, version)
	p.Translate(t)
	if err := t.Err(); err != nil {
		return err
	}

	header := make([]byte, 5)
	header[0] = byte(p.Type())
	binary.LittleEndian.PutUint32(header[1:], uint32(payload.Len()))
	if _, err := w.Write(header); err != nil {
		return zerr.Wrap(err, "packet header write failed")
	}
	if _, err := w.Write(payload.Bytes()); err != nil {
		return zerr.Wrap(err, "packet payload write failed")
	}
	return nil
}

// ReadPacket reads one framed packet, constructing the typed message through
// the factory. A malformed stream is fatal: the caller must not attempt
// partial-message recovery.
func ReadPacket(r io.Reader, factory *Factory) (Packet, error) {
	header := make([]byte, 5)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, domain.WithDetail(domain.ErrMalformedPacket, "cause", err.Error())
	}

	kind := PacketType(header[0])
	length := binary.LittleEndian.Uint32(header[1:])
	if length < 4 || length > maxFrameLen {
		return nil, domain.WithDetail(domain.WithDetail(domain.ErrMalformedPacket, "type", kind.String()), "length", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, domain.WithDetail(domain.ErrMalformedPacket, "cause", err.Error())
	}

	version := Version(binary.LittleEndian.Uint32(payload[:4]))
	p, err := factory.Create(kind)
	if err != nil {
		return nil, err
	}

	t := NewReadTranslator(bytes.NewReader(payload[4:]), version)
	p.Translate(t)
	if err := t.Err(); err != nil {
		return nil, domain.WithDetail(domain.ErrMalformedPacket, "cause", err.Error())
	}
	return p, nil
}
