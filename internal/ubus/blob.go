// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ubus

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Blob attribute layout used by libubox: a 32-bit big-endian header holding
// a 7-bit id and a 24-bit length (header included), followed by the payload
// padded to 4 bytes.
const (
	blobAttrIDMask    = 0x7f000000
	blobAttrIDShift   = 24
	blobAttrLenMask   = 0x00ffffff
	blobAttrHeaderLen = 4

	msgHeaderLen  = 8
	msgVersion    = 0
	maxMessageLen = 1 << 20
)

type msgType uint8

const (
	msgHello  msgType = 0
	msgStatus msgType = 1
	msgData   msgType = 2
	msgPing   msgType = 3
	msgLookup msgType = 4
)

// Message attribute ids.
const (
	attrStatus  uint8 = 1
	attrObjPath uint8 = 2
	attrObjID   uint8 = 3
	attrObjType uint8 = 5
)

type blobAttr struct {
	id   uint8
	data []byte
}

type message struct {
	typ   msgType
	seq   uint16
	peer  uint32
	attrs []blobAttr
}

func padLen(n int) int {
	return (n + 3) &^ 3
}

func appendAttr(dst []byte, id uint8, data []byte) []byte {
	n := blobAttrHeaderLen + len(data)
	hdr := (uint32(id)<<blobAttrIDShift)&blobAttrIDMask | uint32(n)&blobAttrLenMask
	dst = binary.BigEndian.AppendUint32(dst, hdr)
	dst = append(dst, data...)
	for i := n; i < padLen(n); i++ {
		dst = append(dst, 0)
	}
	return dst
}

func appendStringAttr(dst []byte, id uint8, s string) []byte {
	data := make([]byte, 0, len(s)+1)
	data = append(data, s...)
	data = append(data, 0)
	return appendAttr(dst, id, data)
}

func appendUint32Attr(dst []byte, id uint8, v uint32) []byte {
	return appendAttr(dst, id, binary.BigEndian.AppendUint32(nil, v))
}

func parseAttrs(buf []byte) ([]blobAttr, error) {
	var attrs []blobAttr
	for len(buf) > 0 {
		if len(buf) < blobAttrHeaderLen {
			return nil, fmt.Errorf("%w: truncated attribute header", ErrProtocol)
		}
		hdr := binary.BigEndian.Uint32(buf)
		n := int(hdr & blobAttrLenMask)
		if n < blobAttrHeaderLen || n > len(buf) {
			return nil, fmt.Errorf("%w: attribute length %d out of range", ErrProtocol, n)
		}
		attrs = append(attrs, blobAttr{
			id:   uint8((hdr & blobAttrIDMask) >> blobAttrIDShift),
			data: buf[blobAttrHeaderLen:n],
		})
		next := padLen(n)
		if next > len(buf) {
			next = len(buf)
		}
		buf = buf[next:]
	}
	return attrs, nil
}

func (a blobAttr) string() string {
	return string(bytes.TrimRight(a.data, "\x00"))
}

func (a blobAttr) uint32() (uint32, error) {
	if len(a.data) != 4 {
		return 0, fmt.Errorf("%w: u32 attribute has %d bytes", ErrProtocol, len(a.data))
	}
	return binary.BigEndian.Uint32(a.data), nil
}

func (m message) attr(id uint8) (blobAttr, bool) {
	for _, a := range m.attrs {
		if a.id == id {
			return a, true
		}
	}
	return blobAttr{}, false
}

func encodeMessage(typ msgType, seq uint16, peer uint32, payload []byte) []byte {
	buf := make([]byte, 0, msgHeaderLen+blobAttrHeaderLen+len(payload))
	buf = append(buf, msgVersion, byte(typ))
	buf = binary.BigEndian.AppendUint16(buf, seq)
	buf = binary.BigEndian.AppendUint32(buf, peer)
	return appendAttr(buf, 0, payload)
}

func readMessage(r io.Reader) (message, error) {
	var hdr [msgHeaderLen + blobAttrHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return message{}, err
	}
	if hdr[0] != msgVersion {
		return message{}, fmt.Errorf("%w: unsupported message version %d", ErrProtocol, hdr[0])
	}
	n := int(binary.BigEndian.Uint32(hdr[msgHeaderLen:]) & blobAttrLenMask)
	if n < blobAttrHeaderLen || n > maxMessageLen {
		return message{}, fmt.Errorf("%w: message length %d out of range", ErrProtocol, n)
	}
	body := make([]byte, n-blobAttrHeaderLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return message{}, err
	}
	attrs, err := parseAttrs(body)
	if err != nil {
		return message{}, err
	}
	return message{
		typ:   msgType(hdr[1]),
		seq:   binary.BigEndian.Uint16(hdr[2:4]),
		peer:  binary.BigEndian.Uint32(hdr[4:8]),
		attrs: attrs,
	}, nil
}
