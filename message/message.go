// Package message defines the fixed-size record that nodes flood over the
// broadcast medium.
package message

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Size is the length in bytes of an encoded Message. Every datagram sent or
// received by a node has exactly this length.
const Size = 3 * 8

var ErrShortMessage = errors.New("message: datagram size differs from message size")

// Message is the wire record.
// Origin is the id of the node that last transmitted the record, not of its
// author: every relay overwrites it with the relaying node's id.
type Message struct {
	Origin   int64
	Payload  int64
	Sequence int64
}

// Encode lays out the fields in the order origin, payload, sequence using the
// host byte order.
func Encode(m Message) []byte {
	b := make([]byte, Size)
	binary.NativeEndian.PutUint64(b[0:8], uint64(m.Origin))
	binary.NativeEndian.PutUint64(b[8:16], uint64(m.Payload))
	binary.NativeEndian.PutUint64(b[16:24], uint64(m.Sequence))
	return b
}

// Decode parses a datagram. Any length other than Size is rejected.
func Decode(b []byte) (Message, error) {
	if len(b) != Size {
		return Message{}, fmt.Errorf("%w: got %d bytes, want %d", ErrShortMessage, len(b), Size)
	}
	return Message{
		Origin:   int64(binary.NativeEndian.Uint64(b[0:8])),
		Payload:  int64(binary.NativeEndian.Uint64(b[8:16])),
		Sequence: int64(binary.NativeEndian.Uint64(b[16:24])),
	}, nil
}

func (m Message) MarshalBinary() ([]byte, error) {
	return Encode(m), nil
}

func (m *Message) UnmarshalBinary(b []byte) error {
	decoded, err := Decode(b)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

func (m Message) String() string {
	return fmt.Sprintf("{origin:%d payload:%d sequence:%d}", m.Origin, m.Payload, m.Sequence)
}
