package store

import (
	"encoding/binary"

	"github.com/gogo/protobuf/proto"
)

// Uint32Codec encodes uint32 elements, used for MarkerId and VertexId
// tables.
type Uint32Codec struct{}

func (Uint32Codec) Encode(v interface{}) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v.(uint32))
	return b
}

func (Uint32Codec) Decode(b []byte) interface{} {
	return binary.LittleEndian.Uint32(b)
}

// Int32Codec encodes int32 elements, used for marker-graph ordinals
// and segment ids.
type Int32Codec struct{}

func (Int32Codec) Encode(v interface{}) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v.(int32)))
	return b
}

func (Int32Codec) Decode(b []byte) interface{} {
	return int32(binary.LittleEndian.Uint32(b))
}

// ProtoCodec encodes gogo/protobuf messages, used for the
// assemblepb record tables. newMessage must return a fresh zero
// value of the concrete message type on every call, since Decode
// populates it in place.
type ProtoCodec struct {
	newMessage func() proto.Message
}

// NewProtoCodec returns a Codec for the proto.Message type produced by
// newMessage.
func NewProtoCodec(newMessage func() proto.Message) Codec {
	return ProtoCodec{newMessage: newMessage}
}

func (c ProtoCodec) Encode(v interface{}) []byte {
	b, err := proto.Marshal(v.(proto.Message))
	if err != nil {
		// Record shapes are fixed and hand-authored; a marshal failure
		// here means a Codec/message mismatch, a programming error.
		panic(err)
	}
	return b
}

func (c ProtoCodec) Decode(b []byte) interface{} {
	m := c.newMessage()
	if err := proto.Unmarshal(b, m); err != nil {
		panic(err)
	}
	return m
}
