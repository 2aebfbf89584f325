// Package v1 defines the cocina.v1 gRPC services. Messages are plain Go
// structs carried by a JSON codec registered under the "json" content
// subtype; clients in this package select it on every call.
package v1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// CodecName is the gRPC content subtype the services are served with.
const CodecName = "json"

var (
	protoMarshal   = protojson.MarshalOptions{}
	protoUnmarshal = protojson.UnmarshalOptions{DiscardUnknown: true}
)

// jsonCodec encodes proto messages with protojson and every other message
// with encoding/json. Well-known types nested in plain structs, such as
// timestamps, travel as their seconds and nanos fields.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if m, ok := v.(proto.Message); ok {
		b, err = protoMarshal.Marshal(m)
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("json codec marshal %T: %w", v, err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	var err error
	if m, ok := v.(proto.Message); ok {
		err = protoUnmarshal.Unmarshal(data, m)
	} else {
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("json codec unmarshal %T: %w", v, err)
	}
	return nil
}

func (jsonCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// CallOption selects the JSON codec. Generated clients pass it automatically;
// it is exported for callers using a raw grpc.ClientConn.
func CallOption() grpc.CallOption {
	return grpc.CallContentSubtype(CodecName)
}
