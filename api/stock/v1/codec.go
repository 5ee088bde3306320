// Package stockv1 is the gRPC surface of the inventory service. Messages are
// plain Go structs carried by a JSON codec registered under the "json"
// content-subtype, so clients must call with grpc.CallContentSubtype(Codec).
package stockv1

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// Codec is the content-subtype every stock.v1 call uses.
const Codec = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return Codec
}
