package rest

import (
	"encoding/json"
)

// Serializer turns a request body value into bytes sent on the wire.
type Serializer interface {
	Serialize(v interface{}) ([]byte, error)
}

// SerializerFunc adapts a function to the Serializer interface.
type SerializerFunc func(v interface{}) ([]byte, error)

// Serialize calls f(v).
func (f SerializerFunc) Serialize(v interface{}) ([]byte, error) {
	return f(v)
}

// JSONSerializer encodes bodies as compact JSON. Values that are already
// encoded ([]byte, json.RawMessage) are passed through untouched.
type JSONSerializer struct{}

// Serialize implements Serializer.
func (JSONSerializer) Serialize(v interface{}) ([]byte, error) {
	switch body := v.(type) {
	case json.RawMessage:
		return body, nil
	case []byte:
		return body, nil
	}
	return json.Marshal(v)
}
