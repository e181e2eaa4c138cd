package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Arrays encode through their MarshalJSON method, so the output of JSON and
// GoJSON is interchangeable. JSON is the most portable choice for archives
// read by other tools.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the default codec used by the library.
//
// NOTE: This affects newly-written blobs only. Existing blobs are
// self-describing and are decoded by the codec named in their header.
var Default Codec = Binary{}
