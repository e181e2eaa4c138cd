package codec

import gojson "github.com/goccy/go-json"

// GoJSON is a JSON codec backed by github.com/goccy/go-json. It skips HTML
// escaping, which array payloads never need, and produces output the JSON
// codec reads.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.MarshalNoEscape(v) }

func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.UnmarshalNoEscape(data, v) }

// Name returns "go-json".
func (GoJSON) Name() string { return "go-json" }

// Append encodes v and appends it to dst.
func (GoJSON) Append(dst []byte, v any) ([]byte, error) {
	b, err := gojson.MarshalNoEscape(v)
	if err != nil {
		return nil, err
	}
	return append(dst, b...), nil
}
