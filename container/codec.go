package container

import "encoding/json"

// JSONEncoder is the reference Encoder implementation for add_object: the
// core only requires a byte-encoder contract, and JSON is what callers
// get by default.
func JSONEncoder(value any) ([]byte, error) {
	return json.Marshal(value)
}

// JSONDecoder is the reference Decoder implementation for get_object.
func JSONDecoder(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
