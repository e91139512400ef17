package server

import (
	"encoding/json"
	"fmt"
)

// mustEncodeJSON calls json.Marshal and panics if it returns an error. Every
// value we encode is a plain struct of maps, slices, and scalars, so a
// marshal failure means a programming error rather than bad input.
func mustEncodeJSON(val any) []byte {
	utf8, err := json.Marshal(val)
	if err != nil {
		panic(fmt.Sprintf("mustEncodeJSON: failed to encode: %v", err))
	}
	return utf8
}
