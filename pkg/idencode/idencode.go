// Package idencode renders a manager instance's uuid as a short, URL-safe
// Base62 string for log line prefixes and CLI display, where the full
// 36-character uuid form is needlessly wide. Grounded on the teacher's
// pkg/encoding/base62.go, renamed to reflect its one caller here
// (redirection.Manager's correlation id) rather than a general encoding
// package.
package idencode

import (
	"github.com/eknkc/basex"
)

// alphabet is the digit set used for encoding; order matters (it defines
// digit values), but the specific choice is arbitrary beyond being 62
// unambiguous ASCII characters.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// codec is the Base62 encoder. It is safe for concurrent use.
var codec *basex.Encoding

func init() {
	enc, err := basex.NewEncoding(alphabet)
	if err != nil {
		panic("unable to initialize Base62 encoder")
	}
	codec = enc
}

// Encode renders value as a Base62 string.
func Encode(value []byte) string {
	return codec.Encode(value)
}

// Decode parses a Base62 string back into its original bytes.
func Decode(value string) ([]byte, error) {
	return codec.Decode(value)
}
