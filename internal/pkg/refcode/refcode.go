// Package refcode issues the short correlation tokens embedded in failure
// notices so a recipient can reference a specific incident.
package refcode

import (
	"crypto/rand"
	"math/big"
)

// Ambiguous glyphs (0/O, 1/I) are excluded; these codes get read back over
// email.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// New returns a 4-character upper-case correlation code.
func New() string {
	return generate(4)
}

func generate(n int) string {
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			out[i] = alphabet[0]
			continue
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out)
}
