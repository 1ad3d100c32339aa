package multipart

import (
	"crypto/rand"
	"encoding/hex"
)

// Generator produces multipart boundary delimiter tokens.
// One token is generated per body, plus one per nested mixed sub-part;
// tokens are never reused across fields.
type Generator interface {
	// Generate returns a new collision-resistant boundary token.
	Generate() string
}

// boundaryDashes is the conventional dash run prefixing every token.
// It lets parsers scan for candidate delimiters cheaply.
const boundaryDashes = "--------------------------"

// RandomGenerator is the default Generator. Tokens are a dash run followed
// by 24 hex characters of crypto/rand entropy, which makes a verbatim
// collision with arbitrary payload bytes vanishingly unlikely.
type RandomGenerator struct{}

// Generate implements Generator.
func (RandomGenerator) Generate() string {
	var raw [12]byte
	if _, err := rand.Read(raw[:]); err != nil {
		// crypto/rand failing means the platform entropy source is gone;
		// there is no reasonable recovery for a delimiter token.
		panic("multipart: boundary entropy unavailable: " + err.Error())
	}
	return boundaryDashes + hex.EncodeToString(raw[:])
}

// Verify RandomGenerator implements Generator.
var _ Generator = RandomGenerator{}
