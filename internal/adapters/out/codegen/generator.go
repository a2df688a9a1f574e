// Package codegen draws validation code secrets from the operating system's
// cryptographic random source.
package codegen

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const digits = 6

var upperBound = big.NewInt(1_000_000)

// Generator produces uniformly distributed six digit codes, zero padded.
type Generator struct {
	source io.Reader
}

func NewGenerator() Generator {
	return Generator{source: rand.Reader}
}

// NewGeneratorFromSource reads randomness from source instead of crypto/rand.
func NewGeneratorFromSource(source io.Reader) Generator {
	return Generator{source: source}
}

func (g Generator) Generate() (string, error) {
	source := g.source
	if source == nil {
		source = rand.Reader
	}
	n, err := rand.Int(source, upperBound)
	if err != nil {
		return "", fmt.Errorf("generate validation code: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}
