package chat

import (
	"math/rand"
	"strings"
)

const (
	// JoinCodeAlphabet spans 36^6 (~2.1e9) possible codes at the
	// default length.
	JoinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	JoinCodeLength   = 6

	// maxCodeAttempts bounds allocation by attempt count, not wall
	// clock, so behavior stays deterministic under test.
	maxCodeAttempts = 10
)

// CodeGenerator draws candidate join codes. The zero value is not
// usable; NewCodeGenerator fills in the production alphabet. Tests
// shrink the alphabet to force collisions.
type CodeGenerator struct {
	Alphabet string
	Length   int
}

func NewCodeGenerator() CodeGenerator {
	return CodeGenerator{Alphabet: JoinCodeAlphabet, Length: JoinCodeLength}
}

func (g CodeGenerator) Next() string {
	var b strings.Builder
	b.Grow(g.Length)
	for i := 0; i < g.Length; i++ {
		b.WriteByte(g.Alphabet[rand.Intn(len(g.Alphabet))])
	}
	return b.String()
}
