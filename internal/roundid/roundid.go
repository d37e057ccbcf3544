// Package roundid generates sortable identifiers for blackjack rounds.
//
// An ID is a UUIDv7 (millisecond timestamp followed by random bits) encoded
// as 26 characters of Crockford base32, so IDs sort by creation time.
package roundid

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/coder/quartz"
)

// Crockford base32 alphabet.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an encoded ID.
const Length = 26

// RandSource supplies randomness for deterministic IDs in tests.
// *math/rand/v2.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// Generator creates round IDs from a clock and an optional random source.
type Generator struct {
	clock quartz.Clock
	rand  RandSource
}

// NewGenerator creates a generator. A nil clock uses the real clock and a
// nil RandSource uses crypto/rand.
func NewGenerator(clock quartz.Clock, randSource RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, rand: randSource}
}

// New creates a round ID using the real clock and crypto/rand.
func New() string {
	return NewGenerator(nil, nil).New()
}

// New creates a round ID.
func (g *Generator) New() string {
	return encode(g.uuidV7())
}

func (g *Generator) uuidV7() [16]byte {
	var id [16]byte

	ms := g.clock.Now().UnixMilli()
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}

	if g.rand != nil {
		for i := 6; i < 16; i++ {
			id[i] = byte(g.rand.IntN(256))
		}
	} else if _, err := rand.Read(id[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant
	return id
}

// encode packs 128 bits into 26 five-bit symbols, most significant first.
// The final symbol carries the last three bits padded with two zero bits.
func encode(data [16]byte) string {
	var b strings.Builder
	b.Grow(Length)

	for i := 0; i < Length; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var v uint8
		if bitIndex <= 3 {
			v = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
		} else {
			v = (data[byteIndex] << (bitIndex - 3)) & 0x1f
			if byteIndex+1 < len(data) {
				v |= data[byteIndex+1] >> (11 - bitIndex)
			}
		}
		b.WriteByte(alphabet[v])
	}
	return b.String()
}

// Validate checks that id is a well-formed round ID.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("round ID must be exactly %d characters, got %d", Length, len(id))
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
