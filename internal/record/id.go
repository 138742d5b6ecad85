package record

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	idLength      = 12
	crockfordBase = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
)

// NewID returns a 12-char Crockford base32 ID taken from the random bits of
// a fresh UUIDv7, so records created in the same millisecond still differ in
// their first characters and short prefixes stay useful.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("new uuidv7: %w", err)
	}

	return idFromUUID(id), nil
}

// UUIDv7 layout (RFC 9562): 48-bit time, 4-bit version, 12-bit rand_a,
// 2-bit variant, 62-bit rand_b. google/uuid fills rand_a with a sub-millisecond
// sequence, so the ID is the high 60 bits of rand_b.
func idFromUUID(id uuid.UUID) string {
	randB := (uint64(id[8]&0x3f) << 56) |
		(uint64(id[9]) << 48) |
		(uint64(id[10]) << 40) |
		(uint64(id[11]) << 32) |
		(uint64(id[12]) << 24) |
		(uint64(id[13]) << 16) |
		(uint64(id[14]) << 8) |
		uint64(id[15])

	top60 := randB >> 2

	var buf [idLength]byte
	for i := idLength - 1; i >= 0; i-- {
		buf[i] = crockfordBase[top60&0x1f]
		top60 >>= 5
	}

	return string(buf[:])
}

// normalizeID upper-cases an ID or prefix and maps the Crockford lookalikes
// (I, L -> 1, O -> 0) so users can type IDs loosely.
func normalizeID(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))

	return idReplacer.Replace(s)
}

var idReplacer = strings.NewReplacer("I", "1", "L", "1", "O", "0")
