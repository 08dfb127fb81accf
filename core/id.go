package core

import (
	"encoding/binary"
	"strconv"

	"github.com/go-crypt/x/blake2b"
)

// IDFromContent generates a deterministic ID from text content using BLAKE2b
// hashing. Identical content always produces the identical ID, which keeps
// wholesale rebuilds idempotent.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// UnitIDFor derives the canonical ID for a text unit from its document,
// sequence and text. Used by the seeder and tests; the document pipeline
// normally assigns IDs the same way.
func UnitIDFor(documentID ID, sequence int, text string) ID {
	return IDFromContent(documentID.String() + ":" + strconv.Itoa(sequence) + ":" + text)
}
