package badger

import (
	"encoding/binary"

	"github.com/poiesic/docquery/core"
)

// Key prefixes for different data types
const (
	sparseIndexPrefix = "sidx"
	graphPrefix       = "graph"
	unitPrefix        = "unit"
	vectorPrefix      = "vecpt"
)

// makeCollectionKey generates a key for a single-record blob scoped to a
// collection. Format: prefix:tenant:chat with both IDs in BigEndian so
// lexicographic sort groups a tenant's collections together. The same key
// doubles as the iteration prefix over a collection's per-unit keys.
func makeCollectionKey(prefix string, collection core.CollectionID) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(collection.Tenant))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(collection.Chat))
	return buf
}

// makeUnitKey generates a key for a text unit within a collection.
// Format: prefix:tenant:chat:unitID
func makeUnitKey(prefix string, collection core.CollectionID, unitID core.ID) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+24)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(collection.Tenant))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(collection.Chat))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(unitID))
	return buf
}
