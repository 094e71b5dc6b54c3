package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/kyliekoshet/ZyoniaRAG/core"
)

// Key prefixes for different data types
const (
	chunkPrefix    = "chunk"
	chunkDocPrefix = "chunkdoc"
	envelopePrefix = "envcache"
)

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkPrefix, id))
}

// makeChunkDocKey generates a composite key for the document index.
// Format: prefix:document:seq:id. Seq is BigEndian so a prefix scan
// over one document yields chunks in sequence order.
func makeChunkDocKey(document string, seq int, id core.ID) []byte {
	prefix := makePartialChunkDocKey(document)
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(seq))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialChunkDocKey generates the scan prefix for one document.
func makePartialChunkDocKey(document string) []byte {
	return []byte(chunkDocPrefix + ":" + document + ":")
}

// makeEnvelopeKey generates a key for a cached envelope.
func makeEnvelopeKey(key string) []byte {
	return []byte(envelopePrefix + ":" + key)
}
