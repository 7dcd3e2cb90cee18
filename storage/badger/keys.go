package badger

import (
	"encoding/binary"

	"github.com/poiesic/qamatch/core"
)

// Key prefixes for different data types
const (
	vectorPrefix = "vec:"
)

// namespace separator; fingerprints never contain NUL.
const nsSep = 0x00

// makeVectorKey generates a composite key for a cached vector.
// Format: prefix namespace NUL id(big endian)
func makeVectorKey(namespace string, id core.ID) []byte {
	prefix := makeNamespacePrefix(namespace)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeNamespacePrefix generates the partial key shared by every vector of namespace.
// An empty namespace selects all vectors.
func makeNamespacePrefix(namespace string) []byte {
	if namespace == "" {
		return []byte(vectorPrefix)
	}
	buf := make([]byte, 0, len(vectorPrefix)+len(namespace)+1)
	buf = append(buf, vectorPrefix...)
	buf = append(buf, namespace...)
	return append(buf, nsSep)
}
