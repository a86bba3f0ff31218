package notes

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// contentHash renders a non-cryptographic 64-bit digest of content as hex,
// used to detect whether a note's on-disk content actually changed.
func contentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}
