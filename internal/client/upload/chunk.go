package upload

// DefaultChunkSize is 6 MiB. The remote host requires every non-final
// chunk to be at least 5 MiB, so 6 MiB satisfies the constraint with
// margin for any payload.
const DefaultChunkSize = 6 * 1024 * 1024

// SplitChunks slices payload into size-byte chunks; the final chunk holds
// the remainder. An empty payload yields no chunks. The chunks alias the
// payload's backing array, no bytes are copied.
func SplitChunks(payload []byte, size int) [][]byte {
	if size <= 0 || len(payload) == 0 {
		return nil
	}
	chunks := make([][]byte, 0, (len(payload)+size-1)/size)
	for start := 0; start < len(payload); start += size {
		end := start + size
		if end > len(payload) {
			end = len(payload)
		}
		chunks = append(chunks, payload[start:end])
	}
	return chunks
}
