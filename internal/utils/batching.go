package utils

// Chunks splits items into consecutive slices of at most size elements,
// preserving order. A size <= 0 yields a single chunk with everything.
// The sub-slices alias the input; callers must not mutate them.
func Chunks[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]T{items}
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
