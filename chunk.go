package webtab

// DefaultChunkSize is the maximum chunk length, in characters, sent to the model.
const DefaultChunkSize = 6000

// SplitChunks splits text into consecutive pieces of at most maxLength
// characters. Lengths are counted in runes so a chunk never ends inside a
// multi-byte sequence. Concatenating the chunks reproduces text exactly.
// Empty text yields no chunks.
func SplitChunks(text string, maxLength int) ([]string, error) {
	if maxLength <= 0 {
		return nil, Errorf(ECONFIG, "chunk size must be positive, got %d", maxLength)
	}
	if text == "" {
		return nil, nil
	}

	var chunks []string
	start, n := 0, 0
	for i := range text {
		if n == maxLength {
			chunks = append(chunks, text[start:i])
			start, n = i, 0
		}
		n++
	}
	chunks = append(chunks, text[start:])
	return chunks, nil
}
