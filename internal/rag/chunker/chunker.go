package chunker

// Split cuts text into fixed-stride windows of chunkSize runes where each
// chunk after the first repeats the last chunkOverlap runes of the previous
// one. The final chunk may be shorter. Splitting is deterministic, so the
// original text can be rebuilt by dropping the overlap prefix of every
// non-first chunk.
//
// Callers validate chunkSize > 0 and 0 <= chunkOverlap < chunkSize; the
// parameters come from config, not user input.
func Split(text string, chunkSize, chunkOverlap int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	stride := chunkSize - chunkOverlap
	var chunks []string
	for start := 0; ; start += stride {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
