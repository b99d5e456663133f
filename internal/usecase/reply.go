package usecase

import "unicode/utf8"

// SplitReply cuts text into consecutive chunks of at most limit runes.
// Joining the chunks gives back text byte for byte; empty text yields no chunks.
func SplitReply(text string, limit int) []string {
	if text == "" {
		return nil
	}
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	start, count := 0, 0
	for i := range text {
		if count == limit {
			chunks = append(chunks, text[start:i])
			start, count = i, 0
		}
		count++
	}
	return append(chunks, text[start:])
}
