package chunker

import (
	"strings"
	"testing"
)

func TestSplit_ShortTextIsSingleChunk(t *testing.T) {
	text := "short document"
	chunks := Split(text, 1000, 200)
	if len(chunks) != 1 {
		t.Fatalf("chunk count got %d, want 1", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("chunk got %q, want %q", chunks[0], text)
	}
}

func TestSplit_ExactChunkSizeIsSingleChunk(t *testing.T) {
	text := strings.Repeat("a", 1000)
	chunks := Split(text, 1000, 200)
	if len(chunks) != 1 {
		t.Fatalf("chunk count got %d, want 1", len(chunks))
	}
}

func TestSplit_WindowsAndOverlap(t *testing.T) {
	// 2500 runes at size 1000, overlap 200: windows start at 0, 800, 1600.
	runes := make([]rune, 2500)
	for i := range runes {
		runes[i] = rune('a' + i%26)
	}
	text := string(runes)

	chunks := Split(text, 1000, 200)
	if len(chunks) != 3 {
		t.Fatalf("chunk count got %d, want 3", len(chunks))
	}
	if got := len([]rune(chunks[0])); got != 1000 {
		t.Errorf("first chunk length got %d, want 1000", got)
	}
	if got := len([]rune(chunks[2])); got != 900 {
		t.Errorf("final chunk length got %d, want 900", got)
	}

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		cur := []rune(chunks[i])
		if string(cur[:200]) != string(prev[len(prev)-200:]) {
			t.Errorf("chunk %d does not repeat the tail of chunk %d", i, i-1)
		}
	}
}

func TestSplit_Reconstruction(t *testing.T) {
	runes := make([]rune, 3333)
	for i := range runes {
		runes[i] = rune('a' + i%26)
	}
	text := string(runes)

	chunks := Split(text, 1000, 200)

	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, chunk := range chunks[1:] {
		rebuilt.WriteString(string([]rune(chunk)[200:]))
	}
	if rebuilt.String() != text {
		t.Error("dropping the overlap prefix of every non-first chunk did not rebuild the text")
	}
}

func TestSplit_FinalChunkNeverEmpty(t *testing.T) {
	// One rune past a window boundary still yields a chunk longer than the
	// overlap, because the final window extends to the end of the text.
	text := strings.Repeat("x", 1001)
	chunks := Split(text, 1000, 200)
	if len(chunks) != 2 {
		t.Fatalf("chunk count got %d, want 2", len(chunks))
	}
	if got := len(chunks[1]); got != 201 {
		t.Errorf("final chunk length got %d, want 201", got)
	}
}

func TestSplit_UnicodeRuneBoundaries(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 20)
	chunks := Split(text, 50, 10)
	for i, chunk := range chunks {
		if !strings.HasPrefix(text[strings.Index(text, chunk):], chunk) {
			t.Errorf("chunk %d is not a contiguous substring", i)
		}
	}
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, chunk := range chunks[1:] {
		rebuilt.WriteString(string([]rune(chunk)[10:]))
	}
	if rebuilt.String() != text {
		t.Error("unicode text did not survive splitting")
	}
}
