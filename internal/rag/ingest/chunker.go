package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/akolanti/ragops/internal/domain/docModel"
	"github.com/google/uuid"
)

var pageMarker = regexp.MustCompile(`\[Page (\d+)\]`)

// chunkNamespace scopes deterministic chunk ids so re-chunking identical text yields identical ids.
var chunkNamespace = uuid.MustParse("6f1c1a52-4d43-4d6e-9a3b-2f0f4c6b8e11")

// Chunk splits text into overlapping windows of at most chunkSize runes, snapping
// the window end to a sentence boundary when one lies past the window midpoint.
// Offsets are rune offsets into the whitespace-normalized text.
func Chunk(text string, documentId string, chunkSize int, overlap int) []docModel.Chunk {
	clean := strings.Join(strings.Fields(text), " ")
	if clean == "" || chunkSize <= 0 {
		return []docModel.Chunk{}
	}
	if overlap < 0 {
		overlap = 0
	}

	runes := []rune(clean)
	total := len(runes)

	var chunks []docModel.Chunk
	start := 0
	for start < total {
		end := start + chunkSize
		if end > total {
			end = total
		}
		if end < total {
			if bp := lastBreak(runes, start, end); bp > start+chunkSize/2 {
				end = bp + 1
			}
		}

		content := strings.TrimSpace(string(runes[start:end]))
		if content != "" {
			index := len(chunks)
			chunks = append(chunks, docModel.Chunk{
				Id:         ChunkId(documentId, index),
				DocumentId: documentId,
				ChunkIndex: index,
				Content:    content,
				StartChar:  start,
				EndChar:    end,
				PageNumber: pageFor(content),
			})
		}

		next := end - overlap
		previousStart := start
		if len(chunks) > 0 {
			previousStart = chunks[len(chunks)-1].StartChar
		}
		if next <= previousStart || next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// ChunkId is stable for a (document, index) pair.
func ChunkId(documentId string, index int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(documentId+":"+strconv.Itoa(index))).String()
}

func lastBreak(runes []rune, start, end int) int {
	for i := end - 1; i >= start; i-- {
		if runes[i] == '.' || runes[i] == '\n' {
			return i
		}
	}
	return -1
}

// pageFor reads the first complete page marker in the chunk. A chunk without one,
// or whose only marker is cut off at either edge, has no page.
func pageFor(content string) *int {
	m := pageMarker.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	page, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &page
}
