package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/anvesht/ragline/internal/domain/models"
)

const blockSeparator = "\n\n---\n\n"

// Assemble formats ranked retrieval results into the context block handed
// to the generator. Rank order is preserved; the function is pure.
func Assemble(results []models.SearchResult) string {
	blocks := make([]string, len(results))
	for i, res := range results {
		page := "N/A"
		if res.Metadata.Page > 0 {
			page = strconv.Itoa(res.Metadata.Page)
		}
		source := res.Metadata.Source
		if source == "" {
			source = "unknown"
		}
		blocks[i] = fmt.Sprintf("[Source: %s | Page: %s]\n%s", source, page, res.Content)
	}
	return strings.Join(blocks, blockSeparator)
}
