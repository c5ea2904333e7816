package textract

import (
	"github.com/sukibk/textractor/internal/waiver"
)

// Block is the subset of a Textract block the pipeline consumes.
type Block struct {
	BlockType string `json:"BlockType"`
	Page      int    `json:"Page,omitempty"`
	Text      string `json:"Text,omitempty"`
}

// Result is a stored text-detection response.
type Result struct {
	JobStatus string  `json:"JobStatus,omitempty"`
	Blocks    []Block `json:"Blocks"`
}

// TextBlocks maps the raw blocks into the domain representation, preserving
// order. Non-LINE blocks are kept (as OTHER) so that the extractor, not the
// decoder, owns the filtering rule.
func (r *Result) TextBlocks() []waiver.TextBlock {
	out := make([]waiver.TextBlock, 0, len(r.Blocks))
	for _, b := range r.Blocks {
		kind := waiver.BlockOther
		if b.BlockType == "LINE" {
			kind = waiver.BlockLine
		}
		out = append(out, waiver.TextBlock{
			Page: b.Page,
			Kind: kind,
			Text: b.Text,
		})
	}
	return out
}
