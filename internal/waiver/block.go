package waiver

// BlockKind classifies an OCR block. Only line blocks carry extractable text;
// everything else (words, pages, selection elements) is ignored by extraction.
type BlockKind string

const (
	BlockLine  BlockKind = "LINE"
	BlockOther BlockKind = "OTHER"
)

// TextBlock is one OCR-recognized line observation. Blocks arrive in page
// order and that order drives the extraction state machine.
type TextBlock struct {
	Page int
	Kind BlockKind
	Text string
}
