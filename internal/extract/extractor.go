package extract

import (
	"log/slog"
	"strings"
	"time"

	"github.com/sukibk/textractor/internal/common"
	"github.com/sukibk/textractor/internal/waiver"
)

// Section markers recognized by the state machine. Triggers are substring
// checks against each line, evaluated in priority order; a trigger always
// wins over continued accumulation in the current capture mode.
const (
	markerIssuedTo     = "ISSUED TO"
	markerAddress      = "ADDRESS"
	markerRespPerson   = "Responsible Person:"
	markerRespParty    = "Responsible Party:"
	markerWaiverNumber = "Waiver Number:"
	markerOperations   = "OPERATIONS AUTHORIZED"
	markerRegulations  = "LIST OF WAIVED REGULATIONS BY SECTION AND TITLE"
	markerProvisions   = "STANDARD PROVISIONS"
	markerEffective    = "effective from"
)

// addressBoilerplate is a known sentence the OCR folds into the address block.
const addressBoilerplate = "This certificate is issued for the operations specifically described hereinafter. No person shall conduct any operation pursuant to the"

const addressLineSlots = 3

// captureMode is the extractor's current multi-line capture state.
type captureMode int

const (
	captureNone captureMode = iota
	captureIssuedTo
	captureAddress
	captureOperations
	captureRegulations
)

// Extractor turns an ordered block stream into a structured waiver record.
// It is a pure single-pass state machine; a garbled document yields a record
// with more empty fields, never an error, except for a blockless input.
type Extractor struct {
	logger *slog.Logger

	// source_key -> source_url derivation.
	jsonPrefix string
	pdfBaseURL string
}

func NewExtractor(cfg common.SourceConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		logger:     logger,
		jsonPrefix: cfg.JSONPrefix,
		pdfBaseURL: strings.TrimRight(cfg.PDFBaseURL, "/"),
	}
}

// Extract runs the state machine over the block stream. Only page-1 LINE
// blocks are consumed; order is load-bearing.
func (e *Extractor) Extract(blocks []waiver.TextBlock, sourceKey string) (waiver.Record, error) {
	if len(blocks) == 0 {
		return waiver.Record{}, common.ErrEmptyInput
	}

	var (
		rec       waiver.Record
		mode      = captureNone
		addrLines [addressLineSlots]string
		addrCount int
		opsBuf    strings.Builder
		regBuf    strings.Builder
	)

	for _, b := range blocks {
		if b.Kind != waiver.BlockLine || b.Page != 1 {
			continue
		}
		text := b.Text

		switch {
		case strings.Contains(text, markerIssuedTo):
			mode = captureIssuedTo

		case strings.Contains(text, markerAddress):
			mode = captureAddress
			addrLines = [addressLineSlots]string{}
			addrCount = 0

		case strings.Contains(text, markerRespPerson), strings.Contains(text, markerRespParty):
			rec.ResponsiblePerson = splitAfterColon(text)

		case strings.Contains(text, markerWaiverNumber):
			rec.WaiverNumber = splitAfterColon(text)

		case strings.Contains(text, markerOperations):
			mode = captureOperations
			opsBuf.Reset()

		case strings.Contains(text, markerRegulations):
			mode = captureRegulations
			regBuf.Reset()

		case strings.Contains(strings.ToLower(text), markerEffective):
			e.parseEffectiveRange(text, &rec)

		default:
			switch mode {
			case captureIssuedTo:
				rec.IssuedTo = text
				mode = captureNone

			case captureAddress:
				if addrCount < addressLineSlots {
					addrLines[addrCount] = text + " "
					addrCount++
				}
				if addrCount == addressLineSlots {
					mode = captureNone
					rec.AddressRaw = strings.Join(addrLines[:], "/")
					comps := SegmentAddress(addrLines)
					rec.Street = comps.Street
					rec.City = comps.City
					rec.State = comps.State
					rec.Zip = comps.Zip
				}

			case captureOperations:
				opsBuf.WriteString(text + " ")
				if strings.Contains(text, markerRegulations) {
					mode = captureNone
				}

			case captureRegulations:
				regBuf.WriteString(text + " ")
				if strings.Contains(text, markerProvisions) {
					mode = captureNone
				}
			}
		}
	}

	// Document ended mid-address-capture: keep whatever lines were seen.
	if mode == captureAddress && addrCount > 0 {
		rec.AddressRaw = strings.Join(addrLines[:addrCount], "/")
	}

	rec.OperationsAuthorized = opsBuf.String()
	rec.WaivedRegulationsText = regBuf.String()

	e.finalize(&rec, sourceKey)
	return rec, nil
}

// finalize applies the one-shot post-pass after the stream ends.
func (e *Extractor) finalize(rec *waiver.Record, sourceKey string) {
	// Guard against documents that end mid-capture with the terminator
	// marker still embedded in an accumulator.
	if strings.Contains(rec.WaivedRegulationsText, markerProvisions) {
		rec.WaivedRegulationsText = strings.ReplaceAll(rec.WaivedRegulationsText, markerProvisions, "")
	}
	if strings.Contains(rec.OperationsAuthorized, markerRegulations) {
		rec.OperationsAuthorized = strings.ReplaceAll(rec.OperationsAuthorized, markerRegulations, "")
	}
	if strings.Contains(rec.AddressRaw, addressBoilerplate) {
		rec.AddressRaw = strings.ReplaceAll(rec.AddressRaw, addressBoilerplate, "")
	}

	rec.IssuedTo = strings.TrimSpace(rec.IssuedTo)
	rec.ResponsiblePerson = strings.TrimSpace(rec.ResponsiblePerson)
	rec.AddressRaw = strings.TrimSpace(rec.AddressRaw)
	rec.Street = strings.TrimSpace(rec.Street)
	rec.City = strings.TrimSpace(rec.City)
	rec.State = strings.TrimSpace(rec.State)
	rec.Zip = strings.TrimSpace(rec.Zip)
	rec.WaiverNumber = strings.TrimSpace(rec.WaiverNumber)
	rec.OperationsAuthorized = strings.TrimSpace(rec.OperationsAuthorized)
	rec.WaivedRegulationsText = strings.TrimSpace(rec.WaivedRegulationsText)

	rec.WaivedRegulations = MatchRegulationCodes(rec.WaivedRegulationsText)
	rec.SourceURL = e.SourceURL(sourceKey)
}

// SourceURL derives the public document URL from a storage key by pure
// string substitution: ".json" -> ".pdf", storage prefix -> public base URL.
func (e *Extractor) SourceURL(sourceKey string) string {
	name := strings.TrimPrefix(sourceKey, e.jsonPrefix)
	name = strings.TrimSuffix(name, ".json") + ".pdf"
	return e.pdfBaseURL + "/" + name
}

// parseEffectiveRange handles "... effective from <start> to <end>, ...".
// Anything but exactly two date parts, or an unparseable date, leaves both
// dates empty.
func (e *Extractor) parseEffectiveRange(text string, rec *waiver.Record) {
	idx := strings.Index(strings.ToLower(text), markerEffective)
	rest := text[idx+len(markerEffective):]

	parts := strings.SplitN(rest, " to ", 2)
	if len(parts) != 2 {
		return
	}

	start, err := parseDate(strings.TrimSpace(parts[0]))
	if err != nil {
		e.logger.Warn("extract.date.unparseable", "text", parts[0])
		return
	}
	endRaw, _, _ := strings.Cut(strings.TrimSpace(parts[1]), ",")
	end, err := parseDate(strings.TrimSpace(endRaw))
	if err != nil {
		e.logger.Warn("extract.date.unparseable", "text", endRaw)
		return
	}

	rec.EffectiveDate = start
	rec.ExpireDate = end
}

var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func splitAfterColon(text string) string {
	_, after, _ := strings.Cut(text, ":")
	return strings.TrimSpace(after)
}
