package waiver

import (
	"fmt"
	"time"
)

// DateFormat is the canonical serialization for waiver dates.
const DateFormat = "01/02/2006"

// CompanyIndividual is the shared company sentinel for individual filers.
// It is not a deduplicated company identity.
const CompanyIndividual = "INDIVIDUAL"

// Record is the structured output of field extraction, one per document.
// Every field defaults to empty when its trigger text never appears;
// extraction degrades to empty fields rather than failing.
type Record struct {
	IssuedTo          string
	ResponsiblePerson string

	AddressRaw string
	Street     string
	City       string
	State      string
	Zip        string

	WaiverNumber          string
	OperationsAuthorized  string
	WaivedRegulationsText string
	WaivedRegulations     FlagSet

	EffectiveDate time.Time
	ExpireDate    time.Time

	SourceURL string
}

// FormatDate renders a waiver date, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}

// RegistryRow is one row of the "Locations" registry: a (operator, company)
// pairing at an address. Rows are append-only and never edited.
type RegistryRow struct {
	OperatorID        int
	CompanyID         string // CompanyIndividual or "C" + positive integer
	FullID            string
	ResponsiblePerson string
	Street            string
	City              string
	State             string
	Zip               string
	CompanyName       string // empty when CompanyID == CompanyIndividual
}

// LedgerRow is one row of the "Waiver Data" ledger, one per ingested
// document. The ledger is append-only and never deduplicated.
type LedgerRow struct {
	OperatorID           int
	CompanyID            string
	FullID               string
	EffectiveDate        string
	ExpireDate           string
	WaiverNumber         string
	SourceURL            string
	WaivedRegulations    FlagSet
	OperationsAuthorized string
}

// FormatFullID builds the external identity "{operator_id}-{company_id}".
func FormatFullID(operatorID int, companyID string) string {
	return fmt.Sprintf("%d-%s", operatorID, companyID)
}
