package registry

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/sukibk/textractor/internal/waiver"
)

// Registry is the cumulative "Locations" table of known (operator, company,
// address) identities. Rows are append-only; resolution mutates the registry
// only by appending, and ID allocation depends on seeing every prior row, so
// a single writer must own the registry at a time.
type Registry struct {
	mu     sync.Mutex
	rows   []waiver.RegistryRow
	logger *slog.Logger
}

func New(rows []waiver.RegistryRow, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{rows: rows, logger: logger}
}

// Len returns the number of registry rows.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Rows returns a copy of the registry rows in append order.
func (r *Registry) Rows() []waiver.RegistryRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]waiver.RegistryRow, len(r.rows))
	copy(out, r.rows)
	return out
}

// Resolution is the outcome of resolving one record against the registry.
type Resolution struct {
	OperatorID int
	CompanyID  string
	FullID     string

	// NewRow is non-nil when resolution appended a registry row; callers
	// owning durable storage must persist it.
	NewRow *waiver.RegistryRow

	// OrphanCompanyID is set when a fresh company ID was allocated for the
	// ledger but no registry row records it (same person and street, new
	// company name). The ID is then undiscoverable by future lookups.
	OrphanCompanyID bool
}

// Resolve matches a record against the registry, allocating identifiers and
// appending a new row when appropriate.
func (r *Registry) Resolve(rec waiver.Record) Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()

	person := strings.TrimSpace(rec.ResponsiblePerson)
	street := strings.TrimSpace(rec.Street)
	issuer := strings.TrimSpace(rec.IssuedTo)

	var matches []int
	for i := range r.rows {
		if r.rows[i].ResponsiblePerson == person {
			matches = append(matches, i)
		}
	}

	if len(matches) == 0 {
		operatorID := r.nextOperatorID()
		companyID, companyName := r.companyFor(person, issuer)
		row := r.append(operatorID, companyID, companyName, person, rec)
		return Resolution{
			OperatorID: operatorID,
			CompanyID:  companyID,
			FullID:     row.FullID,
			NewRow:     &row,
		}
	}

	addrIdx := -1
	for _, i := range matches {
		if strings.TrimSpace(r.rows[i].Street) == street {
			addrIdx = i
			break
		}
	}

	if addrIdx >= 0 && companyNamesEqual(r.rows[addrIdx].CompanyName, issuer) {
		row := r.rows[addrIdx]
		return Resolution{
			OperatorID: row.OperatorID,
			CompanyID:  row.CompanyID,
			FullID:     row.FullID,
		}
	}

	// Known person: reuse the first match's operator ID whether or not the
	// address matched; the company is re-derived from this record.
	operatorID := r.rows[matches[0]].OperatorID
	companyID, companyName := r.companyFor(person, issuer)

	if addrIdx >= 0 {
		// Same person and street under a different company name: the ledger
		// carries the new company ID but the registry never learns it.
		return Resolution{
			OperatorID:      operatorID,
			CompanyID:       companyID,
			FullID:          waiver.FormatFullID(operatorID, companyID),
			OrphanCompanyID: companyID != waiver.CompanyIndividual,
		}
	}

	row := r.append(operatorID, companyID, companyName, person, rec)
	return Resolution{
		OperatorID: operatorID,
		CompanyID:  companyID,
		FullID:     row.FullID,
		NewRow:     &row,
	}
}

// nextOperatorID scans the whole registry so operator IDs are strictly
// increasing and never reused.
func (r *Registry) nextOperatorID() int {
	max := 0
	for i := range r.rows {
		if r.rows[i].OperatorID > max {
			max = r.rows[i].OperatorID
		}
	}
	return max + 1
}

// companyFor allocates the company identity for a record: the INDIVIDUAL
// sentinel when the responsible person is also the issuer, otherwise a fresh
// "C<n>" from a whole-registry max scan.
func (r *Registry) companyFor(person, issuer string) (companyID, companyName string) {
	if person == issuer {
		return waiver.CompanyIndividual, ""
	}
	max := 0
	for i := range r.rows {
		id := r.rows[i].CompanyID
		if !strings.HasPrefix(id, "C") {
			continue
		}
		if n, err := strconv.Atoi(id[1:]); err == nil && n > max {
			max = n
		}
	}
	return "C" + strconv.Itoa(max+1), issuer
}

func (r *Registry) append(operatorID int, companyID, companyName, person string, rec waiver.Record) waiver.RegistryRow {
	row := waiver.RegistryRow{
		OperatorID:        operatorID,
		CompanyID:         companyID,
		FullID:            waiver.FormatFullID(operatorID, companyID),
		ResponsiblePerson: person,
		Street:            strings.TrimSpace(rec.Street),
		City:              strings.TrimSpace(rec.City),
		State:             strings.TrimSpace(rec.State),
		Zip:               strings.TrimSpace(rec.Zip),
		CompanyName:       companyName,
	}
	r.rows = append(r.rows, row)
	r.logger.Debug("registry.row.appended",
		"operator_id", row.OperatorID,
		"company_id", row.CompanyID,
		"person", row.ResponsiblePerson,
	)
	return row
}

// companyNamesEqual compares company names with periods and commas stripped.
func companyNamesEqual(a, b string) bool {
	return stripPunct(a) == stripPunct(b)
}

var punctReplacer = strings.NewReplacer(".", "", ",", "")

func stripPunct(s string) string {
	return strings.TrimSpace(punctReplacer.Replace(s))
}
