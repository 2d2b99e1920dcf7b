package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Canonical field names produced by record normalization.
const (
	FieldTenderID        = "tender_id"
	FieldTenderName      = "tender_name"
	FieldStartDate       = "start_date"
	FieldEndDate         = "end_date"
	FieldTotalBudget     = "total_budget"
	FieldOrderID         = "order_id"
	FieldSupplier        = "supplier"
	FieldSupplierTaxID   = "supplier_tax_id"
	FieldDescription     = "description"
	FieldSubmittedAt     = "submitted_at"
	FieldAmount          = "amount"
	FieldAcceptanceState = "acceptance_state"
	FieldCertified       = "certified"
)

// RawRecord is one tabular row as received from upstream ingestion, keyed by
// whatever column names the source file happened to use.
type RawRecord map[string]string

// fieldAliases maps normalized source column names to canonical field names.
// Source files mix Spanish headings, accents, spacing and casing; keys here
// are in normalized form (lowercased, accent-folded, spaces as underscores).
var fieldAliases = map[string]string{
	// tender linkage
	"numero_licitacion": FieldTenderID,
	"licitacion":        FieldTenderID,
	"id_licitacion":     FieldTenderID,
	"id_compra":         FieldTenderID,
	"tender_id":         FieldTenderID,

	// tender fields
	"nombre_licitaciones": FieldTenderName,
	"nombre_licitacion":   FieldTenderName,
	"tender_name":         FieldTenderName,
	"fecha_inicio":        FieldStartDate,
	"start_date":          FieldStartDate,
	"fecha_final":         FieldEndDate,
	"fecha_fin":           FieldEndDate,
	"end_date":            FieldEndDate,
	"presupuesto_total":   FieldTotalBudget,
	"total_budget":        FieldTotalBudget,

	// order fields
	"orden_de_compra": FieldOrderID,
	"orden_compra":    FieldOrderID,
	"numero_orden":    FieldOrderID,
	"order_id":        FieldOrderID,
	"proveedor":       FieldSupplier,
	"supplier":        FieldSupplier,
	"rut_proveedor":   FieldSupplierTaxID,
	"rut":             FieldSupplierTaxID,
	"supplier_tax_id": FieldSupplierTaxID,
	"nombre_orden":    FieldDescription,
	"descripcion":     FieldDescription,
	"description":     FieldDescription,
	"fecha_envio_oc":  FieldSubmittedAt,
	"fecha_envio":     FieldSubmittedAt,
	"submitted_at":    FieldSubmittedAt,
	"total":           FieldAmount,
	"monto":           FieldAmount,
	"amount":          FieldAmount,
	"estado":          FieldAcceptanceState,
	"acceptance_state": FieldAcceptanceState,
	"certificado":     FieldCertified,
	"certified":       FieldCertified,
}

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

// NormalizeKey canonicalizes a column name: lowercase, trimmed, accents
// folded, internal whitespace collapsed to underscores, punctuation dropped.
func NormalizeKey(name string) string {
	name = accentFolder.Replace(strings.ToLower(strings.TrimSpace(name)))

	var b strings.Builder
	lastUnderscore := false

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == ' ' || r == '\t' || r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		default:
			// punctuation and other symbols are dropped
		}
	}

	return strings.TrimSuffix(b.String(), "_")
}

// Normalize produces a record keyed by canonical field names. Unrecognized
// columns are preserved under their normalized name but ignored by
// downstream logic. Pure transform, no side effects.
func (r RawRecord) Normalize() RawRecord {
	out := make(RawRecord, len(r))

	for key, value := range r {
		normalized := NormalizeKey(key)
		if canonical, ok := fieldAliases[normalized]; ok {
			normalized = canonical
		}

		out[normalized] = strings.TrimSpace(value)
	}

	return out
}

// Require checks that every named field is present and non-empty, returning
// a ValidationError listing the ones that are not.
func (r RawRecord) Require(fields ...string) error {
	var missing []string

	for _, f := range fields {
		if r[f] == "" {
			missing = append(missing, f)
		}
	}

	if len(missing) > 0 {
		return &ValidationError{MissingFields: missing}
	}

	return nil
}

// ParseAmount parses a money value that may carry a currency symbol and
// Chilean-style thousands separators ("$1.234.567" or "1,234,567.89").
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")

	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	if strings.Contains(s, ".") && strings.Contains(s, ",") {
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// 1.234.567,89: dots are thousands, comma is decimal
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234,567.89
			s = strings.ReplaceAll(s, ",", "")
		}
	} else if strings.Count(s, ".") > 1 {
		// 1.234.567: dots can only be thousands separators
		s = strings.ReplaceAll(s, ".", "")
	} else if strings.Count(s, ",") > 1 {
		s = strings.ReplaceAll(s, ",", "")
	} else if strings.Contains(s, ",") {
		s = strings.Replace(s, ",", ".", 1)
	}

	return decimal.NewFromString(s)
}

// dateLayouts are tried in order when parsing record dates.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a record date. The zero time means "no date"; orders
// without a date sort last in the ledger.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// certifiedValues are the spellings accepted as a positive certified flag.
var certifiedValues = map[string]bool{
	"si": true, "yes": true, "s": true, "y": true, "true": true, "1": true,
}

// ParseCertifiedFlag interprets the certified column of an ingested order.
func ParseCertifiedFlag(s string) bool {
	return certifiedValues[accentFolder.Replace(strings.ToLower(strings.TrimSpace(s)))]
}
