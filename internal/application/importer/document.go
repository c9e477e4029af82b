package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotAnArray is returned when the export is not a JSON array
var ErrNotAnArray = errors.New("export must be a JSON array of documents")

// valueOf is the {"value": ...} wrapper the extraction service puts around
// every field. A missing wrapper and a null value both leave Value nil.
type valueOf[T any] struct {
	Value *T `json:"value"`
}

func (v *valueOf[T]) get() (T, bool) {
	var zero T
	if v == nil || v.Value == nil {
		return zero, false
	}
	return *v.Value, true
}

// DocumentID is the export's _id, either "abc" or {"$oid": "abc"}
type DocumentID string

// UnmarshalJSON accepts a plain string or an extended-JSON ObjectId
func (id *DocumentID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = DocumentID(s)
		return nil
	}
	var oid struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(b, &oid); err != nil {
		return fmt.Errorf("document _id must be a string or {\"$oid\"}: %w", err)
	}
	*id = DocumentID(oid.OID)
	return nil
}

// slice returns id[from:to] clamped to the id length
func (id DocumentID) slice(from, to int) string {
	s := string(id)
	from, to = min(from, len(s)), min(to, len(s))
	return s[from:to]
}

// Document is one extraction result of the export
type Document struct {
	ID            DocumentID     `json:"_id"`
	ExtractedData *extractedData `json:"extractedData"`
}

type extractedData struct {
	LLMData *llmData `json:"llmData"`
}

type llmData struct {
	Invoice   *valueOf[invoiceFields]  `json:"invoice"`
	Vendor    *valueOf[vendorFields]   `json:"vendor"`
	Customer  *valueOf[customerFields] `json:"customer"`
	Payment   *valueOf[paymentFields]  `json:"payment"`
	Summary   *valueOf[summaryFields]  `json:"summary"`
	LineItems *valueOf[lineItemsField] `json:"lineItems"`
}

type invoiceFields struct {
	InvoiceID    *valueOf[string] `json:"invoiceId"`
	InvoiceDate  *valueOf[string] `json:"invoiceDate"`
	DeliveryDate *valueOf[string] `json:"deliveryDate"`
}

type vendorFields struct {
	VendorName    *valueOf[string] `json:"vendorName"`
	VendorAddress *valueOf[string] `json:"vendorAddress"`
	VendorTaxID   *valueOf[string] `json:"vendorTaxId"`
}

type customerFields struct {
	CustomerName    *valueOf[string] `json:"customerName"`
	CustomerAddress *valueOf[string] `json:"customerAddress"`
	CustomerTaxID   *valueOf[string] `json:"customerTaxId"`
}

type paymentFields struct {
	DueDate           *valueOf[string] `json:"dueDate"`
	PaymentTerms      *valueOf[string] `json:"paymentTerms"`
	BankAccountNumber *valueOf[string] `json:"bankAccountNumber"`
}

type summaryFields struct {
	SubTotal     *valueOf[decimal.Decimal] `json:"subTotal"`
	TotalTax     *valueOf[decimal.Decimal] `json:"totalTax"`
	InvoiceTotal *valueOf[decimal.Decimal] `json:"invoiceTotal"`
}

type lineItemsField struct {
	Items *valueOf[[]lineItemFields] `json:"items"`
}

type lineItemFields struct {
	Description *valueOf[string]          `json:"description"`
	Quantity    *valueOf[decimal.Decimal] `json:"quantity"`
	UnitPrice   *valueOf[decimal.Decimal] `json:"unitPrice"`
	TotalPrice  *valueOf[decimal.Decimal] `json:"totalPrice"`
}

// SplitExport splits the top-level array into raw documents. Elements that
// are themselves arrays are flattened one level; null elements are dropped.
func SplitExport(data []byte) ([]json.RawMessage, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnArray, err)
	}

	docs := make([]json.RawMessage, 0, len(top))
	for i, elem := range top {
		elem = bytes.TrimSpace(elem)
		switch {
		case len(elem) == 0 || bytes.Equal(elem, []byte("null")):
			continue
		case elem[0] == '[':
			var nested []json.RawMessage
			if err := json.Unmarshal(elem, &nested); err != nil {
				return nil, fmt.Errorf("decode batch %d: %w", i, err)
			}
			docs = append(docs, nested...)
		default:
			docs = append(docs, elem)
		}
	}
	return docs, nil
}

// DecodeDocument decodes one raw export document
func DecodeDocument(raw json.RawMessage) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
