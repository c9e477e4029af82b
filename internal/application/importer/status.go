package importer

import (
	"math/rand/v2"

	"github.com/spendlens/backend/internal/domain/invoice"
)

// PaidRatio is the share of imported invoices marked as paid
const PaidRatio = 0.7

// StatusPicker assigns a status to each imported invoice. The export carries
// no payment state, so statuses are simulated.
type StatusPicker interface {
	Pick() invoice.Status
}

// RandomStatusPicker marks invoices paid with probability PaidRatio
type RandomStatusPicker struct {
	rng *rand.Rand
}

// NewRandomStatusPicker returns a picker seeded with seed. Equal seeds give
// equal sequences.
func NewRandomStatusPicker(seed uint64) *RandomStatusPicker {
	return &RandomStatusPicker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Pick returns paid or pending
func (p *RandomStatusPicker) Pick() invoice.Status {
	if p.rng.Float64() < PaidRatio {
		return invoice.StatusPaid
	}
	return invoice.StatusPending
}

// FixedStatus always returns the same status
type FixedStatus invoice.Status

// Pick returns the fixed status
func (s FixedStatus) Pick() invoice.Status {
	return invoice.Status(s)
}
