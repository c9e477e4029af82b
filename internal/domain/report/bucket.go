package report

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
)

// BucketByMonth groups invoices by UTC calendar month and keeps the latest
// keep months in ascending order. keep <= 0 keeps all months.
func BucketByMonth(amounts []InvoiceAmount, keep int) []MonthlySpend {
	index := make(map[string]int)
	buckets := make([]MonthlySpend, 0)
	for _, a := range amounts {
		key := a.InvoiceDate.UTC().Format(monthLayout)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, MonthlySpend{Month: key, TotalSpend: decimal.Zero})
		}
		buckets[i].InvoiceCount++
		buckets[i].TotalSpend = buckets[i].TotalSpend.Add(a.TotalWithVat)
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Month < buckets[j].Month })
	if keep > 0 && len(buckets) > keep {
		buckets = buckets[len(buckets)-keep:]
	}
	return buckets
}

// BucketByDay groups due payments by UTC calendar day in ascending order
func BucketByDay(payments []DuePayment) []DailyOutflow {
	index := make(map[string]int)
	buckets := make([]DailyOutflow, 0)
	for _, p := range payments {
		key := p.DueDate.UTC().Format(dayLayout)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, DailyOutflow{Date: key, Amount: decimal.Zero})
		}
		buckets[i].Amount = buckets[i].Amount.Add(p.Amount)
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
	return buckets
}
