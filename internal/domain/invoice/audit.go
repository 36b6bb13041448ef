package invoice

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	// DefaultWorkerCount is the number of invoices audited concurrently
	DefaultWorkerCount = 5

	// DefaultBatchSize is the page size used when walking a business's invoices
	DefaultBatchSize = 200
)

// Mismatch describes an invoice whose stored figures disagree with its payments.
type Mismatch struct {
	InvoiceID     string          `json:"invoiceId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	PaymentsTotal decimal.Decimal `json:"paymentsTotal"`
	Status        Status          `json:"status"`
	Expected      Status          `json:"expectedStatus"`
	Reason        string          `json:"reason"`
}

// AuditResult contains the results of an audit run
type AuditResult struct {
	InvoicesChecked int        `json:"invoicesChecked"`
	Mismatches      []Mismatch `json:"mismatches"`
	Errors          []string   `json:"errors"`
}

func (r *AuditResult) merge(other *AuditResult) {
	r.InvoicesChecked += other.InvoicesChecked
	r.Mismatches = append(r.Mismatches, other.Mismatches...)
	r.Errors = append(r.Errors, other.Errors...)
}

type auditWorkerResult struct {
	mismatch *Mismatch
	err      error
}

// Auditor verifies that every invoice's amount_paid equals the sum of its
// payments and that its status matches the derived status.
type Auditor struct {
	repo        Repository
	workerCount int
}

func NewAuditor(repo Repository, workerCount int) *Auditor {
	if workerCount <= 0 {
		workerCount = DefaultWorkerCount
	}
	return &Auditor{repo: repo, workerCount: workerCount}
}

// CheckBatch audits a batch of invoices with a fixed pool of workers.
func (a *Auditor) CheckBatch(ctx context.Context, invoices []*Invoice) *AuditResult {
	result := &AuditResult{
		InvoicesChecked: len(invoices),
		Mismatches:      []Mismatch{},
		Errors:          []string{},
	}
	if len(invoices) == 0 {
		return result
	}

	jobs := make(chan *Invoice, len(invoices))
	results := make(chan auditWorkerResult, len(invoices))

	var wg sync.WaitGroup
	for i := 0; i < a.workerCount; i++ {
		wg.Add(1)
		go a.worker(ctx, jobs, results, &wg)
	}

	for _, inv := range invoices {
		jobs <- inv
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		if r.err != nil {
			result.Errors = append(result.Errors, r.err.Error())
		}
		if r.mismatch != nil {
			result.Mismatches = append(result.Mismatches, *r.mismatch)
		}
	}
	return result
}

func (a *Auditor) worker(ctx context.Context, jobs <-chan *Invoice, results chan<- auditWorkerResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for inv := range jobs {
		select {
		case <-ctx.Done():
			results <- auditWorkerResult{err: ctx.Err()}
			return
		default:
			m, err := a.check(ctx, inv)
			results <- auditWorkerResult{mismatch: m, err: err}
		}
	}
}

func (a *Auditor) check(ctx context.Context, inv *Invoice) (*Mismatch, error) {
	payments, err := a.repo.ListPayments(ctx, inv.BusinessID, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, err)
	}

	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}

	m := Mismatch{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		AmountPaid:    inv.AmountPaid,
		PaymentsTotal: sum,
		Status:        inv.Status,
		Expected:      DeriveStatus(inv.TotalAmount, inv.AmountPaid),
	}
	switch {
	case !sum.Equal(inv.AmountPaid):
		m.Reason = "amount paid differs from sum of payments"
	case inv.AmountPaid.IsNegative() || inv.AmountPaid.GreaterThan(inv.TotalAmount):
		m.Reason = "amount paid outside [0, total]"
	case inv.Status != m.Expected:
		m.Reason = "status does not match amounts"
	default:
		return nil, nil
	}
	return &m, nil
}

// CheckBusiness audits every invoice of a business, one page at a time.
func (a *Auditor) CheckBusiness(ctx context.Context, businessID string) (*AuditResult, error) {
	total := &AuditResult{Mismatches: []Mismatch{}, Errors: []string{}}
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		batch, err := a.repo.List(ctx, businessID, ListFilter{Limit: DefaultBatchSize, Offset: offset})
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			break
		}

		total.merge(a.CheckBatch(ctx, batch))
		offset += len(batch)
		if len(batch) < DefaultBatchSize {
			break
		}
	}

	log.Info().
		Str("business_id", businessID).
		Int("checked", total.InvoicesChecked).
		Int("mismatches", len(total.Mismatches)).
		Int("errors", len(total.Errors)).
		Msg("Invoice audit completed")

	return total, nil
}

// CheckBusinesses audits several businesses concurrently, bounded by the worker count.
func (a *Auditor) CheckBusinesses(ctx context.Context, businessIDs []string) map[string]*AuditResult {
	results := make(map[string]*AuditResult, len(businessIDs))
	var mu sync.Mutex
	var wg sync.WaitGroup

	sem := make(chan struct{}, a.workerCount)

	for _, id := range businessIDs {
		wg.Add(1)
		go func(businessID string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				results[businessID] = &AuditResult{Errors: []string{ctx.Err().Error()}}
				mu.Unlock()
				return
			}

			result, err := a.CheckBusiness(ctx, businessID)
			if err != nil {
				result.Errors = append(result.Errors, err.Error())
			}

			mu.Lock()
			results[businessID] = result
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return results
}
