package report

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"bizledger/internal/domain/customer"
	"bizledger/internal/domain/invoice"
	"bizledger/internal/domain/ledger"
	"bizledger/internal/domain/product"
	"bizledger/internal/domain/transaction"
	"bizledger/internal/shared/apperror"
)

// TrendMonths is the length of the trailing monthly series
const TrendMonths = 6

// MonthPoint is one calendar month of the trend series.
type MonthPoint struct {
	Month             string          `json:"month"`
	Label             string          `json:"label"`
	Revenue           decimal.Decimal `json:"revenue"`
	COGS              decimal.Decimal `json:"cogs"`
	OperatingExpenses decimal.Decimal `json:"operatingExpenses"`
	Profit            decimal.Decimal `json:"profit"`
}

// Report is the income statement for a period plus business counters.
type Report struct {
	Period              ledger.Period   `json:"period"`
	GeneratedAt         time.Time       `json:"generatedAt"`
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	TotalCOGS           decimal.Decimal `json:"totalCogs"`
	GrossProfit         decimal.Decimal `json:"grossProfit"`
	OperatingExpenses   decimal.Decimal `json:"operatingExpenses"`
	TotalExpenses       decimal.Decimal `json:"totalExpenses"`
	NetProfit           decimal.Decimal `json:"netProfit"`
	OtherIncome         decimal.Decimal `json:"otherIncome"`
	CustomerCount       int             `json:"customerCount"`
	ProductCount        int             `json:"productCount"`
	LowStockCount       int             `json:"lowStockCount"`
	InvoiceCount        int             `json:"invoiceCount"`
	PaidInvoiceCount    int             `json:"paidInvoiceCount"`
	PendingInvoiceCount int             `json:"pendingInvoiceCount"`
	MonthlySeries       []MonthPoint    `json:"monthlySeries"`
}

// MonthlyTrend aggregates the TrendMonths calendar months ending with now's
// month, oldest first.
func MonthlyTrend(rows ledger.Rows, now time.Time, opts ledger.Options) []MonthPoint {
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	points := make([]MonthPoint, 0, TrendMonths)

	for i := TrendMonths - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		s := ledger.Aggregate(ledger.Period{Start: start, End: start.AddDate(0, 1, 0)}, rows, opts)
		points = append(points, MonthPoint{
			Month:             start.Format("2006-01"),
			Label:             start.Format("Jan 2006"),
			Revenue:           s.Revenue,
			COGS:              s.COGS,
			OperatingExpenses: s.OperatingExpenses,
			Profit:            s.NetProfit,
		})
	}
	return points
}

// Service assembles reports from the record store. It never computes totals
// itself; every figure comes from ledger.Aggregate.
type Service struct {
	transactions transaction.Repository
	invoices     invoice.Repository
	products     product.Repository
	customers    customer.Repository
	opts         ledger.Options
	loc          *time.Location
	now          func() time.Time
}

func NewService(
	transactions transaction.Repository,
	invoices invoice.Repository,
	products product.Repository,
	customers customer.Repository,
	opts ledger.Options,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		transactions: transactions,
		invoices:     invoices,
		products:     products,
		customers:    customers,
		opts:         opts,
		loc:          loc,
		now:          time.Now,
	}
}

// WithClock replaces the clock used for period resolution and the trend series.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Now returns the current time in the reporting location.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Resolve resolves a period token against the current time.
func (s *Service) Resolve(token, customStart, customEnd string) (ledger.Period, error) {
	return ResolvePeriod(token, customStart, customEnd, s.Now())
}

// Build fetches every record of the business and reduces it for period.
func (s *Service) Build(ctx context.Context, businessID string, period ledger.Period) (*Report, error) {
	const op = "report.Build"

	var (
		rows          ledger.Rows
		productCount  int
		lowStockCount int
		customerCount int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txns, err := s.transactions.List(gctx, businessID, transaction.ListFilter{})
		rows.Transactions = txns
		return err
	})
	g.Go(func() error {
		invs, err := s.invoices.ListWithItems(gctx, businessID)
		rows.Invoices = invs
		return err
	})
	g.Go(func() error {
		var err error
		productCount, err = s.products.Count(gctx, businessID)
		return err
	})
	g.Go(func() error {
		var err error
		lowStockCount, err = s.products.CountLowStock(gctx, businessID)
		return err
	})
	g.Go(func() error {
		var err error
		customerCount, err = s.customers.Count(gctx, businessID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.Store(op, err)
	}

	rows.Transactions = s.localDates(rows.Transactions)

	now := s.Now()
	summary := ledger.Aggregate(period, rows, s.opts)

	invoiceCount := 0
	for _, inv := range rows.Invoices {
		if period.Contains(inv.CreatedAt) {
			invoiceCount++
		}
	}

	log.Debug().
		Str("business_id", businessID).
		Int("transactions", len(rows.Transactions)).
		Int("invoices", len(rows.Invoices)).
		Msg("Report built")

	return &Report{
		Period:              period,
		GeneratedAt:         now,
		TotalRevenue:        summary.Revenue,
		TotalCOGS:           summary.COGS,
		GrossProfit:         summary.GrossProfit,
		OperatingExpenses:   summary.OperatingExpenses,
		TotalExpenses:       summary.TotalExpenses,
		NetProfit:           summary.NetProfit,
		OtherIncome:         summary.OtherIncome,
		CustomerCount:       customerCount,
		ProductCount:        productCount,
		LowStockCount:       lowStockCount,
		InvoiceCount:        invoiceCount,
		PaidInvoiceCount:    summary.PaidInvoiceCount,
		PendingInvoiceCount: summary.PendingInvoiceCount,
		MonthlySeries:       MonthlyTrend(rows, now, s.opts),
	}, nil
}

// localDates pins each transaction's calendar date to midnight in the
// reporting location. DATE columns scan as UTC midnight, which would shift
// a day across period bounds resolved in any zone west of UTC.
func (s *Service) localDates(txns []*transaction.Transaction) []*transaction.Transaction {
	out := make([]*transaction.Transaction, len(txns))
	for i, t := range txns {
		if t == nil {
			continue
		}
		c := *t
		y, m, d := t.Date.Date()
		c.Date = time.Date(y, m, d, 0, 0, 0, 0, s.loc)
		out[i] = &c
	}
	return out
}

// Dashboard is the all-time report shown on the landing page.
func (s *Service) Dashboard(ctx context.Context, businessID string) (*Report, error) {
	return s.Build(ctx, businessID, ledger.Period{})
}
