package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ctacte/internal/domain"
	"github.com/iho/ctacte/internal/infrastructure/metrics"
)

// ImportUseCase turns delivery-note spreadsheet rows into deduplicated draft
// orders.
type ImportUseCase struct {
	tx             *TxRunner
	orderRepo      OrderRepository
	customerRepo   CustomerRepository
	outboxRepo     OutboxRepository
	idGen          IDGenerator
	metrics        *metrics.Metrics
	maxReportItems int
}

// NewImportUseCase creates a new ImportUseCase. maxReportItems caps each
// list in the report; zero means DefaultMaxReportItems.
func NewImportUseCase(
	tx *TxRunner,
	orderRepo OrderRepository,
	customerRepo CustomerRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	maxReportItems int,
) *ImportUseCase {
	if maxReportItems <= 0 {
		maxReportItems = DefaultMaxReportItems
	}
	return &ImportUseCase{
		tx:             tx,
		orderRepo:      orderRepo,
		customerRepo:   customerRepo,
		outboxRepo:     outboxRepo,
		idGen:          idGen,
		metrics:        metrics,
		maxReportItems: maxReportItems,
	}
}

// ImportRowsInput represents an import run. Rows dated before FromDate are
// ignored; a zero FromDate keeps every row.
type ImportRowsInput struct {
	Rows     []ImportRow
	FromDate time.Time
	Source   string
}

// ImportReport summarises an import run. The lists hold at most the
// configured number of items each; Truncated is set when any was cut.
type ImportReport struct {
	RowsRead          int
	RowsAccepted      int
	GroupsProcessed   int
	Created           int
	DuplicatesSkipped int
	Unresolved        int
	WarningCount      int
	ErrorCount        int
	Duplicates        []string
	UnresolvedRows    []string
	Warnings          []string
	Errors            []string
	Truncated         bool

	limit int
}

func (r *ImportReport) push(list *[]string, format string, args ...any) {
	if len(*list) >= r.limit {
		r.Truncated = true
		return
	}
	*list = append(*list, fmt.Sprintf(format, args...))
}

func (r *ImportReport) warn(format string, args ...any) {
	r.WarningCount++
	r.push(&r.Warnings, format, args...)
}

func (r *ImportReport) fail(format string, args ...any) {
	r.ErrorCount++
	r.push(&r.Errors, format, args...)
}

func (r *ImportReport) duplicate(format string, args ...any) {
	r.DuplicatesSkipped++
	r.push(&r.Duplicates, format, args...)
}

func (r *ImportReport) unresolved(format string, args ...any) {
	r.Unresolved++
	r.push(&r.UnresolvedRows, format, args...)
}

// importGroup accumulates the rows of one (delivery note, article) pair.
type importGroup struct {
	deliveryNoteNo string
	article        string
	date           time.Time
	quantity       decimal.Decimal
	weight         decimal.Decimal
	customerID     string
	notes          orderedSet
	names          orderedSet
}

func (g *importGroup) orderNotes() string {
	parts := g.notes.items()
	if names := g.names.items(); len(names) > 0 {
		parts = append(parts, fmt.Sprintf("SpreadsheetCustomer=%q", strings.Join(names, ", ")))
	}
	return domain.JoinNotes(parts...)
}

func (g *importGroup) summary() string {
	return fmt.Sprintf("%s | %s | %s | %s | %s",
		g.date.Format(domain.DateLayout),
		g.deliveryNoteNo,
		g.article,
		g.quantity.StringFixed(domain.QuantityScale),
		g.weight.StringFixed(domain.WeightScale),
	)
}

type orderedSet struct {
	seen  map[string]struct{}
	order []string
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *orderedSet) items() []string {
	return append([]string(nil), s.order...)
}

// ImportRows runs the reconciliation in two passes: rows are validated,
// resolved to a customer and grouped by (delivery note, article) first, then
// each group is inserted in its own transaction unless an order with the same
// dedupe key exists. Row problems are reported, not returned. The run stops
// between rows or groups when ctx is cancelled, returning the partial report
// with the context error.
func (uc *ImportUseCase) ImportRows(ctx context.Context, input ImportRowsInput) (*ImportReport, error) {
	tenantID, err := domain.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	logger := zerolog.Ctx(ctx).With().Str("source", input.Source).Int("rows", len(input.Rows)).Logger()

	directory, err := uc.loadDirectory(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{RowsRead: len(input.Rows), limit: uc.maxReportItems}
	placeholders := &placeholderCache{uc: uc, tenantID: tenantID, ids: map[string]string{}}

	var fromDate time.Time
	if !input.FromDate.IsZero() {
		fromDate = domain.DateOnly(input.FromDate)
	}

	groups, keys, err := uc.groupRows(ctx, input.Rows, fromDate, directory, placeholders, report)
	report.GroupsProcessed = len(groups)
	if err != nil {
		return report, err
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		uc.insertGroup(ctx, tenantID, groups[key], report)
	}

	uc.publishCompleted(ctx, tenantID, input.Source, report)

	if uc.metrics != nil {
		uc.metrics.ImportRows.WithLabelValues("accepted").Add(float64(report.RowsAccepted))
		uc.metrics.ImportRows.WithLabelValues("skipped").Add(float64(report.WarningCount))
		uc.metrics.ImportOrders.WithLabelValues("created").Add(float64(report.Created))
		uc.metrics.ImportOrders.WithLabelValues("duplicate").Add(float64(report.DuplicatesSkipped))
		uc.metrics.ImportOrders.WithLabelValues("failed").Add(float64(report.ErrorCount))
		uc.metrics.ImportDuration.Observe(time.Since(start).Seconds())
	}

	logger.Info().
		Int("accepted", report.RowsAccepted).
		Int("groups", report.GroupsProcessed).
		Int("created", report.Created).
		Int("duplicates", report.DuplicatesSkipped).
		Int("unresolved", report.Unresolved).
		Int("errors", report.ErrorCount).
		Msg("import completed")

	return report, nil
}

func (uc *ImportUseCase) loadDirectory(ctx context.Context, tenantID string) (*CustomerDirectory, error) {
	companies, err := uc.customerRepo.ListCompanies(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load companies: %w", err)
	}
	resellers, err := uc.customerRepo.ListResellers(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load resellers: %w", err)
	}
	customers, err := uc.customerRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	return NewCustomerDirectory(companies, resellers, customers), nil
}

// groupRows is the first pass. It returns the groups and their keys in the
// order they were first seen.
func (uc *ImportUseCase) groupRows(
	ctx context.Context,
	rows []ImportRow,
	fromDate time.Time,
	directory *CustomerDirectory,
	placeholders *placeholderCache,
	report *ImportReport,
) (map[string]*importGroup, []string, error) {
	groups := make(map[string]*importGroup)
	var keys []string

	for idx, row := range rows {
		if err := ctx.Err(); err != nil {
			return groups, keys, err
		}
		line := idx + 2

		if missing := row.MissingColumns(); len(missing) > 0 {
			report.warn("row %d: missing columns %s, row skipped", line, strings.Join(missing, ", "))
			continue
		}

		date, ok := ParseDeliveryDate(row[ColumnDeliveryDate])
		if !ok {
			report.warn("row %d: invalid %s %q, row skipped", line, ColumnDeliveryDate, cellString(row[ColumnDeliveryDate]))
			continue
		}
		if !fromDate.IsZero() && date.Before(fromDate) {
			continue
		}

		deliveryNoteNo := row.Text(ColumnDeliveryNote)
		article := row.Text(ColumnArticle)
		if deliveryNoteNo == "" || article == "" {
			report.warn("row %d: %s or %s empty, row skipped", line, ColumnDeliveryNote, ColumnArticle)
			continue
		}
		if domain.ValidateDeliveryNoteNo(deliveryNoteNo) != nil || domain.ValidateArticle(article) != nil {
			report.warn("row %d: %s or %s too long, row skipped", line, ColumnDeliveryNote, ColumnArticle)
			continue
		}

		quantity := ParseImportDecimal(row[ColumnQuantity], domain.QuantityScale)
		weight := ParseImportDecimal(row[ColumnWeight], domain.WeightScale)
		taxID := row.Text(ColumnTaxID)
		name := row.Text(ColumnCustomerName)

		resolution := directory.Resolve(taxID)
		customerID := resolution.CustomerID
		note := resolutionNote(taxID, resolution)
		if resolution.Kind != Resolved {
			placeholder := domain.UnregisteredTaxID
			if resolution.Kind == Ambiguous {
				placeholder = domain.TemporaryTaxID
			}
			id, err := placeholders.get(ctx, placeholder)
			if err != nil {
				report.fail("row %d: %v", line, err)
				continue
			}
			customerID = id
			report.unresolved("row %d: %s | delivery_note=%s | article=%s", line, note, deliveryNoteNo, article)
		}

		key := deliveryNoteNo + "||" + article
		g, ok := groups[key]
		if !ok {
			g = &importGroup{
				deliveryNoteNo: deliveryNoteNo,
				article:        article,
				date:           date,
				quantity:       quantity,
				weight:         weight,
				customerID:     customerID,
			}
			groups[key] = g
			keys = append(keys, key)
		} else {
			g.quantity = g.quantity.Add(quantity)
			g.weight = g.weight.Add(weight)
			if date.Before(g.date) {
				g.date = date
			}
			if g.customerID != customerID {
				g.notes.add(fmt.Sprintf("Group with different customers (first customer_id=%s, other=%s)", g.customerID, customerID))
			}
		}
		g.notes.add(note)
		g.names.add(name)
		report.RowsAccepted++
	}

	return groups, keys, nil
}

// insertGroup is the second pass for one group. Storage failures are
// reported against the group and do not stop the run.
func (uc *ImportUseCase) insertGroup(ctx context.Context, tenantID string, g *importGroup, report *ImportReport) {
	now := time.Now().UTC()
	order := &domain.Order{
		ID:             uc.idGen.Generate(),
		TenantID:       tenantID,
		CustomerID:     g.customerID,
		DeliveryDate:   g.date,
		DeliveryNoteNo: g.deliveryNoteNo,
		Article:        g.article,
		Quantity:       g.quantity.Round(domain.QuantityScale),
		WeightKg:       g.weight.Round(domain.WeightScale),
		Notes:          g.orderNotes(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var created bool
	err := uc.tx.RunDetached(ctx, func(txCtx context.Context, tx Transaction) error {
		var err error
		created, err = uc.orderRepo.InsertIfAbsent(txCtx, tx, order)
		return err
	})
	switch {
	case err != nil:
		report.fail("group %s=%q %s=%q: %v", ColumnDeliveryNote, g.deliveryNoteNo, ColumnArticle, g.article, err)
	case created:
		report.Created++
	default:
		report.duplicate("%s", g.summary())
	}
}

func (uc *ImportUseCase) publishCompleted(ctx context.Context, tenantID, source string, report *ImportReport) {
	if report.Created == 0 {
		return
	}
	now := time.Now().UTC()
	event := newOutboxEvent(uc.idGen, tenantID, domain.AggregateTypeImport, uc.idGen.Generate(), domain.EventTypeImportCompleted,
		map[string]any{
			"source":             source,
			"rows_read":          report.RowsRead,
			"created":            report.Created,
			"duplicates_skipped": report.DuplicatesSkipped,
			"unresolved":         report.Unresolved,
		}, now)

	err := uc.tx.Run(context.WithoutCancel(ctx), func(txCtx context.Context, tx Transaction) error {
		return uc.outboxRepo.Create(txCtx, tx, event)
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to record import event")
	}
}

// placeholderCache creates the placeholder customers on first use within an
// import run.
type placeholderCache struct {
	uc       *ImportUseCase
	tenantID string
	ids      map[string]string
}

var placeholderNames = map[string]string{
	domain.TemporaryTaxID:    "Temporary",
	domain.UnregisteredTaxID: "Unregistered",
}

func (p *placeholderCache) get(ctx context.Context, taxID string) (string, error) {
	if id, ok := p.ids[taxID]; ok {
		return id, nil
	}

	now := time.Now().UTC()
	name := placeholderNames[taxID]
	company := &domain.Company{
		ID:        p.uc.idGen.Generate(),
		TenantID:  p.tenantID,
		TaxID:     taxID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	customer := &domain.Customer{
		ID:        p.uc.idGen.Generate(),
		TenantID:  p.tenantID,
		TaxID:     taxID,
		FirstName: name,
		CompanyID: company.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var stored *domain.Customer
	err := p.uc.tx.Run(ctx, func(txCtx context.Context, tx Transaction) error {
		var err error
		stored, err = p.uc.customerRepo.EnsurePlaceholder(txCtx, tx, company, customer)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("ensure %s placeholder: %w", name, err)
	}

	p.ids[taxID] = stored.ID
	return stored.ID, nil
}
