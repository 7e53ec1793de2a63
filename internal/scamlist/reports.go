package scamlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/injective"
	"injective-token-lab/internal/notify"
	"injective-token-lab/internal/storage"
)

// Reports accepts user scam reports and lists them next to the curated list.
type Reports struct {
	list     *List
	store    storage.ScamReportStore
	notifier notify.Notifier
	now      func() time.Time
}

// NewReports creates the report service.
func NewReports(list *List, store storage.ScamReportStore, notifier notify.Notifier) *Reports {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Reports{list: list, store: store, notifier: notifier, now: time.Now}
}

// Submit validates and stores a report, then announces it.
// All of Address, Project, Info and Discord are required.
func (r *Reports) Submit(ctx context.Context, address, project, info, discord string) (*domain.ScamReport, error) {
	report := &domain.ScamReport{
		Address: strings.TrimSpace(address),
		Project: strings.TrimSpace(project),
		Info:    strings.TrimSpace(info),
		Discord: strings.TrimSpace(discord),
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"Address", report.Address}, {"Project", report.Project},
		{"Info", report.Info}, {"Discord", report.Discord},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), injective.ErrMalformedInput)
	}
	if !domain.ValidAddress(report.Address) {
		return nil, fmt.Errorf("address %q: %w", report.Address, injective.ErrMalformedInput)
	}

	report.ID = uuid.NewString()
	report.ReportedAt = r.now().UTC()
	if err := r.store.Insert(ctx, report); err != nil {
		return nil, fmt.Errorf("store scam report: %w", err)
	}

	r.notifier.Notify(ctx, notify.KindScam, notify.ScamReportEmbed(report))
	return report, nil
}

// Overview returns the curated entries and every stored report.
func (r *Reports) Overview(ctx context.Context) (*domain.ScamOverview, error) {
	reports, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scam reports: %w", err)
	}
	if reports == nil {
		reports = []*domain.ScamReport{}
	}
	return &domain.ScamOverview{Listed: r.list.Entries(), Reports: reports}, nil
}
