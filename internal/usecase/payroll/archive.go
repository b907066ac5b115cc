package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/infra/storage"
)

type Archive struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ArchivePayroll stores a JSON snapshot of a period's payroll so a paid
// period can be reproduced after later corrections.
type ArchivePayroll struct {
	compute *ComputePayroll
	store   storage.ObjectStore
	now     func() time.Time
}

func NewArchivePayroll(compute *ComputePayroll, store storage.ObjectStore) *ArchivePayroll {
	return &ArchivePayroll{compute: compute, store: store, now: time.Now}
}

func (uc *ArchivePayroll) Execute(ctx context.Context, from, to time.Time) (*Archive, error) {
	report, err := uc.compute.Execute(ctx, from, to)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(struct {
		GeneratedAt time.Time `json:"generated_at"`
		*Report
	}{uc.now().UTC(), report}, "", "  ")
	if err != nil {
		return nil, httperr.Internal("archive_encode_failed", "could not encode payroll", err)
	}

	key := fmt.Sprintf("payroll/%s_%s_%d.json", report.StartDate, report.EndDate, uc.now().Unix())
	url, err := uc.store.Put(ctx, key, "application/json", body)
	if err != nil {
		return nil, err
	}

	return &Archive{Key: key, URL: url}, nil
}
