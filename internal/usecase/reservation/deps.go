package reservation

import "context"

// ReportCache is invalidated after every write that moves report figures.
type ReportCache interface {
	Invalidate(ctx context.Context)
}
