package query

import (
	"strconv"
	"strings"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
)

// OrderTimestampDesc is the only sort the data operation ever uses.
// The secondary order among equal timestamps is left to the store.
const OrderTimestampDesc = "transaction_timestamp.desc"

// Unbounded marks an operation without a row window.
const Unbounded = -1

// Operation is one data-store call: a predicate plus projection details.
type Operation struct {
	Predicate Predicate
	OrderBy   string
	Limit     int
	Offset    int
}

// Plan couples the count operation and the data operation for one
// search request. Both carry the predicate produced by a single
// BuildPredicate call; the planner never builds it twice.
type Plan struct {
	Count     Operation
	Data      Operation
	ExportAll bool
}

// NewPlan derives the coordinated count/data operations from a compiled
// filter. When exportAll is set the data operation has no window and the
// count operation still runs once so the response can report the total.
// Otherwise the data window is left open here and applied by ApplyWindow
// only after the count is known and the page clamped.
func NewPlan(spec domain.FilterSpec, exportAll bool) Plan {
	pred := BuildPredicate(spec)
	return Plan{
		Count: Operation{Predicate: pred, Limit: Unbounded},
		Data: Operation{
			Predicate: pred,
			OrderBy:   OrderTimestampDesc,
			Limit:     Unbounded,
		},
		ExportAll: exportAll,
	}
}

// ApplyWindow sets the data operation's [offset, offset+perPage) window
// from an already-clamped pagination result. It is a no-op for
// export-all plans.
func (p *Plan) ApplyWindow(pg Pagination) {
	if p.ExportAll {
		return
	}
	p.Data.Limit = pg.PerPage
	p.Data.Offset = pg.Offset()
}

func condMatches(c Cond, t *domain.Transaction) bool {
	switch c.Column {
	case ColDescription:
		needle := strings.ToLower(strings.Trim(c.Value, "*"))
		return strings.Contains(strings.ToLower(t.Description), needle)
	case ColType:
		return t.Type == c.Value
	case ColStatus:
		return t.Status == c.Value
	case ColTimestamp:
		n, err := strconv.ParseInt(c.Value, 10, 64)
		if err != nil {
			return false
		}
		if c.Op == "gte" {
			return t.Timestamp >= n
		}
		return t.Timestamp <= n
	case ColOriginAmount:
		f, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return false
		}
		amt := t.OriginAmount()
		if c.Op == "gte" {
			return amt >= f
		}
		return amt <= f
	}
	return false
}
