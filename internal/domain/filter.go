package domain

import "strconv"

// Pagination bounds enforced by the filter compiler.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 50
)

// FilterSpec is the normalized, typed form of a search/report query.
// It is built once per request by CompileFilter and is never mutated by
// downstream components; everything after the compiler consumes only
// this form, never raw request parameters.
type FilterSpec struct {
	// Description matches as a case-insensitive substring, not equality.
	Description string
	Type        string
	Status      string

	// Inclusive epoch-ms range on the transaction timestamp. A nil bound
	// leaves that side open.
	StartTimestamp *int64
	EndTimestamp   *int64

	// Inclusive range on the origin transaction amount.
	MinAmount *float64
	MaxAmount *float64

	Page    int
	PerPage int
}

// CompileFilter translates loosely-typed query parameters into a
// FilterSpec. This is a permissive boundary: unknown keys are ignored
// and unparsable numerics degrade to "not set"; a malformed filter is
// never a request error. (Creation validation is the strict path.)
func CompileFilter(params map[string]string) FilterSpec {
	spec := FilterSpec{
		Description: params["description"],
		Type:        params["type"],
		Status:      params["status"],
		Page:        DefaultPage,
		PerPage:     DefaultPerPage,
	}

	spec.StartTimestamp = parseInt64(params["startTimestamp"])
	spec.EndTimestamp = parseInt64(params["endTimestamp"])
	spec.MinAmount = parseFloat(params["minAmount"])
	spec.MaxAmount = parseFloat(params["maxAmount"])

	if p, err := strconv.Atoi(params["page"]); err == nil && p >= 1 {
		spec.Page = p
	}
	if pp, err := strconv.Atoi(params["per_page"]); err == nil {
		spec.PerPage = clampPerPage(pp)
	} else if pp, err := strconv.Atoi(params["perPage"]); err == nil {
		spec.PerPage = clampPerPage(pp)
	}

	return spec
}

func clampPerPage(pp int) int {
	if pp < 1 {
		return 1
	}
	if pp > MaxPerPage {
		return MaxPerPage
	}
	return pp
}

func parseInt64(v string) *int64 {
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func parseFloat(v string) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
