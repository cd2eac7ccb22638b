// Package query turns a compiled FilterSpec into the coordinated pair of
// data-store operations (count + data) and computes pagination metadata.
package query

import (
	"fmt"
	"net/url"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
)

// Store column names for the transactions table.
const (
	ColTimestamp   = "transaction_timestamp"
	ColType        = "type"
	ColStatus      = "status"
	ColDescription = "description"
	// The origin amount lives inside a jsonb column; PostgREST compares
	// the extracted number directly.
	ColOriginAmount = "originamountdetails->transactionAmount"
)

// Cond is a single column predicate in PostgREST operator form.
type Cond struct {
	Column string
	Op     string // eq, gte, lte, ilike
	Value  string
}

// Predicate is an ordered conjunction of conditions. It is built exactly
// once per request by BuildPredicate and shared by the count and data
// operations, so the two can never filter differently.
type Predicate struct {
	conds []Cond
}

// Conds returns the conditions in build order.
func (p Predicate) Conds() []Cond {
	return p.conds
}

// Empty reports whether the predicate has no conditions (an unfiltered
// request).
func (p Predicate) Empty() bool {
	return len(p.conds) == 0
}

// Encode renders the predicate as PostgREST query parameters.
func (p Predicate) Encode() url.Values {
	v := url.Values{}
	for _, c := range p.conds {
		v.Add(c.Column, c.Op+"."+c.Value)
	}
	return v
}

// Equal reports whether two predicates are structurally identical:
// same conditions, same order.
func (p Predicate) Equal(o Predicate) bool {
	if len(p.conds) != len(o.conds) {
		return false
	}
	for i, c := range p.conds {
		if c != o.conds[i] {
			return false
		}
	}
	return true
}

// Matches evaluates the predicate against a transaction in memory. The
// store applies the same semantics server-side; this form exists for the
// in-memory stores used by tests.
func (p Predicate) Matches(t *domain.Transaction) bool {
	for _, c := range p.conds {
		if !condMatches(c, t) {
			return false
		}
	}
	return true
}

// BuildPredicate is the single predicate constructor for every operation
// derived from a FilterSpec. Any filter field added here reaches the
// count path and the data path at the same time.
func BuildPredicate(spec domain.FilterSpec) Predicate {
	var conds []Cond
	if spec.Description != "" {
		conds = append(conds, Cond{ColDescription, "ilike", "*" + spec.Description + "*"})
	}
	if spec.Type != "" {
		conds = append(conds, Cond{ColType, "eq", spec.Type})
	}
	if spec.Status != "" {
		conds = append(conds, Cond{ColStatus, "eq", spec.Status})
	}
	if spec.StartTimestamp != nil {
		conds = append(conds, Cond{ColTimestamp, "gte", fmt.Sprintf("%d", *spec.StartTimestamp)})
	}
	if spec.EndTimestamp != nil {
		conds = append(conds, Cond{ColTimestamp, "lte", fmt.Sprintf("%d", *spec.EndTimestamp)})
	}
	if spec.MinAmount != nil {
		conds = append(conds, Cond{ColOriginAmount, "gte", formatAmount(*spec.MinAmount)})
	}
	if spec.MaxAmount != nil {
		conds = append(conds, Cond{ColOriginAmount, "lte", formatAmount(*spec.MaxAmount)})
	}
	return Predicate{conds: conds}
}

func formatAmount(f float64) string {
	return fmt.Sprintf("%g", f)
}
