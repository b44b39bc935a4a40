// Package deletion decides between removing a row and retiring it, based on whether anything
// in the ledger still points at it.
package deletion

import (
	"context"
	"fmt"
)

type Outcome string

const (
	OutcomeHardDeleted Outcome = "hard_deleted"
	OutcomeDeactivated Outcome = "deactivated"
	OutcomeRetired     Outcome = "retired"
)

// Target is implemented by each directory repository. All three calls are expected to run on
// the transaction carried by ctx.
type Target interface {
	CountReferences(ctx context.Context, id int64) (int64, error)
	HardDelete(ctx context.Context, id int64) error
	SoftDelete(ctx context.Context, id int64) error
}

type Result struct {
	ID         int64   `json:"id"`
	Outcome    Outcome `json:"outcome"`
	References int64   `json:"references"`
}

// Policy hard-deletes unreferenced rows and soft-deletes referenced ones. Soft names the
// outcome reported for the soft path; it defaults to OutcomeDeactivated.
type Policy struct {
	Soft Outcome
}

func NewPolicy(soft Outcome) Policy {
	return Policy{Soft: soft}
}

func (p Policy) Apply(ctx context.Context, target Target, id int64) (*Result, error) {
	refs, err := target.CountReferences(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count references: %w", err)
	}

	if refs > 0 {
		if err := target.SoftDelete(ctx, id); err != nil {
			return nil, fmt.Errorf("soft delete: %w", err)
		}
		soft := p.Soft
		if soft == "" {
			soft = OutcomeDeactivated
		}
		return &Result{ID: id, Outcome: soft, References: refs}, nil
	}

	if err := target.HardDelete(ctx, id); err != nil {
		return nil, fmt.Errorf("hard delete: %w", err)
	}
	return &Result{ID: id, Outcome: OutcomeHardDeleted}, nil
}
