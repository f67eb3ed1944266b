package service

import (
	"fmt"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/internal/apperror"
	"github.com/katalvlaran/streetroute/matching"
	"github.com/katalvlaran/streetroute/router"
	"github.com/katalvlaran/streetroute/tsp"
)

// Params are per-request solver overrides. Nil fields keep the configured
// value.
type Params struct {
	Traversal               *string `json:"traversal,omitempty"`
	Matching                *string `json:"matching,omitempty"`
	Tour                    *string `json:"tour,omitempty"`
	TwoOpt                  *int    `json:"two_opt,omitempty"`
	RelocateStart           *bool   `json:"relocate_start,omitempty"`
	WeakRepair              *bool   `json:"weak_repair,omitempty"`
	RepairForNodeVisit      *bool   `json:"repair_for_node_visit,omitempty"`
	NearestNeighborFallback *bool   `json:"nearest_neighbor_fallback,omitempty"`
}

// RouterOptions converts the set fields. Invalid names yield an
// INVALID_INPUT error naming the field.
func (p Params) RouterOptions() ([]router.Option, error) {
	var opts []router.Option
	if p.Traversal != nil {
		t, err := core.ParseTraversal(*p.Traversal)
		if err != nil {
			return nil, invalid("options.traversal", err)
		}
		opts = append(opts, router.WithTraversal(t))
	}
	if p.Matching != nil {
		m, err := matching.ParseAlgorithm(*p.Matching)
		if err != nil {
			return nil, invalid("options.matching", err)
		}
		opts = append(opts, router.WithMatching(m))
	}
	if p.Tour != nil {
		a, err := tsp.ParseAlgorithm(*p.Tour)
		if err != nil {
			return nil, invalid("options.tour", err)
		}
		opts = append(opts, router.WithTourAlgorithm(a))
	}
	if p.TwoOpt != nil {
		if *p.TwoOpt < 0 {
			return nil, invalid("options.two_opt", fmt.Errorf("must be non-negative, got %d", *p.TwoOpt))
		}
		opts = append(opts, router.WithTwoOpt(*p.TwoOpt))
	}
	if p.RelocateStart != nil {
		opts = append(opts, router.WithRelocateStart(*p.RelocateStart))
	}
	if p.WeakRepair != nil {
		opts = append(opts, router.WithWeakRepair(*p.WeakRepair))
	}
	if p.RepairForNodeVisit != nil {
		opts = append(opts, router.WithRepairForNodeVisit(*p.RepairForNodeVisit))
	}
	if p.NearestNeighborFallback != nil {
		opts = append(opts, router.WithNearestNeighborFallback(*p.NearestNeighborFallback))
	}

	return opts, nil
}

func invalid(field string, cause error) *apperror.Error {
	e := apperror.NewWithField(apperror.CodeInvalidInput, field, cause.Error())
	e.Cause = cause

	return e
}
