package ots

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// UpgradeResult summarizes an Upgrade run. The input tree is mutated in
// place; this is a count, not a new tree.
type UpgradeResult struct {
	Upgraded        int
	StillPending    int
	Errors          []string
	AlreadyComplete bool
}

// UpgradeOptions supplies the collaborators Upgrade needs.
type UpgradeOptions struct {
	Oracle   HashOracle
	Calendar CalendarServer
	Config   Config
	Logger   *zap.Logger
}

// Upgrade walks f.Timestamp, replacing Pending(uri) leaves with the
// sub-trees their calendar servers report as complete. If the tree holds
// no Pending attestations at all, the walk is skipped entirely and
// AlreadyComplete is true.
func Upgrade(ctx context.Context, f *OtsFile, opts UpgradeOptions) (*UpgradeResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := opts.Config
	if cfg.MaxDepth == 0 {
		cfg = DefaultConfig()
	}
	oracle := opts.Oracle
	if oracle == nil {
		oracle = DefaultHashOracle{}
	}
	if opts.Calendar == nil {
		return nil, fmt.Errorf("ots: upgrade requires a CalendarServer collaborator")
	}

	if !f.Timestamp.HasPending() {
		return &UpgradeResult{AlreadyComplete: true}, nil
	}

	u := &upgradeWalker{
		oracle:   oracle,
		calendar: opts.Calendar,
		maxDepth: cfg.MaxDepth,
		logger:   logger,
	}
	result := &UpgradeResult{}
	u.walk(ctx, f.Timestamp, f.FileDigest, 1, result)
	logger.Info("upgrade finished",
		zap.Int("upgraded", result.Upgraded),
		zap.Int("stillPending", result.StillPending),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

type upgradeWalker struct {
	oracle   HashOracle
	calendar CalendarServer
	maxDepth int
	logger   *zap.Logger
}

func (u *upgradeWalker) walk(ctx context.Context, t *Timestamp, msg []byte, depth int, result *UpgradeResult) {
	if depth > u.maxDepth {
		result.Errors = append(result.Errors, fmt.Sprintf("traversal depth exceeds %d", u.maxDepth))
		return
	}

	// Snapshot the node's original continuations before any structural
	// mutation. New continuations appended below (from upgraded
	// sub-trees) are never recursed into in this pass — they were just
	// built from the server's response and need no further upgrading.
	// Mutating attestations/Ops while iterating this snapshot is what the
	// mutation-ordering invariant in §4.4 guards against.
	originalOps := make([]Continuation, len(t.Ops))
	copy(originalOps, t.Ops)

	var newAttestations []Attestation
	for _, a := range t.Attestations {
		if a.Kind != AttPending {
			newAttestations = append(newAttestations, a)
			continue
		}

		body, err := u.calendar.Poll(ctx, a.URI, msg)
		switch {
		case err != nil:
			u.logger.Warn("calendar poll failed", zap.String("uri", a.URI), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", a.URI, err))
			newAttestations = append(newAttestations, a)

		case body == nil:
			result.StillPending++
			newAttestations = append(newAttestations, a)

		default:
			sub, perr := ParseTimestamp(body)
			if perr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: parsing response: %v", a.URI, perr))
				newAttestations = append(newAttestations, a)
				continue
			}
			newAttestations = append(newAttestations, sub.Attestations...)
			t.Ops = append(t.Ops, sub.Ops...)
			result.Upgraded++
		}
	}
	t.Attestations = newAttestations

	for _, c := range originalOps {
		child, err := Apply(ctx, u.oracle, c.Op, msg)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		u.walk(ctx, c.Sub, child, depth+1, result)
	}
}
