package ots

import (
	"context"
	"fmt"

	"github.com/djkazic/ots-go/pkg/util"
	"go.uber.org/zap"
)

// VerifyStatus classifies a single attestation's outcome.
type VerifyStatus int

const (
	StatusVerified VerifyStatus = iota
	StatusFailed
	StatusPending
	StatusSkipped
	StatusError
)

func (s VerifyStatus) String() string {
	switch s {
	case StatusVerified:
		return "verified"
	case StatusFailed:
		return "failed"
	case StatusPending:
		return "pending"
	case StatusSkipped:
		return "skipped"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// VerifyResult reports the outcome of a single attestation reached while
// walking the proof tree. Verification never short-circuits: every path
// produces exactly one result, including failures and errors.
type VerifyResult struct {
	Status VerifyStatus

	// Bitcoin/Litecoin/Ethereum
	Height    uint64
	BlockHash string
	BlockTime uint64
	Expected  []byte
	Got       []byte

	// Pending
	URI string

	// Skipped / Error
	Reason string
}

// VerifyOptions supplies the collaborators and input Verify needs. Exactly
// one of Data or Digest should be set; if both are nil, the file digest
// recorded in the OtsFile is trusted without an integrity check.
type VerifyOptions struct {
	Data   []byte
	Digest []byte

	Oracle HashOracle
	Blocks BlockLookup
	Config Config
	Logger *zap.Logger
}

// Verify parses otsBytes, optionally checks the supplied data/digest
// against the file digest, then walks the proof tree depth-first
// (attestations before continuations, per node, in stored order),
// producing one VerifyResult per attestation path.
func Verify(ctx context.Context, otsBytes []byte, opts VerifyOptions) ([]VerifyResult, error) {
	cfg := opts.Config
	if cfg.MaxDepth == 0 {
		cfg = DefaultConfig()
	}

	f, err := ParseWithConfig(otsBytes, cfg)
	if err != nil {
		return nil, err
	}
	return VerifyFile(ctx, f, opts)
}

// VerifyFile is Verify for an already-parsed OtsFile.
func VerifyFile(ctx context.Context, f *OtsFile, opts VerifyOptions) ([]VerifyResult, error) {
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

	if opts.Data != nil || opts.Digest != nil {
		digest := opts.Digest
		if digest == nil {
			d, err := oracle.Digest(ctx, f.HashOp, opts.Data)
			if err != nil {
				return nil, fmt.Errorf("ots: hashing input data: %w", err)
			}
			digest = d
		}
		if !util.ConstantTimeEqual(digest, f.FileDigest) {
			logger.Warn("verify: file digest mismatch")
			return nil, &DigestMismatchError{Expected: f.FileDigest, Got: digest}
		}
	}

	v := &verifyWalker{oracle: oracle, blocks: opts.Blocks, maxDepth: cfg.MaxDepth, logger: logger}
	var results []VerifyResult
	v.walk(ctx, f.Timestamp, f.FileDigest, 1, &results)
	return results, nil
}

type verifyWalker struct {
	oracle   HashOracle
	blocks   BlockLookup
	maxDepth int
	logger   *zap.Logger
}

func (v *verifyWalker) walk(ctx context.Context, t *Timestamp, msg []byte, depth int, results *[]VerifyResult) {
	if depth > v.maxDepth {
		*results = append(*results, VerifyResult{
			Status: StatusError,
			Reason: fmt.Sprintf("traversal depth exceeds %d", v.maxDepth),
		})
		return
	}

	for _, a := range t.Attestations {
		*results = append(*results, v.verifyAttestation(ctx, a, msg))
	}

	for _, c := range t.Ops {
		child, err := Apply(ctx, v.oracle, c.Op, msg)
		if err != nil {
			v.logger.Warn("verify: operation apply failed", zap.Error(err))
			*results = append(*results, VerifyResult{
				Status: StatusError,
				Reason: err.Error(),
			})
			continue
		}
		v.walk(ctx, c.Sub, child, depth+1, results)
	}
}

func (v *verifyWalker) verifyAttestation(ctx context.Context, a Attestation, msg []byte) VerifyResult {
	switch a.Kind {
	case AttPending:
		return VerifyResult{Status: StatusPending, URI: a.URI}

	case AttLitecoin:
		return VerifyResult{Status: StatusSkipped, Height: a.Height, Reason: "Litecoin attestations are not verified"}
	case AttEthereum:
		return VerifyResult{Status: StatusSkipped, Height: a.Height, Reason: "Ethereum attestations are not verified"}
	case AttUnknown:
		return VerifyResult{Status: StatusSkipped, Reason: fmt.Sprintf("unknown attestation tag 0x%s", util.BytesToHex(a.UnknownTag[:]))}

	case AttBitcoin:
		if v.blocks == nil {
			return VerifyResult{Status: StatusError, Height: a.Height, Reason: "no block-lookup collaborator configured"}
		}
		info, err := v.blocks.BlockByHeight(ctx, a.Height)
		if err != nil {
			v.logger.Warn("verify: block lookup failed", zap.Uint64("height", a.Height), zap.Error(err))
			return VerifyResult{Status: StatusError, Height: a.Height, Reason: err.Error()}
		}
		rootBytes, err := util.HexToBytes(info.MerkleRoot)
		if err != nil {
			v.logger.Warn("verify: invalid merkle root hex", zap.Uint64("height", a.Height), zap.Error(err))
			return VerifyResult{Status: StatusError, Height: a.Height, Reason: fmt.Sprintf("invalid merkle root hex: %v", err)}
		}
		// The block explorer reports the merkle root in display (big-endian)
		// order; the proof chain produces the little-endian byte form.
		expected := util.ReverseBytes(rootBytes)
		if util.ConstantTimeEqual(msg, expected) {
			return VerifyResult{
				Status:    StatusVerified,
				Height:    a.Height,
				BlockHash: info.BlockHash,
				BlockTime: info.Timestamp,
			}
		}
		v.logger.Warn("verify: merkle root mismatch", zap.Uint64("height", a.Height))
		return VerifyResult{
			Status:   StatusFailed,
			Height:   a.Height,
			Expected: expected,
			Got:      msg,
		}

	default:
		return VerifyResult{Status: StatusError, Reason: "unrecognized attestation kind"}
	}
}
