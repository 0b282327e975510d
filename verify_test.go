package ots

import (
	"context"
	"errors"
	"testing"

	"github.com/djkazic/ots-go/pkg/util"
)

type fakeBlockLookup struct {
	blocks map[uint64]BlockInfo
}

func (f *fakeBlockLookup) BlockByHeight(_ context.Context, height uint64) (BlockInfo, error) {
	info, ok := f.blocks[height]
	if !ok {
		return BlockInfo{}, errors.New("no such block")
	}
	return info, nil
}

func TestVerify_BitcoinCorrectMerkleRoot(t *testing.T) {
	digest := make([]byte, 32)
	digest[0] = 0xaa

	ts := NewTimestamp()
	ts.AddAttestation(NewBitcoinAttestation(358391))
	f := &OtsFile{HashOp: Sha256, FileDigest: digest, Timestamp: ts}

	// block explorer reports display-order (big-endian) hex; verify
	// reverses it before comparing to the little-endian message.
	displayRoot := util.BytesToHex(util.ReverseBytes(digest))
	blocks := &fakeBlockLookup{blocks: map[uint64]BlockInfo{
		358391: {Height: 358391, MerkleRoot: displayRoot, BlockHash: "0000000000000000000", Timestamp: 1433919547},
	}}

	results, err := VerifyFile(context.Background(), f, VerifyOptions{Blocks: blocks})
	if err != nil {
		t.Fatalf("VerifyFile: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Status != StatusVerified {
		t.Errorf("status = %v, want verified: %+v", results[0].Status, results[0])
	}
	if results[0].BlockTime != 1433919547 {
		t.Errorf("block time = %d, want 1433919547", results[0].BlockTime)
	}
}

func TestVerify_BitcoinWrongMerkleRoot(t *testing.T) {
	digest := make([]byte, 32)
	digest[0] = 0xaa

	ts := NewTimestamp()
	ts.AddAttestation(NewBitcoinAttestation(358391))
	f := &OtsFile{HashOp: Sha256, FileDigest: digest, Timestamp: ts}

	wrong := make([]byte, 32)
	for i := range wrong {
		wrong[i] = 0xbb
	}
	blocks := &fakeBlockLookup{blocks: map[uint64]BlockInfo{
		358391: {Height: 358391, MerkleRoot: util.BytesToHex(util.ReverseBytes(wrong))},
	}}

	results, err := VerifyFile(context.Background(), f, VerifyOptions{Blocks: blocks})
	if err != nil {
		t.Fatalf("VerifyFile: %v", err)
	}
	if len(results) != 1 || results[0].Status != StatusFailed {
		t.Fatalf("expected one Failed result, got %+v", results)
	}
	if results[0].Height != 358391 {
		t.Errorf("height = %d, want 358391", results[0].Height)
	}
}

func TestVerify_PendingAttestation(t *testing.T) {
	digest := make([]byte, 32)
	ts := NewTimestamp()
	ts.AddAttestation(NewPendingAttestation("https://alice.btc.calendar.opentimestamps.org"))
	f := &OtsFile{HashOp: Sha256, FileDigest: digest, Timestamp: ts}

	results, err := VerifyFile(context.Background(), f, VerifyOptions{})
	if err != nil {
		t.Fatalf("VerifyFile: %v", err)
	}
	if len(results) != 1 || results[0].Status != StatusPending {
		t.Fatalf("expected one Pending result, got %+v", results)
	}
}

func TestVerify_DigestMismatch(t *testing.T) {
	digest := make([]byte, 32)
	ts := NewTimestamp()
	ts.AddAttestation(NewBitcoinAttestation(1))
	f := &OtsFile{HashOp: Sha256, FileDigest: digest, Timestamp: ts}

	_, err := VerifyFile(context.Background(), f, VerifyOptions{Data: []byte("not the right input")})
	if err == nil {
		t.Fatal("expected digest mismatch error")
	}
	if _, ok := err.(*DigestMismatchError); !ok {
		t.Errorf("expected *DigestMismatchError, got %T", err)
	}
}

func TestVerify_DepthExceeded(t *testing.T) {
	leaf := NewTimestamp()
	leaf.AddAttestation(NewBitcoinAttestation(1))

	cur := leaf
	for i := 0; i < MaxDepth+5; i++ {
		next := NewTimestamp()
		next.AddContinuation(NewReverse(), cur)
		cur = next
	}
	f := &OtsFile{HashOp: Sha256, FileDigest: make([]byte, 32), Timestamp: cur}

	results, err := VerifyFile(context.Background(), f, VerifyOptions{})
	if err != nil {
		t.Fatalf("VerifyFile: %v", err)
	}
	found := false
	for _, r := range results {
		if r.Status == StatusError {
			found = true
		}
	}
	if !found {
		t.Error("expected at least one Error result for excessive depth")
	}
}
