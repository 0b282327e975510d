package store

import (
	"path/filepath"
	"testing"

	ots "github.com/djkazic/ots-go"
)

func testFile() *ots.OtsFile {
	digest := make([]byte, 32)
	for i := range digest {
		digest[i] = byte(i)
	}
	ts := ots.NewTimestamp()
	ts.AddAttestation(ots.NewBitcoinAttestation(358391))
	return &ots.OtsFile{HashOp: ots.Sha256, FileDigest: digest, Timestamp: ts}
}

func TestProofStore_PutAndGet(t *testing.T) {
	dir := t.TempDir()
	s, err := NewProofStore(filepath.Join(dir, "proofs.db"), nil)
	if err != nil {
		t.Fatalf("NewProofStore: %v", err)
	}
	defer s.Close()

	f := testFile()
	if err := s.Put(f); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Get(f.FileDigest)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("proof not found after Put")
	}
	if !got.Timestamp.Equal(f.Timestamp) {
		t.Error("round-tripped timestamp does not match original")
	}

	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestProofStore_GetMissing(t *testing.T) {
	dir := t.TempDir()
	s, err := NewProofStore(filepath.Join(dir, "proofs.db"), nil)
	if err != nil {
		t.Fatalf("NewProofStore: %v", err)
	}
	defer s.Close()

	_, ok, err := s.Get([]byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected no proof for unknown digest")
	}
}

func TestProofStore_Delete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewProofStore(filepath.Join(dir, "proofs.db"), nil)
	if err != nil {
		t.Fatalf("NewProofStore: %v", err)
	}
	defer s.Close()

	f := testFile()
	_ = s.Put(f)
	if err := s.Delete(f.FileDigest); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, ok, _ := s.Get(f.FileDigest)
	if ok {
		t.Error("proof still present after Delete")
	}
}

func TestProofStore_PersistenceAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proofs.db")
	f := testFile()

	s, err := NewProofStore(path, nil)
	if err != nil {
		t.Fatalf("NewProofStore (phase 1): %v", err)
	}
	if err := s.Put(f); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := NewProofStore(path, nil)
	if err != nil {
		t.Fatalf("NewProofStore (phase 2): %v", err)
	}
	defer s2.Close()

	got, ok, err := s2.Get(f.FileDigest)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if !ok {
		t.Fatal("proof missing after reopen")
	}
	if !got.Timestamp.Equal(f.Timestamp) {
		t.Error("timestamp mismatch after reopen")
	}
}
