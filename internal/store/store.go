// Package store caches assembled and upgraded proofs in a bbolt database,
// keyed by file digest, so a long-running process doesn't re-stamp or
// re-fetch a proof it already holds. Get parses the stored bytes on every
// call.
package store

import (
	"fmt"

	ots "github.com/djkazic/ots-go"
	"github.com/djkazic/ots-go/pkg/util"
	"github.com/fxamacker/cbor/v2"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var proofsBucket = []byte("proofs")

// record is the cbor-encoded value stored per digest. OtsBytes is the
// serialized form, authoritative on disk; HashOp is stored alongside it
// and is not read back by this package.
type record struct {
	HashOp   byte
	OtsBytes []byte
}

// ProofStore persists OtsFile proofs across restarts.
type ProofStore struct {
	db     *bbolt.DB
	logger *zap.Logger
}

// NewProofStore opens (creating if absent) a bbolt database at path.
func NewProofStore(path string, logger *zap.Logger) (*ProofStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(proofsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating bucket: %w", err)
	}

	return &ProofStore{db: db, logger: logger}, nil
}

// Put stores f keyed by its file digest, overwriting any existing entry.
func (s *ProofStore) Put(f *ots.OtsFile) error {
	body, err := ots.Write(f)
	if err != nil {
		return fmt.Errorf("store: serializing proof: %w", err)
	}

	rec := record{HashOp: byte(f.HashOp), OtsBytes: body}
	val, err := cbor.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: encoding record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(proofsBucket)
		if err := b.Put(f.FileDigest, val); err != nil {
			return err
		}
		s.logger.Debug("stored proof", zap.String("digest", util.BytesToHex(f.FileDigest)))
		return nil
	})
}

// Get returns the proof stored for digest, if any.
func (s *ProofStore) Get(digest []byte) (*ots.OtsFile, bool, error) {
	var rec record
	found := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(proofsBucket)
		val := b.Get(digest)
		if val == nil {
			return nil
		}
		found = true
		return cbor.Unmarshal(val, &rec)
	})
	if err != nil {
		return nil, false, fmt.Errorf("store: reading proof: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	f, err := ots.Parse(rec.OtsBytes)
	if err != nil {
		return nil, false, fmt.Errorf("store: decoding stored proof: %w", err)
	}
	return f, true, nil
}

// Delete removes a stored proof, if present.
func (s *ProofStore) Delete(digest []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(proofsBucket).Delete(digest)
	})
}

// Count returns the number of stored proofs.
func (s *ProofStore) Count() (int, error) {
	n := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(proofsBucket).ForEach(func(_, _ []byte) error {
			n++
			return nil
		})
	})
	return n, err
}

// Close closes the underlying database.
func (s *ProofStore) Close() error {
	return s.db.Close()
}
