package ots

// MaxDepth is the maximum traversal depth enforced by the parser and by
// the verify and upgrade walkers as a defense against pathological or
// adversarial inputs; Format does not check depth. Configurable via
// Config.MaxDepth; this is the default.
const MaxDepth = 256

// Continuation is one (Operation, Timestamp) branch of a node: applying
// Op to the node's message yields the message at the root of Sub.
type Continuation struct {
	Op  Operation
	Sub *Timestamp
}

// Timestamp is a proof-tree node: a set of parallel attestations plus a
// sequence of operation-guarded continuations. The tree is acyclic by
// construction — a pure algebraic data type, never built with back-edges.
type Timestamp struct {
	Attestations []Attestation
	Ops          []Continuation
}

// NewTimestamp returns an empty node ready to receive attestations and
// continuations.
func NewTimestamp() *Timestamp {
	return &Timestamp{}
}

// AddAttestation appends an attestation branch to the node.
func (t *Timestamp) AddAttestation(a Attestation) {
	t.Attestations = append(t.Attestations, a)
}

// AddContinuation appends an (operation, subtree) branch to the node.
func (t *Timestamp) AddContinuation(op Operation, sub *Timestamp) {
	t.Ops = append(t.Ops, Continuation{Op: op, Sub: sub})
}

// BranchCount returns the total number of parallel branches (attestations
// plus continuations) at this node.
func (t *Timestamp) BranchCount() int {
	return len(t.Attestations) + len(t.Ops)
}

// HasPending reports whether this node or any descendant holds a Pending
// attestation. Used by Upgrade's short-circuit (§4.4): a tree with none can
// skip the walk entirely.
func (t *Timestamp) HasPending() bool {
	for _, a := range t.Attestations {
		if a.Kind == AttPending {
			return true
		}
	}
	for _, c := range t.Ops {
		if c.Sub.HasPending() {
			return true
		}
	}
	return false
}

// Equal reports whether two trees are semantically equal: same attestation
// set and same continuations, independent of branch ordering (per the
// roundtrip invariant in §8, property 2: "up to branch ordering
// normalization").
func (t *Timestamp) Equal(other *Timestamp) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.Attestations) != len(other.Attestations) {
		return false
	}
	if len(t.Ops) != len(other.Ops) {
		return false
	}

	usedA := make([]bool, len(other.Attestations))
	for _, a := range t.Attestations {
		found := false
		for i, b := range other.Attestations {
			if usedA[i] {
				continue
			}
			if a.Equal(b) {
				usedA[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	usedC := make([]bool, len(other.Ops))
	for _, c := range t.Ops {
		found := false
		for i, d := range other.Ops {
			if usedC[i] {
				continue
			}
			if c.Op.Equal(d.Op) && c.Sub.Equal(d.Sub) {
				usedC[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// OtsFile is the document root: the hash algorithm and digest of the
// stamped file, plus the proof tree rooted at that digest.
type OtsFile struct {
	HashOp     HashAlgorithm
	FileDigest []byte
	Timestamp  *Timestamp
}
