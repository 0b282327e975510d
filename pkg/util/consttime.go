package util

// ConstantTimeEqual reports whether a and b hold the same bytes, examining
// every position when lengths match rather than short-circuiting on the
// first mismatch. Required wherever a cryptographic value (a file digest,
// a merkle root, the format's magic header) is compared, so that timing
// cannot leak which byte first differed. A length mismatch short-circuits
// immediately — only equal-length buffers need the constant-time pass.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
