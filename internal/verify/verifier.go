package verify

// Verifier checks signatures over repository metadata
type Verifier interface {
	// VerifyDetached checks a detached signature (Release.gpg) over data and
	// returns the identity of the signing key
	VerifyDetached(data, signature []byte) (string, error)
}
