package verify

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ralt/webapt/internal/models"
)

// GPGVerifier implements Verifier using an OpenPGP keyring
type GPGVerifier struct {
	keyring openpgp.EntityList
}

// NewGPGVerifier creates a verifier from an armored or binary keyring file
func NewGPGVerifier(keyringPath string) (*GPGVerifier, error) {
	if keyringPath == "" {
		return nil, fmt.Errorf("keyring path is empty")
	}

	keyFile, err := os.Open(keyringPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	defer keyFile.Close()

	return readKeyring(keyFile)
}

// NewGPGVerifierFromBytes creates a verifier from keyring contents
func NewGPGVerifierFromBytes(data []byte) (*GPGVerifier, error) {
	return readKeyring(bytes.NewReader(data))
}

func readKeyring(r io.ReadSeeker) (*GPGVerifier, error) {
	// Try to parse as armored keyring first
	entityList, err := openpgp.ReadArmoredKeyRing(r)
	if err != nil {
		// Try as binary keyring
		if _, seekErr := r.Seek(0, io.SeekStart); seekErr != nil {
			return nil, seekErr
		}
		entityList, err = openpgp.ReadKeyRing(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read keyring: %w", err)
		}
	}

	if len(entityList) == 0 {
		return nil, fmt.Errorf("no keys found in keyring")
	}

	return &GPGVerifier{keyring: entityList}, nil
}

// VerifyDetached checks an armored or binary detached signature over data
func (v *GPGVerifier) VerifyDetached(data, signature []byte) (string, error) {
	var signer *openpgp.Entity
	var err error

	if isArmored(signature) {
		signer, err = openpgp.CheckArmoredDetachedSignature(v.keyring, bytes.NewReader(data), bytes.NewReader(signature), nil)
	} else {
		signer, err = openpgp.CheckDetachedSignature(v.keyring, bytes.NewReader(data), bytes.NewReader(signature), nil)
	}
	if err != nil {
		return "", &models.WebAPTError{
			Type: models.ErrSignature,
			Err:  fmt.Errorf("signature check failed: %w", err),
		}
	}

	return identity(signer), nil
}

// isArmored reports whether signature starts with an armor header
func isArmored(signature []byte) bool {
	_, err := armor.Decode(bytes.NewReader(signature))
	return err == nil
}

// identity returns the first user id of entity by name, or its key id
func identity(entity *openpgp.Entity) string {
	if entity == nil {
		return ""
	}

	names := make([]string, 0, len(entity.Identities))
	for name := range entity.Identities {
		names = append(names, name)
	}
	if len(names) > 0 {
		sort.Strings(names)
		return names[0]
	}

	return fmt.Sprintf("%X", entity.PrimaryKey.KeyId)
}
