package security

import (
	"fmt"
	"strings"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
)

const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

// MultiHasher hashes with the configured algorithm and verifies whichever format is stored,
// so existing hashes keep working after PASSWORD_HASH_ALGORITHM changes.
type MultiHasher struct {
	primary string
	argon2  *Argon2Hasher
	bcrypt  *BcryptHasher
}

// NewMultiHasher returns a hasher whose new hashes use algorithm.
func NewMultiHasher(algorithm string, argonParams Argon2Params, bcryptCost int) (*MultiHasher, error) {
	algorithm = strings.ToLower(strings.TrimSpace(algorithm))
	if algorithm == "" {
		algorithm = AlgorithmArgon2id
	}
	if algorithm != AlgorithmArgon2id && algorithm != AlgorithmBcrypt {
		return nil, fmt.Errorf("unknown password hash algorithm %q", algorithm)
	}
	return &MultiHasher{
		primary: algorithm,
		argon2:  NewArgon2Hasher(argonParams),
		bcrypt:  NewBcryptHasher(bcryptCost),
	}, nil
}

func (m *MultiHasher) Hash(password string) (string, error) {
	if m.primary == AlgorithmBcrypt {
		return m.bcrypt.Hash(password)
	}
	return m.argon2.Hash(password)
}

func (m *MultiHasher) Verify(password, hash string) bool {
	switch {
	case strings.HasPrefix(hash, argon2Prefix):
		return m.argon2.Verify(password, hash)
	case isBcryptHash(hash):
		return m.bcrypt.Verify(password, hash)
	}
	return false
}

// NeedsRehash is true when hash uses another algorithm or stale parameters.
func (m *MultiHasher) NeedsRehash(hash string) bool {
	if m.primary == AlgorithmBcrypt {
		return !isBcryptHash(hash) || m.bcrypt.NeedsRehash(hash)
	}
	return !strings.HasPrefix(hash, argon2Prefix) || m.argon2.NeedsRehash(hash)
}

var (
	_ ports.PasswordHasher = (*MultiHasher)(nil)
	_ ports.RehashChecker  = (*MultiHasher)(nil)
	_ ports.PasswordHasher = (*Argon2Hasher)(nil)
	_ ports.PasswordHasher = (*BcryptHasher)(nil)
)
