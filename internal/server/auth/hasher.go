// Package auth holds the server's credential primitives: argon2id password
// hashing and HS256 session token signing.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	argon2SaltLen = 16
	argon2KeyLen  = 32

	// limits on parameters accepted from config and from stored hashes
	maxIterations = 64
	maxMemoryKiB  = 1 << 20 // 1 GiB
	minSaltLen    = 8
	maxSaltLen    = 64
	minKeyLen     = 16
	maxKeyLen     = 128
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	// Hash returns a salted one-way hash of password. Two calls with the
	// same password return different hashes.
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. A hash that cannot be
	// parsed yields common.ErrMalformedHash rather than (false, nil).
	Verify(password, hash string) (bool, error)
}

// Argon2Params is the argon2id work factor.
type Argon2Params struct {
	Iterations uint32
	MemoryKiB  uint32
	Threads    uint8
}

// Validate reports whether p is a usable work factor.
func (p Argon2Params) Validate() error {
	switch {
	case p.Threads < 1:
		return errors.New("threads must be at least 1")
	case p.Iterations < 1 || p.Iterations > maxIterations:
		return fmt.Errorf("iterations must be within [1, %d], got %d", maxIterations, p.Iterations)
	case p.MemoryKiB < 8*uint32(p.Threads) || p.MemoryKiB > maxMemoryKiB:
		return fmt.Errorf("memory must be within [8*threads, %d] KiB, got %d", maxMemoryKiB, p.MemoryKiB)
	}
	return nil
}

// Argon2idHasher implements PasswordHasher using argon2id, encoding hashes
// in PHC string format so that Verify uses the parameters embedded in the
// hash, not the current ones.
type Argon2idHasher struct {
	params Argon2Params
}

// NewArgon2idHasher creates a hasher with the given work factor. It fails
// when params does not pass Validate.
func NewArgon2idHasher(params Argon2Params) (*Argon2idHasher, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid argon2id parameters: %w", err)
	}
	return &Argon2idHasher{params: params}, nil
}

func (h *Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("error generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.MemoryKiB, h.params.Threads, argon2KeyLen)

	// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKiB,
		h.params.Iterations,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2idHasher) Verify(password, encodedHash string) (bool, error) {
	params, salt, expected, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt, params.Iterations, params.MemoryKiB, params.Threads, uint32(len(expected)))

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

func decodeHash(encodedHash string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return params, nil, nil, fmt.Errorf("%w: unexpected format", common.ErrMalformedHash)
	}
	if parts[1] != "argon2id" {
		return params, nil, nil, fmt.Errorf("%w: unsupported algorithm %q", common.ErrMalformedHash, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, fmt.Errorf("%w: %v", common.ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("%w: unsupported version %d", common.ErrMalformedHash, version)
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.MemoryKiB, &params.Iterations, &threads); err != nil {
		return params, nil, nil, fmt.Errorf("%w: %v", common.ErrMalformedHash, err)
	}
	if threads > 255 {
		return params, nil, nil, fmt.Errorf("%w: invalid parameters", common.ErrMalformedHash)
	}
	params.Threads = uint8(threads)
	if err := params.Validate(); err != nil {
		return params, nil, nil, fmt.Errorf("%w: %v", common.ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: %v", common.ErrMalformedHash, err)
	}
	if len(salt) < minSaltLen || len(salt) > maxSaltLen {
		return params, nil, nil, fmt.Errorf("%w: salt length %d", common.ErrMalformedHash, len(salt))
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: %v", common.ErrMalformedHash, err)
	}
	if len(key) < minKeyLen || len(key) > maxKeyLen {
		return params, nil, nil, fmt.Errorf("%w: key length %d", common.ErrMalformedHash, len(key))
	}

	return params, salt, key, nil
}
