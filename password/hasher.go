package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the production bcrypt work factor.
const DefaultCost = 12

// ErrCorruptHash indicates the stored hash is not a valid bcrypt string.
// This is a data-integrity failure, not a wrong password: callers must log
// it distinctly while keeping the client-visible response identical to an
// ordinary credential mismatch.
var ErrCorruptHash = errors.New("corrupt credential hash")

// ErrPasswordRequired is returned by Hash for an empty password. Validation
// rejects before any hashing work is spent.
var ErrPasswordRequired = errors.New("password must not be empty")

// Hasher hashes and verifies passwords at a fixed cost factor.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost. Costs outside
// bcrypt's supported range are rejected at construction, not at first use.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

// Hash returns the bcrypt hash of password. The salt is generated internally
// per call.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrPasswordRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches encodedHash. The comparison is
// constant-time with respect to the hash. A malformed stored hash returns
// (false, ErrCorruptHash).
func (h *Hasher) Verify(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrCorruptHash, err)
	}
}

// NeedsUpgrade reports whether encodedHash was produced at a lower cost than
// the hasher is configured for. Used to transparently rehash on successful
// login after a cost increase.
func (h *Hasher) NeedsUpgrade(encodedHash string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCorruptHash, err)
	}
	return cost < h.cost, nil
}
