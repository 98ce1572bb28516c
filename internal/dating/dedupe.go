package dating

import (
	"errors"
	"fmt"
	"maps"
	"strconv"

	"github.com/spigell/profile-optimizer/internal/utils"
)

// ObfuscatedNameLength is the number of runes kept from a candidate name
// when names are truncated.
const ObfuscatedNameLength = 5

// ErrMissingIdentity reports a candidate without a usable user._id.
var ErrMissingIdentity = errors.New("candidate has no identity")

// IdentityError describes which candidate broke the identity contract.
type IdentityError struct {
	Index  int
	Reason string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("candidate %d: %s: %s", e.Index, ErrMissingIdentity, e.Reason)
}

func (e *IdentityError) Unwrap() error { return ErrMissingIdentity }

type DedupeOptions struct {
	// TruncateNames keeps only the first ObfuscatedNameLength runes of each
	// kept candidate's name.
	TruncateNames bool
}

// Dedupe keeps the first candidate of every identity, in input order.
// Input candidates are not modified.
func Dedupe(candidates []Candidate, opts DedupeOptions) ([]Candidate, error) {
	seen := make(map[string]struct{}, len(candidates))
	result := make([]Candidate, 0, len(candidates))

	for idx, candidate := range candidates {
		key, err := identityKey(candidate)
		if err != nil {
			return nil, &IdentityError{Index: idx, Reason: err.Error()}
		}

		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if opts.TruncateNames {
			candidate = truncateName(candidate)
		}

		result = append(result, candidate)
	}

	return result, nil
}

func identityKey(c Candidate) (string, error) {
	raw, ok := c[UserField]
	if !ok {
		return "", errors.New("user is missing")
	}

	user, ok := raw.(map[string]any)
	if !ok {
		return "", fmt.Errorf("user is %T, not an object", raw)
	}

	id, ok := user[IdentityField]
	if !ok {
		return "", errors.New("user._id is missing")
	}

	switch v := id.(type) {
	case string:
		return "s:" + v, nil
	case float64:
		return "n:" + strconv.FormatFloat(v, 'g', -1, 64), nil
	case int:
		return "n:" + strconv.Itoa(v), nil
	case bool:
		return "b:" + strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("user._id is %T, not a scalar", id)
	}
}

func truncateName(c Candidate) Candidate {
	user := c.User()
	name, ok := user[NameField].(string)
	if !ok {
		return c
	}

	copied := maps.Clone(c)
	copiedUser := maps.Clone(user)
	copiedUser[NameField] = utils.TruncateRunes(name, ObfuscatedNameLength)
	copied[UserField] = copiedUser

	return copied
}
