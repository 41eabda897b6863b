// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"fmt"
	"unicode"

	"docvault/config"
	domainerrors "docvault/internal/domain/errors"
	"docvault/internal/domain/service"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes, so longer passwords are rejected outright.
const bcryptMaxPasswordBytes = 72

// PasswordRules are the strength requirements applied before hashing a new password.
type PasswordRules struct {
	MinLength        int
	MaxLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumbers   bool
	RequireSpecial   bool
}

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost  int
	rules PasswordRules
}

// NewBcryptHasher builds the hasher from the auth and passwordStrength configuration sections.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}

	rules := PasswordRules{MinLength: 1}
	if cfg != nil && cfg.PasswordStrength != nil {
		ps := cfg.PasswordStrength
		rules = PasswordRules{
			MinLength:        ps.MinLength,
			MaxLength:        ps.MaxLength,
			RequireUppercase: ps.RequireUppercase,
			RequireLowercase: ps.RequireLowercase,
			RequireNumbers:   ps.RequireNumbers,
			RequireSpecial:   ps.RequireSpecial,
		}
	}

	return NewBcryptHasherWithRules(cost, rules)
}

// NewBcryptHasherWithRules creates a hasher with an explicit cost and rule set.
func NewBcryptHasherWithRules(cost int, rules PasswordRules) service.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if rules.MinLength < 1 {
		rules.MinLength = 1
	}
	if rules.MaxLength <= 0 || rules.MaxLength > bcryptMaxPasswordBytes {
		rules.MaxLength = bcryptMaxPasswordBytes
	}

	return &bcryptHasher{cost: cost, rules: rules}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domainerrors.ErrInternalError.WrapMessage("failed to hash password")
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength applies the configured rules and reports the first one that fails.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < h.rules.MinLength {
		return domainerrors.ErrPasswordStrength.WrapMessage(fmt.Sprintf("password must be at least %d characters long", h.rules.MinLength))
	}
	if len(password) > h.rules.MaxLength {
		return domainerrors.ErrPasswordStrength.WrapMessage(fmt.Sprintf("password must be at most %d bytes long", h.rules.MaxLength))
	}
	if h.rules.RequireLowercase && !h.hasLowercase(password) {
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one lowercase letter")
	}
	if h.rules.RequireUppercase && !h.hasUppercase(password) {
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one uppercase letter")
	}
	if h.rules.RequireNumbers && !h.hasNumbers(password) {
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one number")
	}
	if h.rules.RequireSpecial && !h.hasSpecialChars(password) {
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one special character")
	}

	return nil
}

func (h *bcryptHasher) hasUppercase(s string) bool {
	return containsRune(s, unicode.IsUpper)
}

func (h *bcryptHasher) hasLowercase(s string) bool {
	return containsRune(s, unicode.IsLower)
}

func (h *bcryptHasher) hasNumbers(s string) bool {
	return containsRune(s, unicode.IsDigit)
}

func (h *bcryptHasher) hasSpecialChars(s string) bool {
	return containsRune(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

func containsRune(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if pred(r) {
			return true
		}
	}

	return false
}
