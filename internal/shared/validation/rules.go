// Package validation implements the per-field rules for the login, registration,
// profile and enterprise forms.
package validation

import (
	"context"
	"regexp"
	"unicode/utf8"

	"enterprise_backend/internal/shared/apperror"
)

// Field length limits, mirrored by the column sizes of the persistence model.
const (
	MaxUsernameLength    = 64
	MaxEmailLength       = 120
	MaxAboutMeLength     = 140
	MaxEnterpriseName    = 64
	MaxDescriptionLength = 140
	MaxSymbolLength      = 10
	MaxValues            = 10
	MaxValueNameLength   = 64
)

const (
	MsgUsernameTaken    = "Please use a different username."
	MsgEmailTaken       = "Please use a different email address."
	MsgNameTaken        = "Please use a different name."
	MsgSymbolOnExchange = "Your enterprise symbol is already registered on the stock exchange."
	MsgSymbolTaken      = "Symbol already in use. Please use a different symbol."
	MsgSymbolFormat     = "Symbol does not follow the exchange ticker pattern (three uppercase letters)."
	MsgTooManyValues    = "Only up to 10 values are allowed."
	MsgRequired         = "This field is required."
)

var symbolPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// UserLookup answers uniqueness questions about users.
type UserLookup interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// EnterpriseLookup answers uniqueness questions about enterprises.
type EnterpriseLookup interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsBySymbol(ctx context.Context, symbol string) (bool, error)
}

// SymbolSet is the exchange-symbol reference set.
type SymbolSet interface {
	Contains(symbol string) bool
}

// UserRules validates user-facing fields against existing users.
type UserRules struct {
	users UserLookup
}

// NewUserRules creates UserRules backed by the given lookup.
func NewUserRules(users UserLookup) *UserRules {
	return &UserRules{users: users}
}

// ValidateUsername rejects a username that belongs to another user.
// original is the caller's current username on edit, or "" on registration.
func (r *UserRules) ValidateUsername(ctx context.Context, candidate, original string) error {
	if candidate == "" {
		return apperror.New(apperror.KindFormatError, "username", MsgRequired)
	}
	if err := MaxLength("username", candidate, MaxUsernameLength); err != nil {
		return err
	}
	if candidate == original {
		return nil
	}
	exists, err := r.users.ExistsByUsername(ctx, candidate)
	if err != nil {
		return apperror.Wrap(apperror.KindStorageError, "username", "failed to check username", err)
	}
	if exists {
		return apperror.New(apperror.KindDuplicateValue, "username", MsgUsernameTaken)
	}
	return nil
}

// ValidateEmail rejects an email address that is already registered.
func (r *UserRules) ValidateEmail(ctx context.Context, candidate string) error {
	if candidate == "" {
		return apperror.New(apperror.KindFormatError, "email", MsgRequired)
	}
	if err := MaxLength("email", candidate, MaxEmailLength); err != nil {
		return err
	}
	exists, err := r.users.ExistsByEmail(ctx, candidate)
	if err != nil {
		return apperror.Wrap(apperror.KindStorageError, "email", "failed to check email", err)
	}
	if exists {
		return apperror.New(apperror.KindDuplicateValue, "email", MsgEmailTaken)
	}
	return nil
}

// EnterpriseRules validates enterprise fields against existing enterprises
// and the exchange-symbol reference set.
type EnterpriseRules struct {
	enterprises EnterpriseLookup
	symbols     SymbolSet
}

// NewEnterpriseRules creates EnterpriseRules.
func NewEnterpriseRules(enterprises EnterpriseLookup, symbols SymbolSet) *EnterpriseRules {
	return &EnterpriseRules{enterprises: enterprises, symbols: symbols}
}

// ValidateEnterpriseName rejects a name used by another enterprise.
// selfExclude is the enterprise's current name on edit, or "" on creation.
func (r *EnterpriseRules) ValidateEnterpriseName(ctx context.Context, candidate, selfExclude string) error {
	if candidate == "" {
		return apperror.New(apperror.KindFormatError, "name", MsgRequired)
	}
	if err := MaxLength("name", candidate, MaxEnterpriseName); err != nil {
		return err
	}
	if candidate == selfExclude {
		return nil
	}
	exists, err := r.enterprises.ExistsByName(ctx, candidate)
	if err != nil {
		return apperror.Wrap(apperror.KindStorageError, "name", "failed to check enterprise name", err)
	}
	if exists {
		return apperror.New(apperror.KindDuplicateValue, "name", MsgNameTaken)
	}
	return nil
}

// ValidateEnterpriseSymbol checks, in order: membership in the exchange set,
// use by another enterprise, then the ticker format.
// An unchanged symbol on edit (candidate == selfExclude) is always accepted.
func (r *EnterpriseRules) ValidateEnterpriseSymbol(ctx context.Context, candidate, selfExclude string) error {
	if candidate == "" {
		return apperror.New(apperror.KindFormatError, "symbol", MsgRequired)
	}
	if err := MaxLength("symbol", candidate, MaxSymbolLength); err != nil {
		return err
	}
	if candidate == selfExclude {
		return nil
	}
	if r.symbols != nil && r.symbols.Contains(candidate) {
		return apperror.New(apperror.KindExternalConflict, "symbol", MsgSymbolOnExchange)
	}
	exists, err := r.enterprises.ExistsBySymbol(ctx, candidate)
	if err != nil {
		return apperror.Wrap(apperror.KindStorageError, "symbol", "failed to check symbol", err)
	}
	if exists {
		return apperror.New(apperror.KindDuplicateValue, "symbol", MsgSymbolTaken)
	}
	if !symbolPattern.MatchString(candidate) {
		return apperror.New(apperror.KindFormatError, "symbol", MsgSymbolFormat)
	}
	return nil
}

// Required rejects an empty value.
func Required(field, value string) error {
	if value == "" {
		return apperror.New(apperror.KindFormatError, field, MsgRequired)
	}
	return nil
}

// MaxLength rejects a value longer than max characters.
func MaxLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return apperror.New(apperror.KindLengthError, field, lengthMessage(max))
	}
	return nil
}
