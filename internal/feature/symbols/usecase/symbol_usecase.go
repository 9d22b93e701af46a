// Package usecase loads the exchange-symbol reference set.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"enterprise_backend/internal/feature/symbols/domain/entity"
)

// ErrEmptySymbolSet is returned when the source yields no symbols.
var ErrEmptySymbolSet = errors.New("symbol source returned no symbols")

// SymbolSource abstracts where the exchange-symbol list comes from.
type SymbolSource interface {
	Fetch(ctx context.Context) ([]string, error)
}

// SymbolUsecase builds the reference set from a SymbolSource.
type SymbolUsecase struct {
	source SymbolSource
}

// NewSymbolUsecase creates a new SymbolUsecase with the given source.
func NewSymbolUsecase(s SymbolSource) *SymbolUsecase {
	return &SymbolUsecase{source: s}
}

// LoadSet fetches the symbol list and returns it as an immutable Set.
// An empty list is an error.
func (u *SymbolUsecase) LoadSet(ctx context.Context) (*entity.Set, error) {
	codes, err := u.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}
	set := entity.NewSet(codes)
	if set.Len() == 0 {
		return nil, ErrEmptySymbolSet
	}
	slog.Info("exchange symbol set loaded", "count", set.Len())
	return set, nil
}
