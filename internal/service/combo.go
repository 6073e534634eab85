package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/tourbook/internal/domain"
	"github.com/pkordes/tourbook/internal/i18n"
	"github.com/pkordes/tourbook/internal/repo"
)

// ComboService implements the read side of package deals.
type ComboService struct {
	combos   repo.ComboRepo
	fallback domain.Locale
	log      *slog.Logger
}

// NewComboService constructs a ComboService backed by the provided ComboRepo.
func NewComboService(combos repo.ComboRepo, fallback domain.Locale, log *slog.Logger) *ComboService {
	return &ComboService{combos: combos, fallback: fallback, log: log}
}

// Get returns one combo localized to locale.
// Returns domain.ErrNotFound if the combo does not exist or has no usable
// translation.
func (s *ComboService) Get(ctx context.Context, id uuid.UUID, locale domain.Locale) (domain.LocalizedCombo, error) {
	c, err := s.combos.GetByID(ctx, id)
	if err != nil {
		return domain.LocalizedCombo{}, fmt.Errorf("service.ComboService.Get: %w", err)
	}
	lc, err := localizeCombo(c, locale, s.fallback)
	if err != nil {
		return domain.LocalizedCombo{}, fmt.Errorf("service.ComboService.Get: %w", err)
	}
	return lc, nil
}

// List returns one page of combos localized to locale, skipping untranslated ones.
func (s *ComboService) List(ctx context.Context, locale domain.Locale, p domain.PageRequest) (domain.Paged[domain.LocalizedCombo], error) {
	combos, total, err := s.combos.ListPaged(ctx, p)
	if err != nil {
		return domain.Paged[domain.LocalizedCombo]{}, fmt.Errorf("service.ComboService.List: %w", err)
	}
	items := make([]domain.LocalizedCombo, 0, len(combos))
	for _, c := range combos {
		lc, err := localizeCombo(c, locale, s.fallback)
		if err != nil {
			s.log.DebugContext(ctx, "service: skipping untranslated combo", "combo_id", c.ID, "locale", locale)
			continue
		}
		items = append(items, lc)
	}
	return domain.Paged[domain.LocalizedCombo]{Items: items, Total: total}, nil
}

func localizeCombo(c domain.Combo, locale, fallback domain.Locale) (domain.LocalizedCombo, error) {
	tr, err := i18n.Resolve(c.Translations, locale, fallback)
	if err != nil {
		return domain.LocalizedCombo{}, notDisplayable(err)
	}
	return domain.LocalizedCombo{Combo: c, Locale: tr.Locale, Title: tr.Title, Description: tr.Description}, nil
}
