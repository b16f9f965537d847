package pricing

import (
	"strings"

	"github.com/grocerly-app/storefront-backend/pkg/db/models"
)

// Match returns the first promotion covering the unit, or nil. Candidates
// must already be ordered by the caller (created_at ASC, id ASC) so the
// first-match-wins rule is deterministic.
//
// A promotion matches when:
//  1. its productUnitID equals the unit's ID,
//  2. its attached unit row carries the unit's ID,
//  3. structurally, its attached unit shares the short code and unit value
//     (covers re-seeded catalogs where IDs changed but units did not), or
//  4. it references no unit at all, which makes it unit-agnostic.
func Match(unit models.ProductUnit, promos []models.Promotion) *models.Promotion {
	for i := range promos {
		if matchesUnit(unit, &promos[i]) {
			return &promos[i]
		}
	}
	return nil
}

func matchesUnit(unit models.ProductUnit, promo *models.Promotion) bool {
	if promo.ProductUnitID != nil {
		if *promo.ProductUnitID == unit.ID {
			return true
		}
		if promo.ProductUnit != nil {
			return sameUnitShape(unit, *promo.ProductUnit)
		}
		return false
	}
	if promo.ProductUnit != nil {
		if promo.ProductUnit.ID == unit.ID {
			return true
		}
		return sameUnitShape(unit, *promo.ProductUnit)
	}
	return true
}

func sameUnitShape(a, b models.ProductUnit) bool {
	if !strings.EqualFold(strings.TrimSpace(a.ShortCode), strings.TrimSpace(b.ShortCode)) {
		return false
	}
	return a.UnitValue.Equal(b.UnitValue)
}
