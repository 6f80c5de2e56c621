package analytics

import "aqarcrm_backend/internal/model"

// GroupUnitsByType vahidleri tek geçişte tip id'sine göre gruplar.
// Tipi olmayan vahidler ayrı bir kovada toplanır; giriş sırası korunur.
func GroupUnitsByType(units []model.Unit) (map[uint][]model.Unit, []model.Unit) {
	byType := make(map[uint][]model.Unit)
	var untyped []model.Unit

	for _, u := range units {
		if u.UnitTypeID == nil {
			untyped = append(untyped, u)
			continue
		}
		byType[*u.UnitTypeID] = append(byType[*u.UnitTypeID], u)
	}

	return byType, untyped
}
