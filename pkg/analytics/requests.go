package analytics

import (
	"sort"
	"strconv"
	"time"

	"aqarcrm_backend/internal/model"
)

// UnknownCity şehri boş olan kayıtlar için dökümlerde kullanılan etiket
const UnknownCity = "غير محدد"

// UnknownKey kanal/tip değeri boş olan kayıtlar için kullanılan anahtar
const UnknownKey = "unknown"

// BudgetRanges sabit sınırlı bütçe histogramı (budget_max üzerinden)
type BudgetRanges struct {
	UpTo20k  int `json:"0-20k"`
	To40k    int `json:"20k-40k"`
	To60k    int `json:"40k-60k"`
	Above60k int `json:"60k+"`
}

// BreakdownEntry sıralı döküm satırı
type BreakdownEntry struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Summary müşteri talepleri üzerinden hesaplanan tüm istatistikler.
// Saf bir fonksiyonun çıktısıdır; her çağrıda bellekteki dizi üzerinden
// yeniden hesaplanır.
type Summary struct {
	TotalRequests int `json:"total_requests"`
	UniqueCities  int `json:"unique_cities"`
	UniqueLeads   int `json:"unique_leads"`

	AvgBudget float64 `json:"avg_budget"`

	ChannelBreakdown  map[string]int `json:"channel_breakdown"`
	UnitTypeBreakdown map[string]int `json:"unit_type_breakdown"`
	CityBreakdown     map[string]int `json:"city_breakdown"`
	RoomsBreakdown    map[string]int `json:"rooms_breakdown"`

	TopCities []BreakdownEntry `json:"top_cities"`

	FurnishedCount   int `json:"furnished_count"`
	UnfurnishedCount int `json:"unfurnished_count"`

	BudgetRanges BudgetRanges `json:"budget_ranges"`

	AvgConfidence    float64 `json:"avg_confidence"`
	HighConfidence   int     `json:"high_confidence"`
	MediumConfidence int     `json:"medium_confidence"`
	LowConfidence    int     `json:"low_confidence"`

	RecentRequests   int     `json:"recent_requests"`
	PreviousRequests int     `json:"previous_requests"`
	Growth           float64 `json:"growth"`
}

// present kaynak sayfadaki truthiness kuralını korur: null ve 0 dışarıda
func present(v *float64) bool {
	return v != nil && *v != 0
}

// Summarize talep dizisi üzerinden özet istatistikleri hesaplar
func Summarize(requests []model.LeadRequest, now time.Time) Summary {
	s := Summary{
		TotalRequests:     len(requests),
		ChannelBreakdown:  make(map[string]int),
		UnitTypeBreakdown: make(map[string]int),
		CityBreakdown:     make(map[string]int),
		RoomsBreakdown:    make(map[string]int),
		TopCities:         []BreakdownEntry{},
	}

	cities := make(map[string]struct{})
	leadIDs := make(map[uint]struct{})

	var budgetSum float64
	var budgetCount int
	var confSum float64
	var confCount int

	last7 := now.Add(-7 * 24 * time.Hour)
	last14 := now.Add(-14 * 24 * time.Hour)

	for i := range requests {
		r := &requests[i]

		if r.City != nil && *r.City != "" {
			cities[*r.City] = struct{}{}
		}
		if r.LeadID != nil && *r.LeadID != 0 {
			leadIDs[*r.LeadID] = struct{}{}
		}

		// Ortalama bütçe: iki sınırı da dolu kayıtlar üzerinden (min+max)/2
		if present(r.BudgetMin) && present(r.BudgetMax) {
			budgetSum += (*r.BudgetMin + *r.BudgetMax) / 2
			budgetCount++
		}

		channel := UnknownKey
		if r.SourceChannel != nil && *r.SourceChannel != "" {
			channel = string(*r.SourceChannel)
		}
		s.ChannelBreakdown[channel]++

		unitType := UnknownKey
		if r.UnitType != nil && *r.UnitType != "" {
			unitType = *r.UnitType
		}
		s.UnitTypeBreakdown[unitType]++

		city := UnknownCity
		if r.City != nil && *r.City != "" {
			city = *r.City
		}
		s.CityBreakdown[city]++

		roomsKey := UnknownCity
		if r.Rooms != nil {
			roomsKey = strconv.Itoa(*r.Rooms)
		}
		s.RoomsBreakdown[roomsKey]++

		if r.Furnished != nil {
			if *r.Furnished {
				s.FurnishedCount++
			} else {
				s.UnfurnishedCount++
			}
		}

		// Bütçe histogramı: ilk kova yalnızca budget_max ister,
		// diğerleri kaynak sayfadaki gibi iki sınırı da ister
		if present(r.BudgetMax) && *r.BudgetMax <= 20000 {
			s.BudgetRanges.UpTo20k++
		}
		if present(r.BudgetMin) && present(r.BudgetMax) {
			switch {
			case *r.BudgetMax > 20000 && *r.BudgetMax <= 40000:
				s.BudgetRanges.To40k++
			case *r.BudgetMax > 40000 && *r.BudgetMax <= 60000:
				s.BudgetRanges.To60k++
			case *r.BudgetMax > 60000:
				s.BudgetRanges.Above60k++
			}
		}

		if present(r.ModelConfidence) {
			conf := *r.ModelConfidence
			confSum += conf
			confCount++
			switch {
			case conf >= 0.8:
				s.HighConfidence++
			case conf >= 0.5:
				s.MediumConfidence++
			default:
				s.LowConfidence++
			}
		}

		if !r.CreatedAt.Before(last7) {
			s.RecentRequests++
		} else if !r.CreatedAt.Before(last14) {
			s.PreviousRequests++
		}
	}

	s.UniqueCities = len(cities)
	s.UniqueLeads = len(leadIDs)

	// "|| 0" davranışı: hiç uygun kayıt yoksa ortalama 0 döner
	if budgetCount > 0 {
		s.AvgBudget = budgetSum / float64(budgetCount)
	}
	if confCount > 0 {
		s.AvgConfidence = confSum / float64(confCount)
	}

	// Önceki pencere boşsa büyüme 0 kabul edilir
	if s.PreviousRequests > 0 {
		s.Growth = float64(s.RecentRequests-s.PreviousRequests) / float64(s.PreviousRequests) * 100
	}

	s.TopCities = TopN(s.CityBreakdown, s.TotalRequests, 5)

	return s
}

// TopN dökümü sayıya göre azalan sıralar, yüzdeleri hesaplar ve ilk n
// satırı döndürür. Eşitlikte anahtar alfabetik sıralanır.
func TopN(breakdown map[string]int, total, n int) []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, len(breakdown))
	for key, count := range breakdown {
		entries = append(entries, BreakdownEntry{
			Key:     key,
			Count:   count,
			Percent: Percent(count, total),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})

	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Percent toplam 0 ise 0 döner
func Percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) * 100 / float64(total)
}
