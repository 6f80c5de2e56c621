package phone

import (
	"os"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// defaultRegion ülke kodu olmadan girilen numaralar için varsayılan bölge
func defaultRegion() string {
	if r := os.Getenv("PHONE_REGION"); r != "" {
		return r
	}
	return "SA"
}

// Normalize telefon numarasını E.164 biçimine çevirir. Ayrıştırılamayan
// numaralar reddedilmez, kırpılmış haliyle aynen saklanır.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}

	num, err := phonenumbers.Parse(trimmed, defaultRegion())
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return trimmed
	}

	return phonenumbers.Format(num, phonenumbers.E164)
}
