package controller

import "strings"

// strOrNil boş opsiyonel form alanlarını NULL olarak kaydetmek için
func strOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
