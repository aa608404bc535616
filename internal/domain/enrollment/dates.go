package enrollment

import (
	"strconv"
	"strings"
	"time"
)

// ParseDate interpreta datas em yyyy-mm-dd, yyyy/mm/dd, RFC 3339 ou dd/mm/yyyy e mm/dd/yyyy
// (também com '-' ou '.'). Nos formatos com ano no final, a parte maior que 12 é o dia;
// se as duas forem ≤ 12 assume-se mês/dia.
func ParseDate(raw string) (time.Time, bool) {
	candidates := dateCandidates(raw)
	if len(candidates) == 0 {
		return time.Time{}, false
	}
	return candidates[0], true
}

// SameDate compara uma data gravada com uma entrada textual pelo dia de calendário.
// Para entradas ambíguas (dia e mês ≤ 12) qualquer uma das duas leituras é aceita como igual.
func SameDate(stored *time.Time, raw string) bool {
	if stored == nil {
		return false
	}
	for _, c := range dateCandidates(raw) {
		if sameDay(*stored, c) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dateCandidates devolve as leituras possíveis, a preferida primeiro.
func dateCandidates(raw string) []time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return []time.Time{civil(t.Year(), int(t.Month()), t.Day())}
	}
	if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') {
		s = s[:10]
	}

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '/' || r == '.' })
	if len(parts) != 3 {
		return nil
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		nums[i] = n
	}

	// Ano na frente: yyyy-mm-dd.
	if len(parts[0]) == 4 {
		if t, ok := validDate(nums[0], nums[1], nums[2]); ok {
			return []time.Time{t}
		}
		return nil
	}
	if len(parts[2]) != 4 {
		return nil
	}

	a, b, year := nums[0], nums[1], nums[2]
	switch {
	case a > 12:
		if t, ok := validDate(year, b, a); ok {
			return []time.Time{t}
		}
		return nil
	case b > 12:
		if t, ok := validDate(year, a, b); ok {
			return []time.Time{t}
		}
		return nil
	}

	var out []time.Time
	if t, ok := validDate(year, a, b); ok {
		out = append(out, t)
	}
	if t, ok := validDate(year, b, a); ok && a != b {
		out = append(out, t)
	}
	return out
}

func validDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := civil(year, month, day)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func civil(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
