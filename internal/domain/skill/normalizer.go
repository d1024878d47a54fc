// Package skill содержит канонизацию названий навыков. Нормализованный
// ключ - единственный критерий равенства навыков во всём движке.
package skill

import "strings"

// Normalize приводит название навыка к каноническому ключу: переводит
// в нижний регистр, заменяет все символы вне [a-z0-9+#] на пробел и
// обрезает пробелы по краям. "React.JS" и "react js" дают один ключ.
// Операция идемпотентна: Normalize(Normalize(x)) == Normalize(x).
func Normalize(name string) string {
	lowered := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z',
			r >= '0' && r <= '9',
			r == '+', r == '#':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

// Same возвращает true, если две строки обозначают один и тот же навык.
func Same(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// ══════════════════════════════════════════════════════════════════════════════
// SKILL SET
// ══════════════════════════════════════════════════════════════════════════════

// Set - множество навыков по нормализованным ключам с сохранением
// порядка первого вхождения.
type Set struct {
	keys  map[string]struct{}
	order []string
}

// NewSet строит множество из списка названий. Пустые ключи отбрасываются.
func NewSet(names []string) *Set {
	s := &Set{keys: make(map[string]struct{}, len(names))}
	for _, n := range names {
		key := Normalize(n)
		if strings.TrimSpace(key) == "" {
			continue
		}
		if _, ok := s.keys[key]; ok {
			continue
		}
		s.keys[key] = struct{}{}
		s.order = append(s.order, key)
	}
	return s
}

// Contains проверяет наличие навыка в множестве.
func (s *Set) Contains(name string) bool {
	_, ok := s.keys[Normalize(name)]
	return ok
}

// ContainsSubstring проверяет, покрыт ли ключ ref каким-либо навыком
// множества по вхождению подстроки ("node" покрывается "node.js").
func (s *Set) ContainsSubstring(ref string) bool {
	key := Normalize(ref)
	for _, have := range s.order {
		if strings.Contains(have, key) {
			return true
		}
	}
	return false
}

// Keys возвращает ключи в порядке первого вхождения.
func (s *Set) Keys() []string {
	return append([]string(nil), s.order...)
}

// Len возвращает размер множества.
func (s *Set) Len() int {
	return len(s.order)
}
