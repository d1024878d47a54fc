package skill

// ══════════════════════════════════════════════════════════════════════════════
// REFERENCE LISTS
// ══════════════════════════════════════════════════════════════════════════════

// GapReference - фиксированный список базовых индустриальных навыков,
// относительно которого считаются пробелы студента.
var GapReference = []string{
	"react",
	"node",
	"python",
	"sql",
	"git",
	"docker",
	"aws",
	"typescript",
}

// InDemandDefault - список востребованных на рынке навыков по умолчанию.
// Используется как запасной вариант, когда по когорте не удаётся
// собрать собственную статистику навыков.
var InDemandDefault = []string{
	"react",
	"javascript",
	"python",
	"java",
	"node.js",
	"sql",
	"aws",
	"docker",
	"kubernetes",
	"typescript",
	"mongodb",
	"git",
	"rest api",
	"microservices",
	"agile",
	"ci/cd",
}

// Gaps возвращает до limit навыков из справочника, которых нет у
// студента. Покрытие проверяется по вхождению подстроки в
// нормализованные названия навыков студента.
func Gaps(have *Set, limit int) []string {
	if limit <= 0 {
		limit = len(GapReference)
	}
	gaps := make([]string, 0, limit)
	for _, ref := range GapReference {
		if have.ContainsSubstring(ref) {
			continue
		}
		gaps = append(gaps, ref)
		if len(gaps) == limit {
			break
		}
	}
	return gaps
}
