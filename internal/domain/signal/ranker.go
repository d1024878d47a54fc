package signal

import (
	"sort"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// RISK WEIGHTS
// ══════════════════════════════════════════════════════════════════════════════

// RiskWeights - веса агрегации риска. Бонусы намеренно дублируют
// условия, уже покрытые флагами: условие, которое и флагуется, и
// премируется, сильнее расталкивает студентов в рейтинге. Это
// осознанный акцент, менять его нельзя без пересмотра стабильности
// порядка ранжирования.
type RiskWeights struct {
	// LowSkillsBonus - добавка при SkillsCount < MinSkills.
	LowSkillsBonus int

	// NoProjectsBonus - добавка при полном отсутствии проектов.
	NoProjectsBonus int

	// LowGradesBonus - добавка при средней оценке ниже LowGradeBelow.
	LowGradesBonus int
}

// DefaultRiskWeights возвращает веса по умолчанию.
func DefaultRiskWeights() RiskWeights {
	return RiskWeights{
		LowSkillsBonus:  2,
		NoProjectsBonus: 1,
		LowGradesBonus:  2,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// RISK SCORE
// ══════════════════════════════════════════════════════════════════════════════

// RiskScore агрегирует серьёзности флагов и метрические бонусы в один
// балл для ранжирования. Чем выше балл, тем нужнее вмешательство.
func RiskScore(sig StudentSignal, flags []Flag, weights RiskWeights) int {
	score := 0
	for _, f := range flags {
		score += f.Severity.Weight()
	}

	if sig.SkillsCount < MinSkills {
		score += weights.LowSkillsBonus
	}
	if sig.ProjectsCount == 0 {
		score += weights.NoProjectsBonus
	}
	if avg := sig.Assignments.AvgGrade; avg > 0 && avg < LowGradeBelow {
		score += weights.LowGradesBonus
	}

	return score
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKING
// ══════════════════════════════════════════════════════════════════════════════

// RankedStudent - студент с выведенными флагами и баллом риска.
type RankedStudent struct {
	Signal    StudentSignal
	Flags     []Flag
	RiskScore int
}

// RankedList - список ранжированных студентов с методами сортировки
// и фильтрации.
type RankedList []RankedStudent

// Len реализует sort.Interface.
func (l RankedList) Len() int { return len(l) }

// Less сортирует по убыванию балла риска.
func (l RankedList) Less(i, j int) bool { return l[i].RiskScore > l[j].RiskScore }

// Swap реализует sort.Interface.
func (l RankedList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

// Sort сортирует список по убыванию балла риска. Сортировка
// стабильная: при равных баллах сохраняется входной порядок, поэтому
// повторный запуск на тех же данных даёт тот же порядок.
func (l RankedList) Sort() {
	sort.Stable(l)
}

// TopN возвращает первые n студентов списка.
func (l RankedList) TopN(n int) RankedList {
	if n <= 0 || n >= len(l) {
		return l
	}
	return l[:n]
}

// FilterByMinScore возвращает студентов с баллом не ниже порога.
func (l RankedList) FilterByMinScore(min int) RankedList {
	out := make(RankedList, 0, len(l))
	for _, r := range l {
		if r.RiskScore >= min {
			out = append(out, r)
		}
	}
	return out
}

// Rank выводит флаги и баллы для каждого сигнала и возвращает список,
// отсортированный по убыванию риска.
func Rank(signals []StudentSignal, now time.Time, weights RiskWeights) RankedList {
	ranked := make(RankedList, 0, len(signals))
	for _, sig := range signals {
		flags := DeriveFlags(sig, now)
		ranked = append(ranked, RankedStudent{
			Signal:    sig,
			Flags:     flags,
			RiskScore: RiskScore(sig, flags, weights),
		})
	}
	ranked.Sort()
	return ranked
}
