// Package matching содержит скоринг пар (студент, вакансия) по покрытию
// требуемых навыков. Лёгкий вариант смотрит только на навыки и служит
// групповым спискам; глубокий вариант добавляет проверку опыта и
// используется в индивидуальном разборе.
package matching

import (
	"math"
	"sort"

	"github.com/skillpassport/insight-engine/internal/domain/opportunity"
	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/signal"
	"github.com/skillpassport/insight-engine/internal/domain/skill"
)

// MinReadinessScore - порог удержания пары в лёгком варианте.
// Пары с покрытием ниже порога отбрасываются как шум.
const MinReadinessScore = 40

// ══════════════════════════════════════════════════════════════════════════════
// MATCH
// ══════════════════════════════════════════════════════════════════════════════

// Match - оценённая пара студента и вакансии. Производное значение,
// пересчитывается на каждый запрос и никогда не сохраняется.
type Match struct {
	StudentID        shared.StudentID     `json:"studentId"`
	StudentName      string               `json:"studentName"`
	OpportunityID    shared.OpportunityID `json:"opportunityId"`
	OpportunityTitle string               `json:"opportunityTitle"`

	// MatchedSkills - требуемые навыки, которые есть у студента
	// (нормализованные ключи).
	MatchedSkills []string `json:"matchedSkills"`

	// MissingSkills - требуемые навыки, которых у студента нет.
	MissingSkills []string `json:"missingSkills"`

	// ReadinessScore - процент покрытия требуемых навыков, 0-100.
	ReadinessScore int `json:"readinessScore"`
}

// MatchList - список матчей с методами сортировки и фильтрации.
type MatchList []Match

// Len реализует sort.Interface.
func (l MatchList) Len() int { return len(l) }

// Less сортирует по убыванию ReadinessScore.
func (l MatchList) Less(i, j int) bool { return l[i].ReadinessScore > l[j].ReadinessScore }

// Swap реализует sort.Interface.
func (l MatchList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

// Sort сортирует стабильно по убыванию покрытия.
func (l MatchList) Sort() {
	sort.Stable(l)
}

// TopN возвращает первые n матчей.
func (l MatchList) TopN(n int) MatchList {
	if n <= 0 || n >= len(l) {
		return l
	}
	return l[:n]
}

// FilterByMinScore возвращает матчи с покрытием не ниже порога.
func (l MatchList) FilterByMinScore(min int) MatchList {
	out := make(MatchList, 0, len(l))
	for _, m := range l {
		if m.ReadinessScore >= min {
			out = append(out, m)
		}
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// LIGHTWEIGHT MATCHER
// ══════════════════════════════════════════════════════════════════════════════

// MatchAll оценивает каждую пару (студент, вакансия). Вакансии без
// требуемых навыков пропускаются: у них нет сигнала для сравнения.
// Удерживаются только пары с покрытием не ниже MinReadinessScore.
// Результат отсортирован по убыванию покрытия.
func MatchAll(signals []signal.StudentSignal, opps []opportunity.Record) MatchList {
	matches := make(MatchList, 0, len(signals))

	for _, opp := range opps {
		required := skill.NewSet(opp.SkillsRequired)
		if required.Len() == 0 {
			continue
		}

		for _, sig := range signals {
			matched, missing := coverage(sig.Skills, required)
			score := int(math.Round(float64(len(matched)) / float64(required.Len()) * 100))
			if score < MinReadinessScore {
				continue
			}

			matches = append(matches, Match{
				StudentID:        sig.StudentID,
				StudentName:      sig.Name,
				OpportunityID:    opp.ID,
				OpportunityTitle: opp.Title,
				MatchedSkills:    matched,
				MissingSkills:    missing,
				ReadinessScore:   score,
			})
		}
	}

	matches.Sort()
	return matches
}

// coverage делит требуемые навыки на имеющиеся и недостающие.
// Порядок следует порядку требований вакансии.
func coverage(have *skill.Set, required *skill.Set) (matched, missing []string) {
	matched = make([]string, 0, required.Len())
	missing = make([]string, 0, required.Len())
	for _, key := range required.Keys() {
		if have.Contains(key) {
			matched = append(matched, key)
		} else {
			missing = append(missing, key)
		}
	}
	return matched, missing
}
