// Package cohort содержит агрегацию метрик по всей анализируемой группе
// студентов: средние показатели, популярные навыки, распределение
// проектов и доля завершивших обучение.
package cohort

import (
	"math"
	"sort"

	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/signal"
)

// TopSkillsLimit - сколько популярных навыков попадает в аналитику.
const TopSkillsLimit = 10

// ══════════════════════════════════════════════════════════════════════════════
// ANALYTICS TYPES
// ══════════════════════════════════════════════════════════════════════════════

// SkillCount - навык с числом студентов, у которых он встречается.
type SkillCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ProjectsDistribution - распределение студентов по числу проектов.
// Сумма трёх корзин всегда равна числу студентов.
type ProjectsDistribution struct {
	None      int `json:"none"`
	OneToTwo  int `json:"oneToTwo"`
	ThreePlus int `json:"threePlus"`
}

// Total возвращает сумму корзин.
func (d ProjectsDistribution) Total() int {
	return d.None + d.OneToTwo + d.ThreePlus
}

// Analytics - агрегированные метрики группы. Производное значение,
// вычисляется один раз на батч сигналов и не сохраняется.
type Analytics struct {
	// TotalStudents - число студентов в группе.
	TotalStudents int

	// AvgSkillsPerStudent - среднее число навыков, 1 знак после запятой.
	AvgSkillsPerStudent float64

	// TopSkills - до TopSkillsLimit самых частых нормализованных навыков.
	TopSkills []SkillCount

	// ProjectsDistribution - распределение по числу проектов.
	ProjectsDistribution ProjectsDistribution

	// TrainingCompletionRate - процент студентов, завершивших хотя бы
	// один курс, округлён до целого.
	TrainingCompletionRate int
}

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATION
// ══════════════════════════════════════════════════════════════════════════════

// Aggregate вычисляет метрики группы по набору сигналов студентов.
// Пустой набор даёт корректный нулевой результат, а не ошибку.
func Aggregate(signals []signal.StudentSignal) Analytics {
	n := len(signals)
	analytics := Analytics{TotalStudents: n}
	if n == 0 {
		analytics.TopSkills = []SkillCount{}
		return analytics
	}

	totalSkills := 0
	completedTraining := 0
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, sig := range signals {
		totalSkills += sig.SkillsCount

		for _, key := range sig.Skills.Keys() {
			if _, seen := counts[key]; !seen {
				firstSeen[key] = order
				order++
			}
			counts[key]++
		}

		switch {
		case sig.ProjectsCount == 0:
			analytics.ProjectsDistribution.None++
		case sig.ProjectsCount <= 2:
			analytics.ProjectsDistribution.OneToTwo++
		default:
			analytics.ProjectsDistribution.ThreePlus++
		}

		if sig.HasCompletedTraining() {
			completedTraining++
		}
	}

	analytics.AvgSkillsPerStudent = math.Round(float64(totalSkills)/float64(n)*10) / 10
	analytics.TopSkills = topSkills(counts, firstSeen, TopSkillsLimit)
	analytics.TrainingCompletionRate = int(math.Round(float64(completedTraining) / float64(n) * 100))

	return analytics
}

// topSkills возвращает limit самых частых навыков. Сортировка по
// убыванию частоты; при равенстве побеждает навык, встреченный раньше.
func topSkills(counts map[string]int, firstSeen map[string]int, limit int) []SkillCount {
	ranked := make([]SkillCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, SkillCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Name] < firstSeen[ranked[j].Name]
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// ══════════════════════════════════════════════════════════════════════════════
// TOP PERFORMERS
// ══════════════════════════════════════════════════════════════════════════════

// Performer - студент с баллом успеваемости для списка лучших.
type Performer struct {
	StudentID shared.StudentID `json:"studentId"`
	Name      string           `json:"name"`
	Score     float64          `json:"score"`
}

// TopPerformers ранжирует студентов по простому баллу успеваемости:
// навыки тянут вверх, флаги риска вниз, средняя оценка добавляется
// как есть. Возвращает первые limit студентов.
func TopPerformers(ranked signal.RankedList, limit int) []Performer {
	performers := make([]Performer, 0, len(ranked))
	for _, r := range ranked {
		performers = append(performers, Performer{
			StudentID: r.Signal.StudentID,
			Name:      r.Signal.Name,
			Score:     float64(r.Signal.SkillsCount*10-len(r.Flags)*5) + r.Signal.Assignments.AvgGrade,
		})
	}
	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].Score > performers[j].Score
	})
	if limit > 0 && len(performers) > limit {
		performers = performers[:limit]
	}
	return performers
}
