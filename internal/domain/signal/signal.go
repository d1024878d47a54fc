// Package signal содержит извлечение метрик студента из сырых записей
// профиля и заданий. StudentSignal - общий промежуточный слой: обе
// модели скоринга (флаги риска и глубокий анализ) читают один и тот же
// сигнал и никогда не выводят метрики из сырых данных повторно.
package signal

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/skillpassport/insight-engine/internal/domain/assignment"
	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/skill"
	"github.com/skillpassport/insight-engine/internal/domain/student"
)

// TopSkillsLimit - сколько лучших навыков попадает в сигнал.
const TopSkillsLimit = 5

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT SIGNAL
// ══════════════════════════════════════════════════════════════════════════════

// AssignmentStats - агрегированная статистика по заданиям студента.
type AssignmentStats struct {
	// Total - всего заданий.
	Total int

	// Submitted - сдано (включая проверенные).
	Submitted int

	// Graded - проверено и оценено.
	Graded int

	// Pending - ещё не сдано.
	Pending int

	// AvgGrade - средняя оценка по проверенным заданиям,
	// округлена до 1 знака; 0, если оценённых заданий нет.
	AvgGrade float64

	// LateSubmissions - количество просроченных сдач.
	LateSubmissions int
}

// StudentSignal - производный агрегат метрик одного студента.
// Живёт один аналитический запрос и никогда не сохраняется.
type StudentSignal struct {
	StudentID shared.StudentID
	Name      string
	Cohort    shared.Cohort

	// SkillsCount - количество включённых технических навыков.
	SkillsCount int

	// TopSkills - до TopSkillsLimit лучших навыков по уровню (убывание,
	// при равенстве сохраняется порядок появления в профиле).
	TopSkills []student.TechnicalSkill

	// AvgSkillLevel - средний уровень включённых навыков (не округлён).
	AvgSkillLevel float64

	// Skills - нормализованные ключи навыков в порядке появления.
	Skills *skill.Set

	// ProjectsCount - количество включённых проектов.
	ProjectsCount int

	// CompletedProjects - из них завершённых.
	CompletedProjects int

	// InProgressProjects - из них ещё в работе.
	InProgressProjects int

	// Training - включённые записи об обучении.
	Training []student.Training

	// TrainingCount - количество включённых записей об обучении.
	TrainingCount int

	// CompletedTraining - из них завершённых.
	CompletedTraining int

	// TrainingProgressAvg - средний прогресс обучения,
	// округлён до 1 знака; 0, если записей нет.
	TrainingProgressAvg float64

	// CertificateCount - количество включённых сертификатов.
	CertificateCount int

	// ApprovedCertificates - из них подтверждённых.
	ApprovedCertificates int

	// ExperienceYears - оценка опыта работы в годах, извлечённая из
	// текстовых описаний длительности.
	ExperienceYears float64

	// Assignments - статистика по заданиям.
	Assignments AssignmentStats

	// LastProfileUpdate - время последнего обновления профиля.
	LastProfileUpdate *time.Time
}

// HasCompletedTraining возвращает true, если у студента есть хотя бы
// одна завершённая запись об обучении.
func (s StudentSignal) HasCompletedTraining() bool {
	return s.CompletedTraining > 0
}

// DaysSinceProfileUpdate возвращает число полных дней с последнего
// обновления профиля. Второе значение false, если отметки времени нет.
func (s StudentSignal) DaysSinceProfileUpdate(now time.Time) (int, bool) {
	if s.LastProfileUpdate == nil {
		return 0, false
	}
	return shared.DaysSince(*s.LastProfileUpdate, now), true
}

// ══════════════════════════════════════════════════════════════════════════════
// EXTRACTION
// ══════════════════════════════════════════════════════════════════════════════

// durationYearsRegex извлекает количество лет из текста вида "2 years",
// "1 year", "3.5 years in backend". Текст без совпадений даёт 0 лет.
var durationYearsRegex = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*year`)

// Extract строит сигнал студента из снимка профиля и его заданий.
// Чистая функция: не читает часы и не хранит состояния между вызовами.
func Extract(rec *student.Record, assignments []assignment.Record) StudentSignal {
	sig := StudentSignal{
		StudentID:         rec.ID,
		Name:              rec.Name,
		Cohort:            rec.Cohort,
		LastProfileUpdate: rec.LastProfileUpdate,
	}

	// Технические навыки.
	skills := rec.EnabledTechnicalSkills()
	sig.SkillsCount = len(skills)
	sig.TopSkills = topSkills(skills, TopSkillsLimit)
	sig.AvgSkillLevel = avgSkillLevel(skills)

	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	sig.Skills = skill.NewSet(names)

	// Проекты.
	for _, p := range rec.EnabledProjects() {
		sig.ProjectsCount++
		switch {
		case p.IsCompleted():
			sig.CompletedProjects++
		case p.IsInProgress():
			sig.InProgressProjects++
		}
	}

	// Обучение.
	sig.Training = rec.EnabledTraining()
	sig.TrainingCount = len(sig.Training)
	var progressSum float64
	for _, t := range sig.Training {
		if t.IsCompleted() {
			sig.CompletedTraining++
		}
		progressSum += t.Progress.Clamp().Float64()
	}
	if sig.TrainingCount > 0 {
		sig.TrainingProgressAvg = round1(progressSum / float64(sig.TrainingCount))
	}

	// Сертификаты.
	for _, c := range rec.EnabledCertificates() {
		sig.CertificateCount++
		if c.IsApproved() {
			sig.ApprovedCertificates++
		}
	}

	// Опыт работы.
	for _, e := range rec.EnabledExperience() {
		sig.ExperienceYears += parseYears(e.DurationText)
	}

	// Задания.
	sig.Assignments = extractAssignmentStats(assignments)

	return sig
}

// extractAssignmentStats агрегирует статистику по списку заданий.
func extractAssignmentStats(records []assignment.Record) AssignmentStats {
	var stats AssignmentStats
	var gradeSum float64
	var gradedWithScore int

	for _, a := range records {
		stats.Total++
		if a.Status.IsSubmitted() {
			stats.Submitted++
		}
		if a.Status.IsPending() {
			stats.Pending++
		}
		if a.Status == assignment.StatusGraded {
			stats.Graded++
			if a.GradePercentage != nil {
				gradeSum += *a.GradePercentage
				gradedWithScore++
			}
		}
		if a.IsLate {
			stats.LateSubmissions++
		}
	}

	if gradedWithScore > 0 {
		stats.AvgGrade = round1(gradeSum / float64(gradedWithScore))
	}
	return stats
}

// topSkills возвращает до limit навыков с наибольшим уровнем.
// Сортировка стабильная: при равных уровнях сохраняется порядок профиля.
func topSkills(skills []student.TechnicalSkill, limit int) []student.TechnicalSkill {
	sorted := append([]student.TechnicalSkill(nil), skills...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Level > sorted[j].Level
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// avgSkillLevel возвращает средний уровень навыков без округления.
func avgSkillLevel(skills []student.TechnicalSkill) float64 {
	if len(skills) == 0 {
		return 0
	}
	var sum int
	for _, s := range skills {
		sum += s.Level.Clamp().Int()
	}
	return float64(sum) / float64(len(skills))
}

// parseYears извлекает суммарное количество лет из текста длительности.
// Текст, который не удалось разобрать, даёт 0 лет, а не ошибку.
func parseYears(text string) float64 {
	var years float64
	for _, m := range durationYearsRegex.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		years += v
	}
	return years
}

// round1 округляет до одного знака после запятой.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
