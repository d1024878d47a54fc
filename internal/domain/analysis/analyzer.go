// Package analysis содержит глубокий разбор профиля одного студента:
// детальные метрики, уровень риска, готовность к карьере, общий балл
// 0-100 и текстовые выводы. Используется для индивидуального просмотра,
// а не для ранжирования группы.
package analysis

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/signal"
	"github.com/skillpassport/insight-engine/internal/domain/skill"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// RiskLevel - уровень риска по результатам глубокого анализа.
type RiskLevel string

const (
	RiskNone   RiskLevel = "None"
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// IsValid проверяет, что уровень риска известен.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskNone, RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

// Readiness - уровень готовности к карьере.
type Readiness string

const (
	ReadinessLow    Readiness = "Low"
	ReadinessMedium Readiness = "Medium"
	ReadinessHigh   Readiness = "High"
)

// ══════════════════════════════════════════════════════════════════════════════
// THRESHOLDS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// InactiveAfterDays - дни без обновления профиля для признака
	// неактивности. Порог сознательно строже флагового (30 дней):
	// глубокий анализ отмечает действительно мёртвый профиль.
	InactiveAfterDays = 60

	// StagnantProgressBelow - порог прогресса незавершённого обучения.
	StagnantProgressBelow = 50.0

	// LowTrainingProgressBelow - порог среднего прогресса для риска.
	LowTrainingProgressBelow = 30.0

	// MinSkillDiversity - минимальное число навыков.
	MinSkillDiversity = 3

	// narrativeLimit - максимум пунктов в текстовых списках.
	narrativeLimit = 5

	// skillGapLimit - максимум навыков в списке пробелов.
	skillGapLimit = 5
)

// ══════════════════════════════════════════════════════════════════════════════
// RESULT TYPES
// ══════════════════════════════════════════════════════════════════════════════

// Metrics - детальные метрики студента.
type Metrics struct {
	SkillCount          int     `json:"skillCount"`
	AvgSkillLevel       int     `json:"avgSkillLevel"`
	ProjectCount        int     `json:"projectCount"`
	CompletedProjects   int     `json:"completedProjects"`
	TrainingCount       int     `json:"trainingCount"`
	CompletedTraining   int     `json:"completedTraining"`
	AvgTrainingProgress float64 `json:"avgTrainingProgress"`
	CertificateCount    int     `json:"certificateCount"`
	ExperienceYears     float64 `json:"experienceYears"`
}

// Flags - булевы признаки глубокого анализа. Словарь намеренно
// отличается от типизированных флагов пакета signal.
type Flags struct {
	HasStagnantTraining  bool `json:"hasStagnantTraining"`
	HasLowSkillDiversity bool `json:"hasLowSkillDiversity"`
	HasNoProjects        bool `json:"hasNoProjects"`
	HasInactiveProfile   bool `json:"hasInactiveProfile"`
	HasHighPotential     bool `json:"hasHighPotential"`
}

// Result - полный результат глубокого анализа одного студента.
// Производное значение, никогда не сохраняется.
type Result struct {
	StudentID shared.StudentID `json:"studentId"`
	Name      string           `json:"name"`

	Metrics Metrics `json:"metrics"`
	Flags   Flags   `json:"flags"`

	RiskLevel       RiskLevel `json:"riskLevel"`
	CareerReadiness Readiness `json:"careerReadiness"`

	// OverallScore - общий балл профиля, всегда в диапазоне [0, 100].
	OverallScore int `json:"overallScore"`

	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`

	// SkillGaps - недостающие базовые индустриальные навыки.
	SkillGaps []string `json:"skillGaps"`
}

// ══════════════════════════════════════════════════════════════════════════════
// ANALYZER
// ══════════════════════════════════════════════════════════════════════════════

// Analyze выполняет глубокий разбор сигнала студента. Чистая функция:
// текущее время передаётся явно для проверки давности профиля.
func Analyze(sig signal.StudentSignal, now time.Time) Result {
	metrics := deriveMetrics(sig)
	flags := deriveFlags(sig, metrics, now)

	res := Result{
		StudentID:       sig.StudentID,
		Name:            sig.Name,
		Metrics:         metrics,
		Flags:           flags,
		RiskLevel:       riskLevel(metrics, flags),
		CareerReadiness: careerReadiness(metrics, flags),
		OverallScore:    overallScore(metrics, flags),
		SkillGaps:       skill.Gaps(sig.Skills, skillGapLimit),
	}
	res.Strengths = strengths(metrics, flags)
	res.Weaknesses = weaknesses(metrics, flags)
	res.Recommendations = recommendations(metrics, flags, res.SkillGaps)
	return res
}

// deriveMetrics переносит метрики сигнала в форму глубокого анализа.
func deriveMetrics(sig signal.StudentSignal) Metrics {
	return Metrics{
		SkillCount:          sig.SkillsCount,
		AvgSkillLevel:       int(math.Round(sig.AvgSkillLevel)),
		ProjectCount:        sig.ProjectsCount,
		CompletedProjects:   sig.CompletedProjects,
		TrainingCount:       sig.TrainingCount,
		CompletedTraining:   sig.CompletedTraining,
		AvgTrainingProgress: sig.TrainingProgressAvg,
		CertificateCount:    sig.CertificateCount,
		ExperienceYears:     sig.ExperienceYears,
	}
}

// deriveFlags вычисляет булевы признаки.
func deriveFlags(sig signal.StudentSignal, m Metrics, now time.Time) Flags {
	f := Flags{
		HasLowSkillDiversity: m.SkillCount < MinSkillDiversity,
		HasNoProjects:        m.ProjectCount == 0,
		HasHighPotential:     m.AvgSkillLevel >= 4 && m.SkillCount >= 5 && m.CompletedProjects >= 2,
	}

	for _, t := range sig.Training {
		if t.IsOngoing() && t.Progress.Clamp().Float64() < StagnantProgressBelow {
			f.HasStagnantTraining = true
			break
		}
	}

	if days, ok := sig.DaysSinceProfileUpdate(now); !ok || days > InactiveAfterDays {
		f.HasInactiveProfile = true
	}

	return f
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORING
// ══════════════════════════════════════════════════════════════════════════════

// riskLevel суммирует баллы условий риска и переводит их в уровень.
func riskLevel(m Metrics, f Flags) RiskLevel {
	points := 0
	if f.HasNoProjects {
		points += 3
	}
	if f.HasLowSkillDiversity {
		points += 2
	}
	if f.HasStagnantTraining {
		points += 2
	}
	if f.HasInactiveProfile {
		points += 2
	}
	if m.AvgTrainingProgress < LowTrainingProgressBelow {
		points += 2
	}
	if m.SkillCount == 0 {
		points += 3
	}

	switch {
	case points >= 6:
		return RiskHigh
	case points >= 3:
		return RiskMedium
	case points >= 1:
		return RiskLow
	default:
		return RiskNone
	}
}

// careerReadiness суммирует баллы зрелости профиля.
func careerReadiness(m Metrics, f Flags) Readiness {
	points := 0

	switch {
	case m.SkillCount >= 5:
		points += 2
	case m.SkillCount >= 3:
		points++
	}

	switch {
	case m.AvgSkillLevel >= 4:
		points += 2
	case m.AvgSkillLevel >= 3:
		points++
	}

	switch {
	case m.CompletedProjects >= 2:
		points += 2
	case m.CompletedProjects >= 1:
		points++
	}

	if m.CertificateCount >= 2 {
		points++
	}
	if m.ExperienceYears >= 1 {
		points += 2
	}
	if f.HasHighPotential {
		points += 2
	}

	switch {
	case points >= 7:
		return ReadinessHigh
	case points >= 4:
		return ReadinessMedium
	default:
		return ReadinessLow
	}
}

// overallScore собирает общий балл профиля из покомпонентных вкладов
// с потолками и штрафами. Результат зажат в [0, 100].
func overallScore(m Metrics, f Flags) int {
	var score float64

	// Навыки: до 15 за количество, потолок достигается на пяти,
	// плюс 3 за каждый пункт среднего уровня.
	score += math.Min(float64(m.SkillCount)*3, 15)
	score += float64(m.AvgSkillLevel) * 3

	// Проекты: по 5 за завершённый, не больше 20.
	score += math.Min(float64(m.CompletedProjects)*5, 20)

	// Обучение: по 4 за завершённый курс (до 12) плюс доля среднего
	// прогресса от 8.
	score += math.Min(float64(m.CompletedTraining)*4, 12)
	score += m.AvgTrainingProgress / 100 * 8

	// Опыт и сертификаты: по 5 за год (до 10), по 2.5 за сертификат (до 5).
	score += math.Min(m.ExperienceYears*5, 10)
	score += math.Min(float64(m.CertificateCount)*2.5, 5)

	if f.HasHighPotential {
		score += 15
	}

	if f.HasNoProjects {
		score -= 10
	}
	if f.HasLowSkillDiversity {
		score -= 5
	}
	if f.HasStagnantTraining {
		score -= 5
	}

	return int(math.Round(math.Max(0, math.Min(100, score))))
}

// ══════════════════════════════════════════════════════════════════════════════
// NARRATIVE
// Фиксированные шаблоны: каждое условие детерминированно даёт одно
// предложение, списки обрезаются до narrativeLimit пунктов.
// ══════════════════════════════════════════════════════════════════════════════

func strengths(m Metrics, f Flags) []string {
	items := make([]string, 0, narrativeLimit)

	if f.HasHighPotential {
		items = append(items, "High potential: strong skill levels backed by completed projects")
	}
	if m.SkillCount >= 5 {
		items = append(items, fmt.Sprintf("Broad technical skill set (%d skills)", m.SkillCount))
	}
	if m.AvgSkillLevel >= 4 {
		items = append(items, fmt.Sprintf("Advanced proficiency across skills (avg level %d/5)", m.AvgSkillLevel))
	}
	if m.CompletedProjects >= 2 {
		items = append(items, fmt.Sprintf("Proven project delivery (%d completed)", m.CompletedProjects))
	}
	if m.CompletedTraining >= 1 {
		items = append(items, fmt.Sprintf("Follows training through to completion (%d finished)", m.CompletedTraining))
	}
	if m.ExperienceYears >= 1 {
		items = append(items, fmt.Sprintf("Hands-on industry experience (~%.0f years)", m.ExperienceYears))
	}
	if m.CertificateCount >= 1 {
		items = append(items, fmt.Sprintf("Certified: %d certificate(s) on record", m.CertificateCount))
	}

	return truncate(items, narrativeLimit)
}

func weaknesses(m Metrics, f Flags) []string {
	items := make([]string, 0, narrativeLimit)

	if m.SkillCount == 0 {
		items = append(items, "No technical skills listed")
	} else if f.HasLowSkillDiversity {
		items = append(items, fmt.Sprintf("Narrow skill set: only %d technical skills", m.SkillCount))
	}
	if f.HasNoProjects {
		items = append(items, "No projects to demonstrate applied skills")
	}
	if f.HasStagnantTraining {
		items = append(items, "Training progress has stalled below 50%")
	}
	if f.HasInactiveProfile {
		items = append(items, "Profile has been inactive for over 60 days")
	}
	if m.TrainingCount > 0 && m.AvgTrainingProgress < LowTrainingProgressBelow {
		items = append(items, fmt.Sprintf("Low average training progress (%.0f%%)", m.AvgTrainingProgress))
	}
	if m.CertificateCount == 0 {
		items = append(items, "No certificates added to the profile")
	}

	return truncate(items, narrativeLimit)
}

func recommendations(m Metrics, f Flags, gaps []string) []string {
	items := make([]string, 0, narrativeLimit)

	if f.HasLowSkillDiversity {
		items = append(items, "Add more technical skills to the profile, aiming for at least 5")
	}
	if f.HasNoProjects {
		items = append(items, "Start a portfolio project to apply existing skills")
	}
	if f.HasStagnantTraining {
		items = append(items, "Resume stalled training courses and push past the halfway mark")
	}
	if f.HasInactiveProfile {
		items = append(items, "Refresh the profile with recent work and activity")
	}
	if len(gaps) > 0 {
		items = append(items, fmt.Sprintf("Close in-demand skill gaps: %s", joinSkills(gaps, 3)))
	}
	if m.CertificateCount == 0 {
		items = append(items, "Earn an industry certificate to validate skills")
	}
	if m.ExperienceYears == 0 {
		items = append(items, "Look for an internship to gain industry experience")
	}

	return truncate(items, narrativeLimit)
}

func truncate(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// joinSkills соединяет до max навыков через запятую.
func joinSkills(gaps []string, max int) string {
	if len(gaps) > max {
		gaps = gaps[:max]
	}
	return strings.Join(gaps, ", ")
}
