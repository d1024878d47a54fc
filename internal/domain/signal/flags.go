package signal

import (
	"fmt"
	"time"

	"github.com/skillpassport/insight-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// FLAG TYPES
// ══════════════════════════════════════════════════════════════════════════════

// FlagType - тип условия риска.
type FlagType string

const (
	// FlagLowSkills - меньше трёх технических навыков.
	FlagLowSkills FlagType = "low-skills"
	// FlagNoProjects - нет проектов либо все проекты зависли в работе.
	FlagNoProjects FlagType = "no-projects"
	// FlagStalledTraining - обучение застряло ниже половины без движения.
	FlagStalledTraining FlagType = "stalled-training"
	// FlagLowActivity - профиль давно не обновлялся.
	FlagLowActivity FlagType = "low-activity"
	// FlagLowGrades - средняя оценка ниже проходного уровня.
	FlagLowGrades FlagType = "low-grades"
	// FlagManyLate - повторяющиеся просрочки сдач.
	FlagManyLate FlagType = "many-late"
	// FlagMissingCertificates - ни один сертификат не подтверждён.
	FlagMissingCertificates FlagType = "missing-certificates"
)

// IsValid проверяет, что тип флага известен.
func (t FlagType) IsValid() bool {
	switch t {
	case FlagLowSkills, FlagNoProjects, FlagStalledTraining, FlagLowActivity,
		FlagLowGrades, FlagManyLate, FlagMissingCertificates:
		return true
	default:
		return false
	}
}

// Flag - типизированный сигнал риска с серьёзностью и текстовой причиной.
// Неизменяем, выводится на лету и никогда не сохраняется.
type Flag struct {
	Type     FlagType        `json:"type"`
	Reason   string          `json:"reason"`
	Severity shared.Severity `json:"severity"`
}

// ══════════════════════════════════════════════════════════════════════════════
// THRESHOLDS
// Пороговые значения правил. Порог неактивности здесь (30 дней)
// сознательно мягче порога глубокого анализа (60 дней): флаг ловит
// раннее затухание, глубокий анализ - действительно мёртвый профиль.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// MinSkills - минимальное число навыков, ниже которого ставится флаг.
	MinSkills = 3

	// StalledProgressBelow - порог прогресса для застрявшего обучения.
	StalledProgressBelow = 50.0

	// StalledAfterDays - дни без обновления, после которых обучение
	// с низким прогрессом считается застрявшим.
	StalledAfterDays = 30

	// InactiveAfterDays - дни без обновления профиля для флага активности.
	InactiveAfterDays = 30

	// LowGradeBelow - порог средней оценки.
	LowGradeBelow = 60.0

	// ManyLateFrom - количество просрочек, с которого ставится флаг.
	ManyLateFrom = 2
)

// ══════════════════════════════════════════════════════════════════════════════
// FLAG ENGINE
// ══════════════════════════════════════════════════════════════════════════════

// DeriveFlags применяет пороговые правила к сигналу студента. Правила
// независимы: студент может нести любое подмножество флагов. Текущее
// время передаётся явно, чтобы проверки давности были воспроизводимы.
func DeriveFlags(sig StudentSignal, now time.Time) []Flag {
	flags := make([]Flag, 0, 4)

	if sig.SkillsCount < MinSkills {
		flags = append(flags, Flag{
			Type:     FlagLowSkills,
			Reason:   fmt.Sprintf("Only %d technical skills listed", sig.SkillsCount),
			Severity: shared.SeverityHigh,
		})
	}

	if sig.ProjectsCount == 0 {
		flags = append(flags, Flag{
			Type:     FlagNoProjects,
			Reason:   "No projects in portfolio",
			Severity: shared.SeverityMedium,
		})
	} else if sig.InProgressProjects == sig.ProjectsCount {
		flags = append(flags, Flag{
			Type:     FlagNoProjects,
			Reason:   fmt.Sprintf("All %d projects are still in progress", sig.ProjectsCount),
			Severity: shared.SeverityLow,
		})
	}

	if stalled := countStalledTraining(sig, now); stalled > 0 {
		flags = append(flags, Flag{
			Type:     FlagStalledTraining,
			Reason:   fmt.Sprintf("%d training course(s) stalled below %.0f%% progress", stalled, StalledProgressBelow),
			Severity: shared.SeverityMedium,
		})
	}

	if days, ok := sig.DaysSinceProfileUpdate(now); ok && days > InactiveAfterDays {
		flags = append(flags, Flag{
			Type:     FlagLowActivity,
			Reason:   fmt.Sprintf("No profile updates for %d days", days),
			Severity: shared.SeverityLow,
		})
	}

	if avg := sig.Assignments.AvgGrade; avg > 0 && avg < LowGradeBelow {
		flags = append(flags, Flag{
			Type:     FlagLowGrades,
			Reason:   fmt.Sprintf("Average grade %.0f%%", avg),
			Severity: shared.SeverityHigh,
		})
	}

	if sig.Assignments.LateSubmissions >= ManyLateFrom {
		flags = append(flags, Flag{
			Type:     FlagManyLate,
			Reason:   fmt.Sprintf("%d late submissions", sig.Assignments.LateSubmissions),
			Severity: shared.SeverityMedium,
		})
	}

	if sig.CertificateCount > 0 && sig.ApprovedCertificates == 0 {
		flags = append(flags, Flag{
			Type:     FlagMissingCertificates,
			Reason:   "No approved certificates",
			Severity: shared.SeverityLow,
		})
	}

	return flags
}

// countStalledTraining считает записи об обучении с прогрессом ниже
// порога, у которых нет отметки обновления либо отметка старше
// StalledAfterDays дней.
func countStalledTraining(sig StudentSignal, now time.Time) int {
	stalled := 0
	for _, t := range sig.Training {
		if t.Progress.Clamp().Float64() >= StalledProgressBelow {
			continue
		}
		if t.LastUpdated == nil || shared.DaysSince(*t.LastUpdated, now) > StalledAfterDays {
			stalled++
		}
	}
	return stalled
}
