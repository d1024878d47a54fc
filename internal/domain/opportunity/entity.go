// Package opportunity содержит доменную модель вакансии или стажировки,
// открытой для студентов.
package opportunity

import (
	"fmt"
	"strings"

	"github.com/skillpassport/insight-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// ExperienceLevel - требуемый уровень опыта в свободной форме
// ("Entry level", "Mid / Senior", "2+ years"). Разбирается по ключевым словам.
type ExperienceLevel string

// MatchesYears проверяет, проходит ли кандидат с указанным опытом (в годах)
// требование уровня. Нераспознанный уровень считается проходным:
// лучше показать лишний вариант, чем скрыть подходящий.
func (e ExperienceLevel) MatchesYears(years float64) bool {
	level := strings.ToLower(string(e))

	switch {
	case strings.Contains(level, "entry"),
		strings.Contains(level, "junior"),
		strings.Contains(level, "fresher"):
		return true
	case strings.Contains(level, "mid"),
		strings.Contains(level, "intermediate"):
		return years >= 2
	case strings.Contains(level, "senior"),
		strings.Contains(level, "lead"):
		return years >= 5
	default:
		return true
	}
}

// String возвращает строковое представление уровня.
func (e ExperienceLevel) String() string {
	return string(e)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: OPPORTUNITY RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record - снимок открытой вакансии.
type Record struct {
	// ID - идентификатор вакансии.
	ID shared.OpportunityID

	// Title - название позиции.
	Title string

	// Company - название компании.
	Company string

	// SkillsRequired - требуемые навыки в свободной форме.
	SkillsRequired []string

	// ExperienceLevel - требуемый уровень опыта.
	ExperienceLevel ExperienceLevel

	// IsActive - открыта ли вакансия для откликов.
	IsActive bool

	// Status - статус публикации в свободной форме.
	Status string
}

// HasSkillRequirements возвращает true, если у вакансии указаны навыки.
// Вакансии без требований не дают сигнала для матчинга и пропускаются.
func (r Record) HasSkillRequirements() bool {
	for _, s := range r.SkillsRequired {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// String возвращает краткое строковое представление для логов.
func (r Record) String() string {
	return fmt.Sprintf("Opportunity{ID: %s, Title: %s, Skills: %d}", r.ID, r.Title, len(r.SkillsRequired))
}
