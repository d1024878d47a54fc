package matching

import (
	"math"
	"sort"

	"github.com/skillpassport/insight-engine/internal/domain/opportunity"
	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/signal"
	"github.com/skillpassport/insight-engine/internal/domain/skill"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLASSIFICATION
// ══════════════════════════════════════════════════════════════════════════════

// Classification - вердикт глубокого матчинга.
type Classification string

const (
	// ClassificationReady - студент готов откликаться.
	ClassificationReady Classification = "Ready"
	// ClassificationClose - студенту немного не хватает.
	ClassificationClose Classification = "Close"
	// ClassificationNeedsTraining - нужна дополнительная подготовка.
	ClassificationNeedsTraining Classification = "Needs Training"
)

// ══════════════════════════════════════════════════════════════════════════════
// WEIGHTS
// ══════════════════════════════════════════════════════════════════════════════

// DeepWeights - веса смешивания покрытия навыков и проверки опыта.
type DeepWeights struct {
	// SkillWeight - доля покрытия навыков в итоговом балле.
	SkillWeight float64

	// ExperienceBonus - добавка за пройденную проверку опыта.
	ExperienceBonus float64

	// ReadyFrom - нижняя граница балла для вердикта Ready.
	ReadyFrom int

	// CloseFrom - нижняя граница балла для вердикта Close.
	CloseFrom int
}

// DefaultDeepWeights возвращает веса по умолчанию.
func DefaultDeepWeights() DeepWeights {
	return DeepWeights{
		SkillWeight:     0.7,
		ExperienceBonus: 30,
		ReadyFrom:       80,
		CloseFrom:       60,
	}
}

// Classify переводит балл в вердикт.
func (w DeepWeights) Classify(score int) Classification {
	switch {
	case score >= w.ReadyFrom:
		return ClassificationReady
	case score >= w.CloseFrom:
		return ClassificationClose
	default:
		return ClassificationNeedsTraining
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DEEP MATCH
// ══════════════════════════════════════════════════════════════════════════════

// DeepMatch - оценка одной вакансии для одного студента с учётом опыта.
type DeepMatch struct {
	OpportunityID    shared.OpportunityID `json:"opportunityId"`
	OpportunityTitle string               `json:"opportunityTitle"`
	Company          string               `json:"company"`

	// SkillMatchScore - процент покрытия требуемых навыков.
	SkillMatchScore float64 `json:"skillMatchScore"`

	// ExperienceMatch - прошёл ли студент проверку требуемого опыта.
	ExperienceMatch bool `json:"experienceMatch"`

	// MatchScore - итоговый балл: покрытие навыков с весом SkillWeight
	// плюс бонус за опыт, округлён до целого.
	MatchScore int `json:"matchScore"`

	Classification Classification `json:"classification"`

	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
}

// MatchDeep оценивает вакансии для одного студента. Вакансии без
// требуемых навыков пропускаются. Результат отсортирован по убыванию
// итогового балла; при равенстве сохраняется входной порядок вакансий.
func MatchDeep(sig signal.StudentSignal, opps []opportunity.Record, weights DeepWeights) []DeepMatch {
	matches := make([]DeepMatch, 0, len(opps))

	for _, opp := range opps {
		required := skill.NewSet(opp.SkillsRequired)
		if required.Len() == 0 {
			continue
		}

		matched, missing := coverage(sig.Skills, required)
		skillScore := float64(len(matched)) / float64(required.Len()) * 100

		expMatch := opp.ExperienceLevel.MatchesYears(sig.ExperienceYears)
		score := skillScore * weights.SkillWeight
		if expMatch {
			score += weights.ExperienceBonus
		}
		total := int(math.Round(score))

		matches = append(matches, DeepMatch{
			OpportunityID:    opp.ID,
			OpportunityTitle: opp.Title,
			Company:          opp.Company,
			SkillMatchScore:  skillScore,
			ExperienceMatch:  expMatch,
			MatchScore:       total,
			Classification:   weights.Classify(total),
			MatchedSkills:    matched,
			MissingSkills:    missing,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	return matches
}
