package postgres

import (
	"strings"

	"github.com/skillpassport/insight-engine/internal/domain/assignment"
	"github.com/skillpassport/insight-engine/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// DTO -> DOMAIN
// Defaulting rules applied here, and only here: missing enable-flags
// mean enabled, out-of-range numerics are clamped, malformed fields
// fall back to zero values. Domain code downstream sees strict types.
// ══════════════════════════════════════════════════════════════════════════════

func toTechnicalSkills(docs []technicalSkillDoc) []student.TechnicalSkill {
	skills := make([]student.TechnicalSkill, 0, len(docs))
	for _, d := range docs {
		var level student.SkillLevel
		if d.Level != nil {
			level = student.SkillLevel(*d.Level).Clamp()
		}
		skills = append(skills, student.TechnicalSkill{
			Name:     strings.TrimSpace(d.Name),
			Level:    level,
			Enabled:  enabledOrDefault(d.Enabled),
			Verified: d.Verified != nil && *d.Verified,
		})
	}
	return skills
}

func toSoftSkills(docs []softSkillDoc) []student.SoftSkill {
	skills := make([]student.SoftSkill, 0, len(docs))
	for _, d := range docs {
		skills = append(skills, student.SoftSkill{
			Name:    strings.TrimSpace(d.Name),
			Enabled: enabledOrDefault(d.Enabled),
		})
	}
	return skills
}

func toProjects(docs []projectDoc) []student.Project {
	projects := make([]student.Project, 0, len(docs))
	for _, d := range docs {
		projects = append(projects, student.Project{
			Title:   strings.TrimSpace(d.Title),
			Status:  strings.TrimSpace(d.Status),
			Enabled: enabledOrDefault(d.Enabled),
		})
	}
	return projects
}

func toTraining(docs []trainingDoc) []student.Training {
	training := make([]student.Training, 0, len(docs))
	for _, d := range docs {
		var progress student.Progress
		if d.Progress != nil {
			progress = student.Progress(*d.Progress).Clamp()
		}
		training = append(training, student.Training{
			Name:        strings.TrimSpace(d.Name),
			Status:      strings.TrimSpace(d.Status),
			Progress:    progress,
			Enabled:     enabledOrDefault(d.Enabled),
			LastUpdated: parseTimePtr(d.LastUpdated),
		})
	}
	return training
}

func toExperience(docs []experienceDoc) []student.Experience {
	experience := make([]student.Experience, 0, len(docs))
	for _, d := range docs {
		experience = append(experience, student.Experience{
			Role:         strings.TrimSpace(d.Role),
			DurationText: strings.TrimSpace(d.Duration),
			Enabled:      enabledOrDefault(d.Enabled),
		})
	}
	return experience
}

func toCertificates(docs []certificateDoc) []student.Certificate {
	certificates := make([]student.Certificate, 0, len(docs))
	for _, d := range docs {
		certificates = append(certificates, student.Certificate{
			Name:           strings.TrimSpace(d.Name),
			ApprovalStatus: strings.TrimSpace(d.ApprovalStatus),
			Enabled:        enabledOrDefault(d.Enabled),
		})
	}
	return certificates
}

// parseAssignmentStatus maps free-text status values onto the known
// set. Unknown or empty text decodes as "todo".
func parseAssignmentStatus(raw string) assignment.Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", "-")
	switch st := assignment.Status(s); st {
	case assignment.StatusTodo, assignment.StatusInProgress, assignment.StatusSubmitted, assignment.StatusGraded:
		return st
	default:
		return assignment.StatusTodo
	}
}
