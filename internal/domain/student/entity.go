// Package student содержит доменную модель профиля студента SkillPassport.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package student

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/skillpassport/insight-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// SkillLevel представляет уровень владения навыком по шкале 0-5.
type SkillLevel int

// IsValid проверяет, что уровень в диапазоне 0-5.
func (l SkillLevel) IsValid() bool {
	return l >= 0 && l <= 5
}

// Clamp приводит уровень к диапазону 0-5.
func (l SkillLevel) Clamp() SkillLevel {
	if l < 0 {
		return 0
	}
	if l > 5 {
		return 5
	}
	return l
}

// Int возвращает числовое значение уровня.
func (l SkillLevel) Int() int {
	return int(l)
}

// Progress представляет прогресс обучения в процентах (0-100).
type Progress float64

// IsValid проверяет, что прогресс в диапазоне 0-100.
func (p Progress) IsValid() bool {
	return p >= 0 && p <= 100
}

// Clamp приводит прогресс к диапазону 0-100.
func (p Progress) Clamp() Progress {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Float64 возвращает числовое значение прогресса.
func (p Progress) Float64() float64 {
	return float64(p)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE SECTIONS
// Каждая секция профиля - список записей с флагом Enabled.
// Отключённые записи (Enabled == false) полностью исключаются из расчётов.
// ══════════════════════════════════════════════════════════════════════════════

// TechnicalSkill - технический навык студента.
type TechnicalSkill struct {
	// Name - название навыка в свободной форме ("React.JS", "python").
	Name string

	// Level - уровень владения (0-5).
	Level SkillLevel

	// Enabled - участвует ли навык в расчётах.
	Enabled bool

	// Verified - подтверждён ли навык преподавателем.
	Verified bool
}

// SoftSkill - гибкий навык студента.
type SoftSkill struct {
	Name    string
	Enabled bool
}

// Project - проект из портфолио студента.
type Project struct {
	// Title - название проекта.
	Title string

	// Status - статус в свободной форме ("completed", "in-progress", ...).
	Status string

	// Enabled - участвует ли проект в расчётах.
	Enabled bool
}

// IsCompleted возвращает true, если проект завершён.
// Сравнение статуса регистронезависимое.
func (p Project) IsCompleted() bool {
	return strings.EqualFold(strings.TrimSpace(p.Status), "completed")
}

// IsAbandoned возвращает true, если работа над проектом прекращена.
func (p Project) IsAbandoned() bool {
	s := strings.ToLower(strings.TrimSpace(p.Status))
	return s == "cancelled" || s == "dropped" || s == "abandoned"
}

// IsInProgress возвращает true, если проект ещё в работе:
// не завершён и не заброшен.
func (p Project) IsInProgress() bool {
	return !p.IsCompleted() && !p.IsAbandoned()
}

// Training - запись об обучении (курс, трек).
type Training struct {
	// Name - название курса.
	Name string

	// Status - статус в свободной форме ("completed", "ongoing", ...).
	Status string

	// Progress - прогресс прохождения (0-100).
	Progress Progress

	// Enabled - участвует ли запись в расчётах.
	Enabled bool

	// LastUpdated - время последнего обновления прогресса (опционально).
	LastUpdated *time.Time
}

// IsCompleted возвращает true, если обучение завершено.
func (t Training) IsCompleted() bool {
	return strings.EqualFold(strings.TrimSpace(t.Status), "completed")
}

// IsOngoing возвращает true, если обучение ещё идёт.
func (t Training) IsOngoing() bool {
	return !t.IsCompleted()
}

// Experience - запись об опыте работы.
type Experience struct {
	// Role - должность или роль.
	Role string

	// DurationText - длительность в свободной форме ("2 years", "6 months").
	DurationText string

	// Enabled - участвует ли запись в расчётах.
	Enabled bool
}

// Certificate - сертификат студента.
type Certificate struct {
	// Name - название сертификата.
	Name string

	// ApprovalStatus - статус проверки ("approved", "pending", "rejected").
	ApprovalStatus string

	// Enabled - участвует ли сертификат в расчётах.
	Enabled bool
}

// IsApproved возвращает true, если сертификат подтверждён.
func (c Certificate) IsApproved() bool {
	return strings.EqualFold(strings.TrimSpace(c.ApprovalStatus), "approved")
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record - неизменяемый снимок профиля студента на момент запроса.
// Загружается из хранилища целиком и дальше по конвейеру не мутируется.
type Record struct {
	// ID - уникальный идентификатор студента.
	ID shared.StudentID

	// Name - отображаемое имя студента.
	Name string

	// Cohort - когорта (учебное заведение или поток).
	Cohort shared.Cohort

	// TechnicalSkills - технические навыки.
	TechnicalSkills []TechnicalSkill

	// SoftSkills - гибкие навыки.
	SoftSkills []SoftSkill

	// Projects - проекты портфолио.
	Projects []Project

	// Training - записи об обучении.
	Training []Training

	// Experience - записи об опыте работы.
	Experience []Experience

	// Certificates - сертификаты.
	Certificates []Certificate

	// LastProfileUpdate - время последнего обновления профиля (опционально).
	LastProfileUpdate *time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrEmptyID - пустой идентификатор студента.
	ErrEmptyID = errors.New("student id is required")

	// ErrEmptyName - пустое имя студента.
	ErrEmptyName = errors.New("student name is required")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewRecordParams содержит параметры для создания снимка профиля.
type NewRecordParams struct {
	ID                string
	Name              string
	Cohort            string
	TechnicalSkills   []TechnicalSkill
	SoftSkills        []SoftSkill
	Projects          []Project
	Training          []Training
	Experience        []Experience
	Certificates      []Certificate
	LastProfileUpdate *time.Time
}

// NewRecord создаёт снимок профиля с валидацией обязательных полей.
// Необязательные секции могут быть nil - это эквивалентно пустым спискам.
func NewRecord(params NewRecordParams) (*Record, error) {
	id, err := shared.NewStudentID(params.ID)
	if err != nil {
		return nil, ErrEmptyID
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	return &Record{
		ID:                id,
		Name:              name,
		Cohort:            shared.Cohort(strings.TrimSpace(params.Cohort)),
		TechnicalSkills:   params.TechnicalSkills,
		SoftSkills:        params.SoftSkills,
		Projects:          params.Projects,
		Training:          params.Training,
		Experience:        params.Experience,
		Certificates:      params.Certificates,
		LastProfileUpdate: params.LastProfileUpdate,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// EnabledTechnicalSkills возвращает только включённые технические навыки.
func (r *Record) EnabledTechnicalSkills() []TechnicalSkill {
	out := make([]TechnicalSkill, 0, len(r.TechnicalSkills))
	for _, s := range r.TechnicalSkills {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// EnabledProjects возвращает только включённые проекты.
func (r *Record) EnabledProjects() []Project {
	out := make([]Project, 0, len(r.Projects))
	for _, p := range r.Projects {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// EnabledTraining возвращает только включённые записи об обучении.
func (r *Record) EnabledTraining() []Training {
	out := make([]Training, 0, len(r.Training))
	for _, t := range r.Training {
		if t.Enabled {
			out = append(out, t)
		}
	}
	return out
}

// EnabledExperience возвращает только включённые записи об опыте.
func (r *Record) EnabledExperience() []Experience {
	out := make([]Experience, 0, len(r.Experience))
	for _, e := range r.Experience {
		if e.Enabled {
			out = append(out, e)
		}
	}
	return out
}

// EnabledCertificates возвращает только включённые сертификаты.
func (r *Record) EnabledCertificates() []Certificate {
	out := make([]Certificate, 0, len(r.Certificates))
	for _, c := range r.Certificates {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}

// DaysSinceProfileUpdate возвращает число полных дней с последнего
// обновления профиля. Второе значение false, если отметки времени нет.
func (r *Record) DaysSinceProfileUpdate(now time.Time) (int, bool) {
	if r.LastProfileUpdate == nil {
		return 0, false
	}
	return shared.DaysSince(*r.LastProfileUpdate, now), true
}

// String возвращает краткое строковое представление для логов.
func (r *Record) String() string {
	return fmt.Sprintf("Student{ID: %s, Name: %s, Skills: %d, Projects: %d}",
		r.ID, r.Name, len(r.TechnicalSkills), len(r.Projects))
}

// Clone создаёт глубокую копию снимка.
func (r *Record) Clone() *Record {
	clone := *r
	clone.TechnicalSkills = append([]TechnicalSkill(nil), r.TechnicalSkills...)
	clone.SoftSkills = append([]SoftSkill(nil), r.SoftSkills...)
	clone.Projects = append([]Project(nil), r.Projects...)
	clone.Training = append([]Training(nil), r.Training...)
	clone.Experience = append([]Experience(nil), r.Experience...)
	clone.Certificates = append([]Certificate(nil), r.Certificates...)
	if r.LastProfileUpdate != nil {
		t := *r.LastProfileUpdate
		clone.LastProfileUpdate = &t
	}
	for i, tr := range r.Training {
		if tr.LastUpdated != nil {
			t := *tr.LastUpdated
			clone.Training[i].LastUpdated = &t
		}
	}
	return &clone
}
