package opportunity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExperienceLevel_MatchesYears(t *testing.T) {
	assert.True(t, ExperienceLevel("Entry level").MatchesYears(0))
	assert.True(t, ExperienceLevel("Junior Developer").MatchesYears(0))
	assert.True(t, ExperienceLevel("Fresher").MatchesYears(0))

	assert.False(t, ExperienceLevel("Mid level").MatchesYears(1))
	assert.True(t, ExperienceLevel("Mid level").MatchesYears(2))
	assert.True(t, ExperienceLevel("Intermediate").MatchesYears(2.5))

	assert.False(t, ExperienceLevel("Senior").MatchesYears(4))
	assert.True(t, ExperienceLevel("Senior").MatchesYears(5))
	assert.False(t, ExperienceLevel("Tech Lead").MatchesYears(3))

	// Unrecognized levels pass: better to show an extra option.
	assert.True(t, ExperienceLevel("2+ years").MatchesYears(0))
	assert.True(t, ExperienceLevel("").MatchesYears(0))
}

func TestRecord_HasSkillRequirements(t *testing.T) {
	assert.False(t, Record{}.HasSkillRequirements())
	assert.False(t, Record{SkillsRequired: []string{"", "  "}}.HasSkillRequirements())
	assert.True(t, Record{SkillsRequired: []string{"go"}}.HasSkillRequirements())
}
