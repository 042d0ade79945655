package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerprep-backend/resume/model"
	"careerprep-backend/resume/parser"
	"careerprep-backend/resume/templates"
)

func docWithSkills(skills ...string) model.Document {
	d := model.New()
	d.Skills = skills
	return d
}

func TestMergeSkillsIsDedupedUnion(t *testing.T) {
	cases := []struct {
		name    string
		current []string
		parsed  []string
		want    []string
	}{
		{"disjoint", []string{"Go", "SQL"}, []string{"React"}, []string{"Go", "SQL", "React"}},
		{"overlap", []string{"Go", "SQL"}, []string{"SQL", "Go", "AWS"}, []string{"Go", "SQL", "AWS"}},
		{"case sensitive", []string{"go"}, []string{"Go"}, []string{"go", "Go"}},
		{"repeats inside inputs", []string{"Go", "Go"}, []string{"AWS", "AWS"}, []string{"Go", "AWS"}},
		{"both empty", nil, nil, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Merge(docWithSkills(tc.current...), docWithSkills(tc.parsed...))
			assert.Equal(t, tc.want, got.Skills)
		})
	}
}

func TestMergeNeverOverwritesPersonalInfo(t *testing.T) {
	current := model.New()
	current.PersonalInfo = model.PersonalInfo{Name: "Jane Roe", Email: "jane@example.com"}
	parsed := parser.Parse(templates.SampleGeneratedResume)

	got := Merge(current, parsed)
	assert.Equal(t, "Jane Roe", got.PersonalInfo.Name)
	assert.Equal(t, "jane@example.com", got.PersonalInfo.Email)
	assert.Equal(t, "+1-555-123-4567", got.PersonalInfo.Phone)

	replaced := Replace(current, parsed)
	assert.Equal(t, "Jane Roe", replaced.PersonalInfo.Name)
	assert.Equal(t, "linkedin.com/in/johndoe", replaced.PersonalInfo.LinkedIn)
}

func TestMergeSummaryIsIdempotent(t *testing.T) {
	current := model.New()
	current.Summary = "Hands-on engineer."
	parsed := model.New()
	parsed.Summary = "Builds cloud services."

	once := Merge(current, parsed)
	assert.Equal(t, "Hands-on engineer.\n\nBuilds cloud services.", once.Summary)

	twice := Merge(once, parsed)
	assert.Equal(t, once.Summary, twice.Summary)

	fromEmpty := Merge(model.New(), parsed)
	assert.Equal(t, "Builds cloud services.", fromEmpty.Summary)
}

func TestMergeAppendsOnlyUnseenRecords(t *testing.T) {
	current := model.New()
	current.Experience = []model.Experience{{Company: "Acme", Position: "Engineer", Achievements: []string{"kept"}}}
	current.Certifications = []model.Certification{{Name: "CKA", Issuer: "CNCF"}}

	parsed := model.New()
	parsed.Experience = []model.Experience{
		{Company: "Acme", Position: "Engineer", Achievements: []string{"dropped"}},
		{Company: "Acme", Position: "Lead"},
		{Company: "Acme", Position: "Lead"},
	}
	parsed.Certifications = []model.Certification{{Name: "CKA"}, {Name: "AWS SA"}}
	parsed.Projects = []model.Project{{Name: "CLI"}}
	parsed.Education = []model.Education{{Institution: "MIT", Degree: "BSc"}}

	got := Merge(current, parsed)
	require.Len(t, got.Experience, 2)
	assert.Equal(t, []string{"kept"}, got.Experience[0].Achievements)
	assert.Equal(t, "Lead", got.Experience[1].Position)
	require.Len(t, got.Certifications, 2)
	assert.Equal(t, "CNCF", got.Certifications[0].Issuer)
	assert.Len(t, got.Projects, 1)
	assert.Len(t, got.Education, 1)
}

func TestReplaceKeepsCurrentWhenParsedEmpty(t *testing.T) {
	current := templates.MockResumeData()
	parsed := model.New()

	got := Replace(current, parsed)
	assert.Equal(t, current.Skills, got.Skills)
	assert.Equal(t, current.Experience, got.Experience)
	assert.Equal(t, current.Summary, got.Summary)
}

func TestReplaceSwapsNonEmptySections(t *testing.T) {
	current := templates.MockResumeData()
	parsed := docWithSkills("Rust")
	parsed.Hobbies = []string{"Chess"}

	got := Replace(current, parsed)
	assert.Equal(t, []string{"Rust"}, got.Skills)
	assert.Equal(t, []string{"Chess"}, got.Hobbies)
	assert.Equal(t, current.Experience, got.Experience)

	again := Replace(got, parsed)
	assert.Equal(t, got, again)
}

func TestInputsAreNotMutated(t *testing.T) {
	current := templates.MockResumeData()
	parsed := parser.Parse(templates.SampleGeneratedResume)
	before := current.Clone()
	parsedBefore := parsed.Clone()

	merged := Merge(current, parsed)
	merged.Skills[0] = "mutated"
	merged.Experience[0].Achievements[0] = "mutated"
	replaced := Replace(current, parsed)
	replaced.Skills[0] = "mutated"

	assert.Equal(t, before, current)
	assert.Equal(t, parsedBefore, parsed)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Replace ")
	require.NoError(t, err)
	assert.Equal(t, ModeReplace, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeMerge, m)

	_, err = ParseMode("overwrite")
	assert.Error(t, err)
}
