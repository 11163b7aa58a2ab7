package alert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matchbox-hr/matchbox/board/alert"
	"github.com/matchbox-hr/matchbox/board/candidate"
	"github.com/matchbox-hr/matchbox/board/job"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

func industry(id string) *kernel.IndustryID       { v := kernel.IndustryID(id); return &v }
func jobRole(id string) *kernel.JobRoleID         { v := kernel.JobRoleID(id); return &v }
func city(name string) *kernel.City               { v := kernel.City(name); return &v }
func jobType(t string) *kernel.JobType            { v := kernel.JobType(t); return &v }
func experience(e string) *kernel.ExperienceLevel { v := kernel.ExperienceLevel(e); return &v }
func int64p(v int64) *int64                       { return &v }

func sampleJob() *job.Job {
	return &job.Job{
		ID:              "job-1",
		Employer:        "emp-1",
		Title:           "Senior Backend Engineer",
		Description:     "Design and run distributed services in Go.",
		FunctionalAreas: []kernel.FunctionalAreaID{"fa-eng", "fa-infra"},
		Industry:        "ind-software",
		Role:            "role-backend",
		Skills:          []kernel.SkillID{"go", "postgres", "redis"},
		Specialisms:     []kernel.Specialism{"Backend Development", "Site Reliability"},
		City:            "Coimbatore",
		OfferedSalary:   "₹5-10 LPA",
		JobType:         "Full-time",
		Experience:      "5-7 years",
		Status:          job.JobStatusPublished,
	}
}

func TestCriteria_EmptyMatchesEverything(t *testing.T) {
	c := alert.Criteria{}
	assert.True(t, c.IsEmpty())
	assert.True(t, c.MatchesJob(sampleJob()))
	assert.True(t, c.MatchesJob(&job.Job{}))
}

func TestCriteria_NilSubject(t *testing.T) {
	assert.False(t, alert.Criteria{}.MatchesJob(nil))
	assert.False(t, alert.Criteria{}.MatchesProfile(nil))
}

func TestCriteria_ANDComposition(t *testing.T) {
	j := sampleJob()

	both := alert.Criteria{Industry: industry("ind-software"), JobType: jobType("Full-time")}
	assert.True(t, both.MatchesJob(j))

	wrongIndustry := alert.Criteria{Industry: industry("ind-retail"), JobType: jobType("Full-time")}
	assert.False(t, wrongIndustry.MatchesJob(j), "one failing dimension must fail the whole match")

	wrongType := alert.Criteria{Industry: industry("ind-software"), JobType: jobType("Part-time")}
	assert.False(t, wrongType.MatchesJob(j))
}

func TestCriteria_SetDimensions(t *testing.T) {
	j := sampleJob()

	assert.True(t, alert.Criteria{
		FunctionalAreas: []kernel.FunctionalAreaID{"fa-sales", "fa-infra"},
	}.MatchesJob(j), "any overlap passes")

	assert.False(t, alert.Criteria{
		FunctionalAreas: []kernel.FunctionalAreaID{"fa-sales"},
	}.MatchesJob(j))

	assert.True(t, alert.Criteria{Skills: []kernel.SkillID{"go", "kubernetes"}}.MatchesJob(j))
	assert.False(t, alert.Criteria{Skills: []kernel.SkillID{"kubernetes"}}.MatchesJob(j))

	assert.True(t, alert.Criteria{Categories: []string{"Backend"}}.MatchesJob(j),
		"category matches by containment in the specialism text")
	assert.False(t, alert.Criteria{Categories: []string{"Frontend"}}.MatchesJob(j))
}

func TestCriteria_CityIsCaseSensitive(t *testing.T) {
	j := sampleJob()

	assert.True(t, alert.Criteria{City: city("Coimbatore")}.MatchesJob(j))
	// intentionally case-sensitive; see the note on Criteria.MatchesJob
	assert.False(t, alert.Criteria{City: city("coimbatore")}.MatchesJob(j))
	assert.False(t, alert.Criteria{City: city("Chennai")}.MatchesJob(j))
}

func TestCriteria_KeywordsAreCaseInsensitive(t *testing.T) {
	j := sampleJob()

	assert.True(t, alert.Criteria{Keywords: []string{"BACKEND"}}.MatchesJob(j))
	assert.True(t, alert.Criteria{Keywords: []string{"nomatch", "distributed"}}.MatchesJob(j),
		"any keyword hit passes")
	assert.False(t, alert.Criteria{Keywords: []string{"blockchain"}}.MatchesJob(j))
}

func TestParseOfferedSalary(t *testing.T) {
	cases := []struct {
		offered string
		want    int64
	}{
		{"₹5-10 LPA", 500000},
		{"5 LPA", 500000},
		{"7.5 LPA", 750000},
		{"12-15 LPA", 1200000},
		{"competitive", 0},
		{"", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, alert.ParseOfferedSalary(kernel.OfferedSalary(tc.offered)),
			"offered=%q", tc.offered)
	}
}

func TestCriteria_SalaryBoundary(t *testing.T) {
	j := sampleJob() // "₹5-10 LPA" parses to 500000

	atBoundary := alert.Criteria{SalaryRange: &alert.SalaryRange{Min: 500000}}
	assert.True(t, atBoundary.MatchesJob(j), "500000 >= 500000 must pass")

	aboveBoundary := alert.Criteria{SalaryRange: &alert.SalaryRange{Min: 500001}}
	assert.False(t, aboveBoundary.MatchesJob(j))

	withMax := alert.Criteria{SalaryRange: &alert.SalaryRange{Min: 100000, Max: int64p(400000)}}
	assert.False(t, withMax.MatchesJob(j))

	okRange := alert.Criteria{SalaryRange: &alert.SalaryRange{Min: 400000, Max: int64p(600000)}}
	assert.True(t, okRange.MatchesJob(j))
}

func TestCriteria_NegotiableSkipsSalary(t *testing.T) {
	j := sampleJob()
	j.OfferedSalary = "Negotiable"

	demanding := alert.Criteria{SalaryRange: &alert.SalaryRange{Min: 99000000}}
	assert.True(t, demanding.MatchesJob(j), "Negotiable skips the salary dimension entirely")
}

func TestCriteria_UnparsableSalaryFailsPositiveMin(t *testing.T) {
	j := sampleJob()
	j.OfferedSalary = "as per industry standards"

	assert.False(t, alert.Criteria{SalaryRange: &alert.SalaryRange{Min: 300000}}.MatchesJob(j),
		"unparsable salary is treated as 0 and fails a positive minimum")
	assert.True(t, alert.Criteria{SalaryRange: &alert.SalaryRange{Min: 0}}.MatchesJob(j))
}

func sampleProfile() *candidate.Profile {
	return &candidate.Profile{
		ID:          "cand-1",
		Owner:       "user-1",
		Headline:    "Backend engineer, Go and Postgres",
		Summary:     "Seven years building payment systems.",
		Skills:      []kernel.SkillID{"go", "postgres"},
		Specialisms: []kernel.Specialism{"Backend Development"},
		City:        "Coimbatore",
		Experience:  "5-7 years",
		Education:   "B.E. Computer Science",
	}
}

func TestCriteria_MatchesProfile(t *testing.T) {
	p := sampleProfile()

	assert.True(t, alert.Criteria{Skills: []kernel.SkillID{"go"}}.MatchesProfile(p))
	assert.False(t, alert.Criteria{Skills: []kernel.SkillID{"rust"}}.MatchesProfile(p))
	assert.True(t, alert.Criteria{Experience: experience("5-7 years"), City: city("Coimbatore")}.MatchesProfile(p))

	edu := "computer science"
	assert.True(t, alert.Criteria{Education: &edu}.MatchesProfile(p))

	// posting-only dimensions pass vacuously for profiles
	assert.True(t, alert.Criteria{Industry: industry("ind-software"), SalaryRange: &alert.SalaryRange{Min: 9000000}}.MatchesProfile(p))
}

func TestScoreProfile_Range(t *testing.T) {
	p := sampleProfile()

	assert.Equal(t, 100, alert.Criteria{}.ScoreProfile(p), "catch-all criteria fits everyone")
	assert.Equal(t, 0, alert.Criteria{}.ScoreProfile(nil))

	full := alert.Criteria{
		Skills:     []kernel.SkillID{"go", "postgres"},
		City:       city("Coimbatore"),
		Experience: experience("5-7 years"),
	}
	assert.Equal(t, 100, full.ScoreProfile(p))

	none := alert.Criteria{
		Skills: []kernel.SkillID{"rust", "c++"},
		City:   city("Berlin"),
	}
	assert.Equal(t, 0, none.ScoreProfile(p))
}

func TestScoreProfile_PartialCredit(t *testing.T) {
	p := sampleProfile()

	half := alert.Criteria{Skills: []kernel.SkillID{"go", "rust"}}
	score := half.ScoreProfile(p)
	assert.Greater(t, score, 0)
	assert.Less(t, score, 100)
}

// Adding a dimension that the profile satisfies must never lower the
// score relative to the same criteria without it.
func TestScoreProfile_Monotonic(t *testing.T) {
	p := sampleProfile()

	base := alert.Criteria{Skills: []kernel.SkillID{"go", "rust"}}
	withCity := base
	withCity.City = city("Coimbatore")
	withCityAndExp := withCity
	withCityAndExp.Experience = experience("5-7 years")

	s0 := base.ScoreProfile(p)
	s1 := withCity.ScoreProfile(p)
	s2 := withCityAndExp.ScoreProfile(p)

	assert.GreaterOrEqual(t, s1, s0)
	assert.GreaterOrEqual(t, s2, s1)
}
