package alert

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matchbox-hr/matchbox/board/candidate"
	"github.com/matchbox-hr/matchbox/board/job"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// SalaryNegotiable is the sentinel an employer uses instead of a figure.
// The salary dimension is skipped entirely for such postings.
const SalaryNegotiable = "Negotiable"

// SalaryRange filters on the posting's offered salary, in absolute rupees
type SalaryRange struct {
	Min int64  `json:"min"`
	Max *int64 `json:"max,omitempty"`
}

// Criteria is the structured filter attached to a subscription. Every
// dimension is optional and evaluated independently; all present
// dimensions must pass. A nil pointer or empty list means "no constraint
// on that dimension" — never "match nothing". An entirely empty Criteria
// is a catch-all that matches every subject.
type Criteria struct {
	FunctionalAreas []kernel.FunctionalAreaID `json:"functional_areas,omitempty"`
	Industry        *kernel.IndustryID        `json:"industry,omitempty"`
	Role            *kernel.JobRoleID         `json:"role,omitempty"`
	Skills          []kernel.SkillID          `json:"skills,omitempty"`
	// Categories is the legacy free-text sibling of FunctionalAreas,
	// matched by containment against the posting's specialism list
	Categories  []string                `json:"categories,omitempty"`
	City        *kernel.City            `json:"city,omitempty"`
	SalaryRange *SalaryRange            `json:"salary_range,omitempty"`
	JobType     *kernel.JobType         `json:"job_type,omitempty"`
	Experience  *kernel.ExperienceLevel `json:"experience,omitempty"`
	Education   *string                 `json:"education,omitempty"`
	Keywords    []string                `json:"keywords,omitempty"`
}

// IsEmpty reports whether no dimension is present (a catch-all alert)
func (c Criteria) IsEmpty() bool {
	return len(c.FunctionalAreas) == 0 &&
		c.Industry == nil &&
		c.Role == nil &&
		len(c.Skills) == 0 &&
		len(c.Categories) == 0 &&
		c.City == nil &&
		c.SalaryRange == nil &&
		c.JobType == nil &&
		c.Experience == nil &&
		c.Education == nil &&
		len(c.Keywords) == 0
}

// MatchesJob evaluates a posting against the criteria. Dimensions are
// ANDed; absent dimensions pass vacuously.
func (c Criteria) MatchesJob(j *job.Job) bool {
	if j == nil {
		return false
	}

	if len(c.FunctionalAreas) > 0 && !functionalAreasIntersect(c.FunctionalAreas, j.FunctionalAreas) {
		return false
	}

	if c.Industry != nil && *c.Industry != j.Industry {
		return false
	}

	if c.Role != nil && *c.Role != j.Role {
		return false
	}

	if len(c.Skills) > 0 && countSkillOverlap(c.Skills, j.Skills) == 0 {
		return false
	}

	if len(c.Categories) > 0 && countCategoryOverlap(c.Categories, j.Specialisms) == 0 {
		return false
	}

	// Case-sensitive on purpose: city search elsewhere folds case, but
	// alert criteria historically did not. Kept until product unifies it.
	if c.City != nil && *c.City != j.City {
		return false
	}

	if c.SalaryRange != nil && !c.SalaryRange.matches(j.OfferedSalary) {
		return false
	}

	if c.JobType != nil && *c.JobType != j.JobType {
		return false
	}

	if c.Experience != nil && *c.Experience != j.Experience {
		return false
	}

	if len(c.Keywords) > 0 && !keywordsMatch(c.Keywords, string(j.Title)+" "+string(j.Description)) {
		return false
	}

	return true
}

// MatchesProfile evaluates a candidate profile against the criteria for
// the resume-alert variant. Dimensions that only apply to postings
// (functional areas, industry, role, salary, job type) pass vacuously.
func (c Criteria) MatchesProfile(p *candidate.Profile) bool {
	if p == nil {
		return false
	}

	if len(c.Skills) > 0 && countSkillOverlap(c.Skills, p.Skills) == 0 {
		return false
	}

	if len(c.Categories) > 0 && countCategoryOverlap(c.Categories, p.Specialisms) == 0 {
		return false
	}

	if c.City != nil && *c.City != p.City {
		return false
	}

	if c.Experience != nil && *c.Experience != p.Experience {
		return false
	}

	if c.Education != nil && !containsFold(p.Education, *c.Education) {
		return false
	}

	if len(c.Keywords) > 0 && !keywordsMatch(c.Keywords, p.Headline+" "+p.Summary) {
		return false
	}

	return true
}

// Dimension weights for resume-alert match scoring. Contributions are
// non-negative and summed over dimensions present in the criteria, then
// normalized, so an extra matching dimension can never lower the score.
const (
	weightSkills     = 40
	weightCategories = 20
	weightCity       = 15
	weightExperience = 15
	weightEducation  = 10
)

// ScoreProfile estimates how well a profile fits the criteria, 0-100.
// Skills and categories earn partial credit proportional to the fraction
// of criteria entries matched; the scalar dimensions are all-or-nothing.
// An empty criteria scores 100 (a catch-all fits everyone).
func (c Criteria) ScoreProfile(p *candidate.Profile) int {
	if p == nil {
		return 0
	}

	var earned, possible float64

	if n := len(c.Skills); n > 0 {
		possible += weightSkills
		earned += weightSkills * float64(countSkillOverlap(c.Skills, p.Skills)) / float64(n)
	}

	if n := len(c.Categories); n > 0 {
		possible += weightCategories
		earned += weightCategories * float64(countCategoryOverlap(c.Categories, p.Specialisms)) / float64(n)
	}

	if c.City != nil {
		possible += weightCity
		if *c.City == p.City {
			earned += weightCity
		}
	}

	if c.Experience != nil {
		possible += weightExperience
		if *c.Experience == p.Experience {
			earned += weightExperience
		}
	}

	if c.Education != nil {
		possible += weightEducation
		if containsFold(p.Education, *c.Education) {
			earned += weightEducation
		}
	}

	if possible == 0 {
		return 100
	}
	return int(earned / possible * 100)
}

// ============================================================================
// Dimension helpers
// ============================================================================

func functionalAreasIntersect(want []kernel.FunctionalAreaID, have []kernel.FunctionalAreaID) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

func countSkillOverlap(want []kernel.SkillID, have []kernel.SkillID) int {
	count := 0
	for _, w := range want {
		for _, h := range have {
			if w == h {
				count++
				break
			}
		}
	}
	return count
}

func countCategoryOverlap(categories []string, specialisms []kernel.Specialism) int {
	count := 0
	for _, cat := range categories {
		for _, sp := range specialisms {
			if strings.Contains(string(sp), cat) {
				count++
				break
			}
		}
	}
	return count
}

func keywordsMatch(keywords []string, text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ============================================================================
// Salary parsing
// ============================================================================

var salaryTokenPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

func (r SalaryRange) matches(offered kernel.OfferedSalary) bool {
	// "Negotiable" postings skip the salary dimension entirely,
	// regardless of the requested range
	if string(offered) == SalaryNegotiable {
		return true
	}

	parsed := ParseOfferedSalary(offered)
	if parsed < r.Min {
		return false
	}
	if r.Max != nil && parsed > *r.Max {
		return false
	}
	return true
}

// ParseOfferedSalary extracts the first numeric token from a free-form
// offered-salary string and scales it from lakhs to rupees, so
// "₹5-10 LPA" parses to 500000. A string with no numeric token parses to
// 0, which fails any positive minimum. That mirrors long-standing
// behavior; see DESIGN.md before changing it.
func ParseOfferedSalary(offered kernel.OfferedSalary) int64 {
	token := salaryTokenPattern.FindString(string(offered))
	if token == "" {
		return 0
	}
	lakhs, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0
	}
	return int64(lakhs * 100000)
}
