package records

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/extract"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/recommend"
	"github.com/spigell/resume-matcher/internal/scoring"
	"github.com/spigell/resume-matcher/internal/taxonomy"
	"github.com/spigell/resume-matcher/internal/textnorm"
)

// Component ceilings of the rule-only score. They sum to 100.
const (
	maxSkills     = 30
	maxPosition   = 20
	maxEducation  = 10
	maxExperience = 5

	positionNeutral   = 10
	fieldRelevantBump = 3
	experienceOther   = 3
)

// Salary, location and experience statuses.
const (
	StatusMatch          = "match"
	StatusAboveBudget    = "above_budget"
	StatusBelowOffer     = "below_offer"
	StatusUnspecified    = "unspecified"
	StatusJobUnspecified = "job_unspecified"
	StatusRemote         = "remote"
	StatusMismatch       = "mismatch"
	StatusRelevant       = "relevant"
	StatusOther          = "other"
	StatusNone           = "none"
)

var (
	recordSalaryRange = regexp.MustCompile(`([0-9][0-9,]*)\s*(?:-|–|ถึง)\s*([0-9][0-9,]*)`)
	recordSalaryOne   = regexp.MustCompile(`([0-9][0-9,]{3,})`)
	openEndedMarkers  = []string{"ขึ้นไป", "+", "up"}
)

// degreePoints are checked in order; the first hit wins.
var degreePoints = []struct {
	level   profile.Degree
	markers []string
	points  float64
}{
	{profile.DegreeDoctorate, []string{"ปริญญาเอก", "doctor", "ph.d", "phd"}, 7},
	{profile.DegreeMaster, []string{"ปริญญาโท", "master"}, 7},
	{profile.DegreeBachelor, []string{"ปริญญาตรี", "bachelor"}, 6},
	{profile.DegreeHigherVocational, []string{"ปวส", "ประกาศนียบัตรวิชาชีพชั้นสูง"}, 5},
	{profile.DegreeVocational, []string{"ปวช", "ประกาศนียบัตรวิชาชีพ"}, 4},
	{profile.DegreeSecondary, []string{"มัธยม", "ม.6", "ม.3"}, 3},
}

const unknownDegreePoints = 2

type Breakdown struct {
	Skills     float64 `json:"skills"`
	Position   float64 `json:"position"`
	Salary     float64 `json:"salary"`
	Education  float64 `json:"education"`
	Location   float64 `json:"location"`
	Experience float64 `json:"experience"`
}

func (b Breakdown) total() float64 {
	return b.Skills + b.Position + b.Salary + b.Education + b.Location + b.Experience
}

type Details struct {
	MatchedSkills    []string            `json:"matched_skills"`
	MissingSkills    []string            `json:"missing_skills"`
	SkillCategories  map[string][]string `json:"skill_categories"`
	MatchedPositions []string            `json:"matched_positions"`
	Salary           SalaryDetail        `json:"salary"`
	Education        EducationDetail     `json:"education"`
	Location         LocationDetail      `json:"location"`
	Experience       ExperienceDetail    `json:"experience"`
}

type SalaryDetail struct {
	Status      string `json:"status"`
	Expected    int    `json:"expected"`
	ResumeRange string `json:"resume_range"`
}

type EducationDetail struct {
	Level         string `json:"level"`
	FieldRelevant bool   `json:"field_relevant"`
	Field         string `json:"field"`
}

type LocationDetail struct {
	Status   string `json:"status"`
	Province string `json:"province"`
}

type ExperienceDetail struct {
	Status     string `json:"status"`
	Experience string `json:"experience"`
}

// Match is the rule-only result for one record.
type Match struct {
	Record         Record         `json:"resume_data"`
	TotalScore     float64        `json:"total_score"`
	Breakdown      Breakdown      `json:"breakdown"`
	Details        Details        `json:"details"`
	Tier           recommend.Tier `json:"tier"`
	Recommendation string         `json:"recommendation"`
}

// Job is a job description prepared once for scoring many records.
type Job struct {
	Requirements scoring.JobRequirements
	Families     []string
	skills       []string
}

// Scorer is the rule-only scorer for flat records.
type Scorer struct {
	ext    *extract.Extractor
	engine *scoring.Engine
	tax    *taxonomy.Taxonomy
	logger *zap.Logger
}

func NewScorer(ext *extract.Extractor, engine *scoring.Engine, log *zap.Logger) *Scorer {
	return &Scorer{
		ext:    ext,
		engine: engine,
		tax:    ext.Taxonomy(),
		logger: logger.WithFields(log, zap.String(logger.FieldComponent, "records")),
	}
}

// Prepare analyzes a job description once.
func (s *Scorer) Prepare(job string) (*Job, error) {
	if strings.TrimSpace(job) == "" {
		return nil, scoring.ErrEmptyJobDescription
	}

	req := s.engine.AnalyzeJob(job)
	lower := textnorm.Lower(textnorm.Normalize(job))

	var skills []string
	for _, category := range s.tax.CategoryNames() {
		for _, token := range req.Skills[category] {
			skills = profile.AppendUnique(skills, token)
		}
	}

	return &Job{
		Requirements: req,
		Families:     s.families(lower),
		skills:       skills,
	}, nil
}

// Score prepares job and scores one record against it.
func (s *Scorer) Score(rec Record, job string) (*Match, error) {
	j, err := s.Prepare(job)
	if err != nil {
		return nil, err
	}
	return s.ScoreJob(rec, j), nil
}

// ScoreJob scores one record against a prepared job.
func (s *Scorer) ScoreJob(rec Record, j *Job) *Match {
	var b Breakdown
	var d Details

	recordText := strings.Join(values(rec.Position, rec.Field, rec.Experience), " ")
	recordSkills := s.ext.Skills(recordText)

	d.MatchedSkills, d.MissingSkills = []string{}, []string{}
	d.SkillCategories = map[string][]string{}
	owned := make(map[string]string)
	for category, tokens := range recordSkills {
		for _, t := range tokens {
			owned[t] = category
		}
	}
	for _, token := range j.skills {
		category, ok := owned[token]
		if !ok {
			d.MissingSkills = append(d.MissingSkills, token)
			continue
		}
		d.MatchedSkills = append(d.MatchedSkills, token)
		d.SkillCategories[category] = append(d.SkillCategories[category], token)
	}
	if len(j.skills) > 0 {
		b.Skills = maxSkills * float64(len(d.MatchedSkills)) / float64(len(j.skills))
	}

	b.Position, d.MatchedPositions = s.positionScore(rec, j)
	b.Salary, d.Salary = salaryScore(rec, j)
	b.Education, d.Education = s.educationScore(rec, j)
	b.Location, d.Location = s.locationScore(rec, j)
	b.Experience, d.Experience = s.experienceScore(rec, j)

	total := math.Round(math.Min(b.total(), 100)*100) / 100
	similarity := 0.0
	if len(j.skills) > 0 {
		similarity = float64(len(d.MatchedSkills)) / float64(len(j.skills))
	}
	advice := recommend.Recommend(total, similarity, len(d.MatchedSkills), len(d.MissingSkills))

	s.logger.Debug("record scored", zap.String("record", rec.ID), zap.Float64("total", total))

	return &Match{
		Record:         rec,
		TotalScore:     total,
		Breakdown:      b,
		Details:        d,
		Tier:           advice.Tier,
		Recommendation: advice.Text,
	}
}

func (s *Scorer) positionScore(rec Record, j *Job) (float64, []string) {
	matched := []string{}
	if len(j.Families) == 0 {
		return positionNeutral, matched
	}

	own := s.families(textnorm.Lower(strings.Join(values(rec.Position, rec.Experience), " ")))
	for _, f := range j.Families {
		if slices.Contains(own, f) {
			matched = append(matched, f)
		}
	}
	if len(matched) > 0 {
		return maxPosition, matched
	}
	return 0, matched
}

// families lists the position families whose keywords occur in lower.
func (s *Scorer) families(lower string) []string {
	var out []string
	for _, f := range s.tax.Positions {
		for _, k := range f.Keywords {
			if extract.ContainsToken(lower, strings.ToLower(k)) {
				out = append(out, f.Name)
				break
			}
		}
	}
	return out
}

// ParseSalary reads a listing salary such as "15,000 - 20,000" or
// "30,000 ขึ้นไป". Negotiable or empty salaries are unknown.
func ParseSalary(raw string) (profile.SalaryRange, bool) {
	if !has(raw) {
		return profile.SalaryRange{}, false
	}
	if m := recordSalaryRange.FindStringSubmatch(raw); m != nil {
		lo, okLo := atoi(m[1])
		hi, okHi := atoi(m[2])
		if okLo && okHi && lo > 0 && hi >= lo {
			return profile.SalaryRange{Min: lo, Max: hi}, true
		}
	}
	if m := recordSalaryOne.FindStringSubmatch(raw); m != nil {
		n, ok := atoi(m[1])
		if !ok || n == 0 {
			return profile.SalaryRange{}, false
		}
		r := profile.SalaryRange{Min: n, Max: n}
		lower := strings.ToLower(raw)
		for _, marker := range openEndedMarkers {
			if strings.Contains(lower, marker) {
				r.Max = math.MaxInt32
				break
			}
		}
		return r, true
	}
	return profile.SalaryRange{}, false
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	return n, err == nil
}

func salaryScore(rec Record, j *Job) (float64, SalaryDetail) {
	offer := j.Requirements.Salary
	detail := SalaryDetail{Expected: offer, ResumeRange: rec.Salary}

	candidate, known := ParseSalary(rec.Salary)
	score := scoring.SalaryScore(offer, candidate, known)

	switch {
	case offer <= 0:
		detail.Status = StatusJobUnspecified
	case !known:
		detail.Status = StatusUnspecified
	case candidate.Contains(offer):
		detail.Status = StatusMatch
	case candidate.Min > offer:
		detail.Status = StatusAboveBudget
	default:
		detail.Status = StatusBelowOffer
	}
	return score, detail
}

func (s *Scorer) educationScore(rec Record, j *Job) (float64, EducationDetail) {
	detail := EducationDetail{Field: rec.Field}
	if !has(rec.Degree) {
		return 0, detail
	}

	lower := strings.ToLower(rec.Degree)
	points := float64(unknownDegreePoints)
	detail.Level = rec.Degree
	for _, d := range degreePoints {
		if containsAnyOf(lower, d.markers) {
			points = d.points
			detail.Level = string(d.level)
			break
		}
	}

	detail.FieldRelevant = s.fieldRelevant(rec.Field, j)
	if detail.FieldRelevant {
		points += fieldRelevantBump
	}
	return math.Min(points, maxEducation), detail
}

// fieldRelevant reports whether the field of study fits one of the job's
// position families or names a skill the job asks for.
func (s *Scorer) fieldRelevant(field string, j *Job) bool {
	if !has(field) {
		return false
	}
	lower := textnorm.Lower(field)
	for _, family := range j.Families {
		for _, k := range s.tax.StudyFields[family] {
			if extract.ContainsToken(lower, strings.ToLower(k)) {
				return true
			}
		}
	}
	for _, token := range j.skills {
		if extract.ContainsToken(lower, token) {
			return true
		}
	}
	return false
}

func (s *Scorer) locationScore(rec Record, j *Job) (float64, LocationDetail) {
	detail := LocationDetail{Province: rec.Province}

	p := &profile.Profile{}
	if has(rec.Province) {
		p.Contact.Province = s.tax.CanonicalProvince(rec.Province)
	}
	score := scoring.LocationScore(s.tax, j.Requirements, p)

	switch {
	case len(j.Requirements.Provinces) == 0:
		detail.Status = StatusJobUnspecified
	case p.Contact.Province == "":
		detail.Status = StatusUnspecified
	case slices.Contains(j.Requirements.Provinces, p.Contact.Province):
		detail.Status = StatusMatch
	case score > 0:
		detail.Status = StatusRemote
	default:
		detail.Status = StatusMismatch
	}
	return score, detail
}

func (s *Scorer) experienceScore(rec Record, j *Job) (float64, ExperienceDetail) {
	detail := ExperienceDetail{Experience: rec.Experience}
	if !has(rec.Experience) {
		detail.Status = StatusNone
		return 0, detail
	}

	own := s.families(textnorm.Lower(rec.Experience))
	for _, f := range j.Families {
		if slices.Contains(own, f) {
			detail.Status = StatusRelevant
			return maxExperience, detail
		}
	}
	detail.Status = StatusOther
	return experienceOther, detail
}

func values(fields ...string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if has(f) {
			out = append(out, f)
		}
	}
	return out
}

func containsAnyOf(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
