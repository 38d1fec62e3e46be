// Package profile defines the candidate profile produced by extraction and
// consumed by scoring. Profiles are built once and treated as read-only.
package profile

// Degree is a normalized education level.
type Degree string

const (
	DegreeDoctorate        Degree = "ปริญญาเอก"
	DegreeMaster           Degree = "ปริญญาโท"
	DegreeBachelor         Degree = "ปริญญาตรี"
	DegreeHigherVocational Degree = "ปวส"
	DegreeVocational       Degree = "ปวช"
	DegreeSecondary        Degree = "มัธยมศึกษา"
)

// Labels shared by extractors and reports.
const (
	DurationUnknown    = "ไม่ทราบ"
	NoExperience       = "ไม่มีประสบการณ์"
	PositionUnknown    = "ไม่ระบุ"
	JobTypeUnspecified = "ไม่ระบุ"
)

// Salary periods.
const (
	PeriodMonthly = "monthly"
	PeriodHourly  = "hourly"
)

type Profile struct {
	Contact           Contact             `json:"contact"`
	Personal          Personal            `json:"personal"`
	Education         []EducationEntry    `json:"education"`
	WorkExperience    []WorkEntry         `json:"work_experience"`
	TotalExperience   string              `json:"total_experience"`
	Skills            map[string][]string `json:"skills"`
	Responsibilities  []string            `json:"responsibilities"`
	SalaryExpectation *SalaryRange        `json:"salary_expectation,omitempty"`
	ExpectedSalary    *ExpectedSalary     `json:"expected_salary,omitempty"`
	Certifications    []Certification     `json:"certifications"`
	LanguageSkills    []LanguageSkill     `json:"language_skills"`
	DrivingSkills     DrivingSkills       `json:"driving_skills"`
	SpecialAbilities  []string            `json:"special_abilities"`
	Links             []string            `json:"links"`
	LinkDetails       []Link              `json:"link_details"`
	DesiredPosition   string              `json:"desired_position,omitempty"`
	PreferredLocation Location            `json:"preferred_location"`
	PreferredJobType  []string            `json:"preferred_job_type"`
	AvailableStart    *StartDate          `json:"available_start_date,omitempty"`
	Summary           string              `json:"summary"`
}

type Contact struct {
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
	Emails   []string `json:"emails,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Phones   []string `json:"phones,omitempty"`
	Address  string   `json:"address,omitempty"`
	Province string   `json:"province,omitempty"`
	Zip      string   `json:"zip,omitempty"`
}

type Personal struct {
	Age           int    `json:"age,omitempty"`
	Gender        string `json:"gender,omitempty"`
	MaritalStatus string `json:"marital_status,omitempty"`
}

type EducationEntry struct {
	Degree Degree   `json:"degree"`
	Field  string   `json:"field"`
	GPA    *float64 `json:"gpa,omitempty"`
	Honor  string   `json:"honor,omitempty"`
}

type WorkEntry struct {
	Position  string `json:"position"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Duration  string `json:"duration"`
	Salary    int    `json:"salary,omitempty"`
}

// SalaryRange is a monthly amount in baht. Max equals Min for a single value.
type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether amount lies inside the range.
func (r SalaryRange) Contains(amount int) bool {
	return amount >= r.Min && amount <= r.Max
}

type ExpectedSalary struct {
	Min       int    `json:"min"`
	Max       int    `json:"max,omitempty"`
	RangeText string `json:"range_text"`
	Period    string `json:"period"`
}

type Certification struct {
	Name string `json:"name"`
	Year string `json:"year,omitempty"`
}

type LanguageSkill struct {
	Language  string     `json:"language"`
	Speaking  string     `json:"speaking,omitempty"`
	Reading   string     `json:"reading,omitempty"`
	Writing   string     `json:"writing,omitempty"`
	Level     string     `json:"level,omitempty"`
	TestScore *TestScore `json:"test_score,omitempty"`
}

// TestScore is a standardized English test result such as TOEIC 750.
type TestScore struct {
	Test  string  `json:"test"`
	Score float64 `json:"score"`
}

type DrivingSkills struct {
	CanDrive    []string `json:"can_drive"`
	OwnsVehicle []string `json:"owns_vehicle"`
}

type Link struct {
	URL    string `json:"url"`
	Type   string `json:"type"`
	Domain string `json:"domain"`
}

type Location struct {
	Provinces         []string `json:"provinces"`
	Areas             []string `json:"areas"`
	SpecificLocations []string `json:"specific_locations"`
	Preferences       []string `json:"preferences"`
}

type StartDate struct {
	RawText       string `json:"raw_text"`
	Availability  string `json:"availability,omitempty"`
	Date          string `json:"date,omitempty"`
	EstimatedDate string `json:"estimated_date,omitempty"`
}

// Language names as they appear in profiles.
const (
	LanguageThai    = "ไทย"
	LanguageEnglish = "อังกฤษ"
)

// Proficiency levels, weakest first.
const (
	LevelBasic        = "basic"
	LevelIntermediate = "intermediate"
	LevelFluent       = "fluent"
)

// Location preference labels.
const (
	PreferenceRemote   = "Remote/Work from home"
	PreferenceAbroad   = "ต่างประเทศ"
	PreferenceRelocate = "สามารถย้ายที่ทำงานได้"
)

// HighestEducation returns the first education entry, which extraction
// orders highest first.
func (p *Profile) HighestEducation() (EducationEntry, bool) {
	if p == nil || len(p.Education) == 0 {
		return EducationEntry{}, false
	}
	return p.Education[0], true
}

// ExperienceYears returns the whole years in TotalExperience.
func (p *Profile) ExperienceYears() int {
	if p == nil {
		return 0
	}
	years, _ := ParseDuration(p.TotalExperience)
	return years
}

// Provinces lists every province the candidate is tied to: preferred ones
// first, then the contact province.
func (p *Profile) Provinces() []string {
	if p == nil {
		return nil
	}
	out := append([]string(nil), p.PreferredLocation.Provinces...)
	if p.Contact.Province != "" {
		out = AppendUnique(out, p.Contact.Province)
	}
	return out
}

// English returns the English language entry, if any.
func (p *Profile) English() (LanguageSkill, bool) {
	if p == nil {
		return LanguageSkill{}, false
	}
	for _, l := range p.LanguageSkills {
		if l.Language == LanguageEnglish {
			return l, true
		}
	}
	return LanguageSkill{}, false
}

// SkillSet flattens the skill map into a set.
func (p *Profile) SkillSet() map[string]struct{} {
	set := make(map[string]struct{})
	if p == nil {
		return set
	}
	for _, tokens := range p.Skills {
		for _, t := range tokens {
			set[t] = struct{}{}
		}
	}
	return set
}

// AppendUnique appends v unless it is already present.
func AppendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
