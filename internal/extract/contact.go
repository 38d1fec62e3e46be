package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/textnorm"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`0[0-9]{1,2}[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`),
		regexp.MustCompile(`\+66[-.\s]?[0-9]{1,2}[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`),
		regexp.MustCompile(`\(\d{3}\)\s?\d{3}[-.\s]?\d{4}`),
	}
	phoneNoise = regexp.MustCompile(`[^\d+]`)

	zipPattern     = regexp.MustCompile(`\b[1-9][0-9]{4}\b`)
	addressPattern = regexp.MustCompile(`ที่อยู่[:\s]*([^\n]{10,100})`)

	nameRules = rules(pickName,
		`ชื่อ[:\s]*([^\n\r\t]{2,20})\s+นามสกุล[:\s]*([^\n\r\t]{2,20})`,
		`ชื่อ-นามสกุล[:\s]*([^\n\r\t]{2,40})`,
		`(?i)full name[:\s]*([A-Za-z ]{5,30})`,
		`(?i)\bname[:\s]*([A-Za-z ]{5,30})`,
	)

	ageRules = rules(pickAge,
		`อายุ\s*(\d+)\s*ปี`,
		`(?i)\bage[:\s]*(\d{2})\b`,
	)
	genderPattern  = regexp.MustCompile(`(?i)\bgender[:\s]*(male|female)\b`)
	maritalPattern = regexp.MustCompile(`(?i)\bmarital status[:\s]*(single|married)\b`)
)

func pickName(m match) (string, bool) {
	name := strings.TrimSpace(m.Group(1))
	if last := strings.TrimSpace(m.Group(2)); last != "" {
		name += " " + last
	}
	if textnorm.RuneLen(name) < 2 {
		return "", false
	}
	return name, true
}

func pickAge(m match) (int, bool) {
	age, err := strconv.Atoi(m.Group(1))
	if err != nil || age < MinAge || age > MaxAge {
		return 0, false
	}
	return age, true
}

// Contact extracts name, e-mail, phone and address details.
func (e *Extractor) Contact(text string) profile.Contact {
	return guard(e.logger, "contact", func() profile.Contact {
		return e.contact(text)
	})
}

func (e *Extractor) contact(text string) profile.Contact {
	var c profile.Contact

	for _, email := range emailPattern.FindAllString(text, -1) {
		c.Emails = profile.AppendUnique(c.Emails, email)
	}
	if len(c.Emails) > 0 {
		c.Email = c.Emails[0]
	}

	for _, re := range phonePatterns {
		for _, raw := range re.FindAllString(text, -1) {
			phone := phoneNoise.ReplaceAllString(raw, "")
			if len(phone) >= 9 {
				c.Phones = profile.AppendUnique(c.Phones, phone)
			}
		}
	}
	if len(c.Phones) > 0 {
		c.Phone = c.Phones[0]
	}

	if m := addressPattern.FindStringSubmatch(text); m != nil {
		c.Address = strings.TrimSpace(m[1])
	}

	c.Province = e.firstProvince(c.Address)
	if c.Province == "" {
		c.Province = e.firstProvince(text)
	}

	c.Zip = e.zipCode(text, c.Address)
	c.Name, _ = nameRules.first(text)

	return c
}

func (e *Extractor) firstProvince(text string) string {
	if text == "" {
		return ""
	}
	for _, province := range e.tax.Provinces {
		if strings.Contains(text, province) {
			return province
		}
	}
	return ""
}

// zipCode looks in the address first and then in any line naming a
// province. Bare five-digit numbers elsewhere are usually salaries.
func (e *Extractor) zipCode(text, address string) string {
	if zip := zipPattern.FindString(address); zip != "" {
		return zip
	}
	for _, line := range strings.Split(text, "\n") {
		if e.firstProvince(line) == "" {
			continue
		}
		if zip := zipPattern.FindString(line); zip != "" {
			return zip
		}
	}
	return ""
}

// Personal extracts age, gender and marital status.
func (e *Extractor) Personal(text string) profile.Personal {
	return guard(e.logger, "personal", func() profile.Personal {
		var p profile.Personal

		p.Age, _ = ageRules.first(text)

		switch {
		case containsAny(text, "เพศ หญิง", "เพศหญิง"):
			p.Gender = "หญิง"
		case containsAny(text, "เพศ ชาย", "เพศชาย"):
			p.Gender = "ชาย"
		default:
			if m := genderPattern.FindStringSubmatch(text); m != nil {
				p.Gender = map[string]string{"male": "ชาย", "female": "หญิง"}[strings.ToLower(m[1])]
			}
		}

		switch {
		case strings.Contains(text, "โสด"):
			p.MaritalStatus = "โสด"
		case strings.Contains(text, "สมรส"):
			p.MaritalStatus = "สมรส"
		default:
			if m := maritalPattern.FindStringSubmatch(text); m != nil {
				p.MaritalStatus = map[string]string{"single": "โสด", "married": "สมรส"}[strings.ToLower(m[1])]
			}
		}

		return p
	})
}
