// Package recommend maps a match score onto a recruiter-facing recommendation.
// The ladder cut-points are used by recruiters for calibration and must not
// be moved.
package recommend

import (
	"fmt"
	"slices"
	"strings"
)

type Tier string

const (
	TierInterviewNow      Tier = "interview_immediately"
	TierInterview         Tier = "interview"
	TierConsiderAssess    Tier = "consider_assess"
	TierConsiderTrainable Tier = "consider_trainable"
	TierConsiderCautious  Tier = "consider_cautious"
	TierNotRecommended    Tier = "not_recommended"
)

const (
	textInterviewNow      = "✅ แนะนำเรียกสัมภาษณ์ทันที - ผู้สมัครมีคุณสมบัติตรงตามความต้องการสูงมาก"
	textInterview         = "✅ แนะนำเรียกสัมภาษณ์ - ทักษะตรงตามที่ต้องการและมีความคล้ายคลึงสูง"
	textConsiderAssess    = "⚠️ พิจารณาเรียกสัมภาษณ์ - ผู้สมัครมีคุณสมบัติดี แต่ควรประเมินทักษะเพิ่มเติม"
	textConsiderTrainable = "🔶 พิจารณาได้ - ขาดทักษะเพียงเล็กน้อย สามารถฝึกอบรมได้"
	textConsiderCautious  = "⚠️ พิจารณาอย่างรอบคอบ - ขาดทักษะสำคัญ %d รายการ"
	textNotRecommended    = "❌ ไม่แนะนำ - ทักษะไม่ตรงกับความต้องการของงาน"
)

type Recommendation struct {
	Tier Tier   `json:"tier"`
	Text string `json:"text"`
}

// Recommend is a pure function of the total score, the vector similarity and
// the matching and missing skill counts.
func Recommend(total, similarity float64, matching, missing int) Recommendation {
	switch {
	case total >= 85:
		return Recommendation{TierInterviewNow, textInterviewNow}
	case total >= 70:
		if similarity >= 0.7 {
			return Recommendation{TierInterview, textInterview}
		}
		return Recommendation{TierConsiderAssess, textConsiderAssess}
	case total >= 55:
		if missing <= 3 {
			return Recommendation{TierConsiderTrainable, textConsiderTrainable}
		}
		return Recommendation{TierConsiderCautious, fmt.Sprintf(textConsiderCautious, missing)}
	case similarity >= 0.1:
		switch {
		case matching >= 2 && missing == 0:
			return Recommendation{TierInterview, textInterview}
		case matching >= 2 && missing <= 2:
			return Recommendation{TierConsiderAssess, textConsiderAssess}
		}
	}

	return Recommendation{TierNotRecommended, textNotRecommended}
}

// Details carries the scoring facts rendered by Explain.
type Details struct {
	Total             float64
	VectorSimilarity  float64
	Matching          []string
	Missing           []string
	CategoryBreakdown map[string]float64
	Education         float64
	Experience        float64
	Language          float64
}

const (
	explainMatching = 5
	explainMissing  = 3
)

// Explain renders the one-line explanation shown next to a candidate.
func Explain(rec Recommendation, d Details) string {
	parts := []string{
		"🎯 " + rec.Text,
		fmt.Sprintf("📊 คะแนนรวม: %.1f%%", d.Total),
		fmt.Sprintf("🔢 ความคล้ายคลึงทักษะ: %.1f%%", d.VectorSimilarity*100),
	}

	if len(d.Matching) > 0 {
		parts = append(parts, "✅ ทักษะที่ตรง: "+head(d.Matching, explainMatching))
	}
	if len(d.Missing) > 0 {
		parts = append(parts, "❌ ทักษะที่ขาด: "+head(d.Missing, explainMissing))
	}

	categories := make([]string, 0, len(d.CategoryBreakdown))
	for name, pct := range d.CategoryBreakdown {
		if pct > 0 {
			categories = append(categories, name)
		}
	}
	if len(categories) > 0 {
		slices.Sort(categories)
		items := make([]string, 0, len(categories))
		for _, name := range categories {
			items = append(items, fmt.Sprintf("%s: %.0f%%", name, d.CategoryBreakdown[name]))
		}
		parts = append(parts, "📈 ความตรงกันตามหมวดหมู่: "+strings.Join(items, ", "))
	}

	parts = append(parts,
		fmt.Sprintf("🎓 คะแนนการศึกษา: %.0f", d.Education),
		fmt.Sprintf("💼 คะแนนประสบการณ์: %.0f", d.Experience),
	)
	if d.Language != 0 {
		parts = append(parts, fmt.Sprintf("🌐 คะแนนภาษา: %.1f", d.Language))
	}

	return strings.Join(parts, " | ")
}

func head(items []string, n int) string {
	if len(items) <= n {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:n], ", ") + "..."
}
