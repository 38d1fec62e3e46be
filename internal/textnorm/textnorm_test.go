package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "empty stays empty",
			input:  "",
			expect: "",
		},
		{
			name:   "control and zero width removed",
			input:  "Py\x07thon\u200b dev\ufeff",
			expect: "Python dev",
		},
		{
			name:   "horizontal whitespace collapsed and lines trimmed",
			input:  "  ชื่อ   สมชาย \t ใจดี  \n   อายุ 25 ปี  ",
			expect: "ชื่อ สมชาย ใจดี\nอายุ 25 ปี",
		},
		{
			name:   "blank line runs shrink to one",
			input:  "a\n\n\n\n b",
			expect: "a\n\nb",
		},
		{
			name:   "windows line endings",
			input:  "line1\r\nline2\rline3",
			expect: "line1\nline2\nline3",
		},
		{
			name:   "repair table",
			input:  "เกรดเฉล ีย 3.50 เทคน ิก",
			expect: "เกรดเฉลี่ย 3.50 เทคนิค",
		},
		{
			name:   "split combining marks rejoined",
			input:  "คอมพ ิวเตอร ์ และ ซอฟต ์แวร์",
			expect: "คอมพิวเตอร์ และ ซอฟต์แวร์",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, Normalize(tt.input))
		})
	}
}

func TestRepairThaiKeepsWordSpacing(t *testing.T) {
	t.Parallel()

	// spaces between whole Thai words are not touched
	assert.Equal(t, "บริษัท ดีมาก", RepairThai("บร ิษัท ดีมาก"))
}

func TestLower(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "python และ react", Lower("PYTHON และ React"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "สวัส...", Truncate("สวัสดีครับ", 4))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc", Truncate("abc", 0))
}

func TestHasThai(t *testing.T) {
	t.Parallel()

	assert.True(t, HasThai("path/สวัสดี"))
	assert.False(t, HasThai("https://example.com"))
}
