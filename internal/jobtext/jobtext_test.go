package jobtext

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-matcher/internal/scoring"
)

const jobAd = `<html><head><title>Python Developer</title><style>.x{}</style></head>
<body>
<nav>Home | Jobs</nav>
<div class="job-description">
  <h1>Python   Developer</h1>
  <p>ต้องการ python developer</p>
  <script>track()</script>
  <p>เงินเดือน 30,000 บาท</p>
</div>
<footer>© Company</footer>
</body></html>`

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := filepath.Join(dir, "job.txt")
	require.NoError(t, os.WriteFile(txt, []byte("  from file \n"), 0o644))
	html := filepath.Join(dir, "job.html")
	require.NoError(t, os.WriteFile(html, []byte(jobAd), 0o644))
	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte(" \n "), 0o644))

	tests := []struct {
		name    string
		src     Source
		want    string
		wantErr error
	}{
		{name: "inline", src: Source{Inline: "  python developer "}, want: "python developer"},
		{name: "file wins", src: Source{Inline: "inline", File: txt}, want: "from file"},
		{name: "html", src: Source{File: html}, want: "Python Developer\nต้องการ python developer\nเงินเดือน 30,000 บาท"},
		{name: "nothing", src: Source{}, wantErr: scoring.ErrEmptyJobDescription},
		{name: "empty file", src: Source{Inline: "ignored", File: empty}, wantErr: scoring.ErrEmptyJobDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Load(tt.src)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Load(Source{File: filepath.Join(dir, "missing.txt")})
	assert.ErrorContains(t, err, "missing.txt")
}

func TestFromHTMLFallsBackToBody(t *testing.T) {
	t.Parallel()

	got, err := FromHTML(strings.NewReader("<html><body><header>menu</header><p>ต้องการ  บัญชี</p></body></html>"))
	require.NoError(t, err)
	assert.Equal(t, "ต้องการ บัญชี", got)
}
