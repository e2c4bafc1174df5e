package urlnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "already canonical",
			raw:  "https://example.com/about",
			want: "https://example.com/about",
		},
		{
			name: "upper case scheme and host",
			raw:  "HTTPS://Example.COM/about",
			want: "https://example.com/about",
		},
		{
			name: "default https port stripped",
			raw:  "https://example.com:443/a",
			want: "https://example.com/a",
		},
		{
			name: "default http port stripped",
			raw:  "http://example.com:80/a",
			want: "http://example.com/a",
		},
		{
			name: "non-default port kept",
			raw:  "https://example.com:8443/a",
			want: "https://example.com:8443/a",
		},
		{
			name: "fragment stripped",
			raw:  "https://example.com/about#team",
			want: "https://example.com/about",
		},
		{
			name: "empty path becomes root",
			raw:  "https://example.com",
			want: "https://example.com/",
		},
		{
			name: "trailing slash trimmed",
			raw:  "https://example.com/about/",
			want: "https://example.com/about",
		},
		{
			name: "root path untouched",
			raw:  "https://example.com/",
			want: "https://example.com/",
		},
		{
			name: "query preserved",
			raw:  "https://example.com/search?q=go",
			want: "https://example.com/search?q=go",
		},
		{
			name:    "unsupported scheme",
			raw:     "mailto:team@example.com",
			wantErr: true,
		},
		{
			name:    "javascript scheme",
			raw:     "javascript:void(0)",
			wantErr: true,
		},
		{
			name:    "relative without base",
			raw:     "/about",
			wantErr: true,
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "unparsable",
			raw:     "https://exa mple.com/%zz",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNormalizeRef(t *testing.T) {
	base, err := Normalize("https://example.com/docs/intro")
	require.NoError(t, err)

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "absolute path", raw: "/about", want: "https://example.com/about"},
		{name: "relative path", raw: "setup", want: "https://example.com/docs/setup"},
		{name: "parent path", raw: "../pricing", want: "https://example.com/pricing"},
		{name: "protocol relative", raw: "//example.com/x", want: "https://example.com/x"},
		{name: "absolute overrides base", raw: "https://external.com/x", want: "https://external.com/x"},
		{name: "fragment only collapses to base", raw: "#section", want: "https://example.com/docs/intro"},
		{name: "mailto against base", raw: "mailto:hi@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRef(tt.raw, base)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"HTTPS://Example.com:443/a/",
		"http://example.com",
		"https://example.com/about#x",
		"https://example.com/search?q=go",
	}
	for _, raw := range inputs {
		once, err := Normalize(raw)
		require.NoError(t, err)
		twice, err := Normalize(once.String())
		require.NoError(t, err)
		assert.Equal(t, once, twice, "normalizing %q twice changed the result", raw)
	}
}

func TestNormalizeEquivalence(t *testing.T) {
	a, err := Normalize("https://Example.com:443/a")
	require.NoError(t, err)
	b, err := Normalize("https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHost(t *testing.T) {
	u, err := Normalize("https://Example.com:8443/about")
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host())
}

func TestInScope(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		seedHost string
		want     bool
	}{
		{name: "same host", url: "https://example.com/about", seedHost: "example.com", want: true},
		{name: "other domain", url: "https://external.com/x", seedHost: "example.com", want: false},
		{name: "subdomain is out of scope", url: "https://blog.example.com/post", seedHost: "example.com", want: false},
		{name: "parent domain is out of scope", url: "https://example.com/x", seedHost: "blog.example.com", want: false},
		{name: "seed host case folded", url: "https://example.com/", seedHost: "Example.COM", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Normalize(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, InScope(u, tt.seedHost))
		})
	}
}
