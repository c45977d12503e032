package scrapbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
)

func TestParsePageURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		project string
		page    string
		wantErr bool
	}{
		{name: "simple", raw: "https://scrapbox.io/team/Links", project: "team", page: "Links"},
		{name: "underscores become spaces", raw: "https://scrapbox.io/team/Dev_Links", project: "team", page: "Dev Links"},
		{name: "percent decoded", raw: "https://scrapbox.io/team/%E9%96%8B%E7%99%BA", project: "team", page: "開発"},
		{name: "extra path segment", raw: "https://scrapbox.io/team/Links/extra", project: "team", page: "Links"},
		{name: "surrounding spaces", raw: "  https://scrapbox.io/team/Links  ", project: "team", page: "Links"},
		{name: "http accepted", raw: "http://scrapbox.io/team/Links", project: "team", page: "Links"},
		{name: "host case", raw: "https://Scrapbox.IO/team/Links", project: "team", page: "Links"},
		{name: "project only", raw: "https://scrapbox.io/team", wantErr: true},
		{name: "empty page", raw: "https://scrapbox.io/team/", wantErr: true},
		{name: "wrong host", raw: "https://example.com/team/Links", wantErr: true},
		{name: "wrong scheme", raw: "ftp://scrapbox.io/team/Links", wantErr: true},
		{name: "not a url", raw: "team/Links", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParsePageURL(tt.raw, "")
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidSourceURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.project, ref.Project)
			assert.Equal(t, tt.page, ref.Page)
		})
	}
}

func TestParsePageURLCustomHost(t *testing.T) {
	ref, err := ParsePageURL("https://wiki.internal/team/Links", "wiki.internal")
	require.NoError(t, err)
	assert.Equal(t, "wiki.internal", ref.Host)

	_, err = ParsePageURL("https://scrapbox.io/team/Links", "wiki.internal")
	require.ErrorIs(t, err, domain.ErrInvalidSourceURL)
}

func TestPageRefSlug(t *testing.T) {
	assert.Equal(t, "dev-links", PageRef{Page: "Dev Links"}.Slug())
	assert.Equal(t, "page", PageRef{Page: "!!!"}.Slug())
}
