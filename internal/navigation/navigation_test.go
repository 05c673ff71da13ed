package navigation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_OrderAndRoutes(t *testing.T) {
	cats, err := Default()
	require.NoError(t, err)
	require.Len(t, cats, 4)

	ids := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"news", "promotion", "announcement", "about"}, ids)
	assert.Equal(t, "/posts/promotion", cats[1].Route())
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "categories: []"},
		{"duplicate", "categories:\n  - {id: news, label: A}\n  - {id: news, label: B}"},
		{"bad id", "categories:\n  - {id: 'News Feed', label: A}"},
		{"missing label", "categories:\n  - {id: news}"},
		{"not yaml", "categories: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - {id: deals, label: Deals, icon: tag}\n"), 0o644))

	cats, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "deals", cats[0].ID)
	assert.Equal(t, "tag", cats[0].Icon)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
