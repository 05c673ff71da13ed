package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibility_Apply(t *testing.T) {
	tests := []struct {
		name  string
		start Visibility
		event NavEvent
		want  Visibility
	}{
		{"toggle opens", VisibilityClosed, NavEventToggle, VisibilityOpen},
		{"toggle closes", VisibilityOpen, NavEventToggle, VisibilityClosed},
		{"select closes", VisibilityOpen, NavEventSelect, VisibilityClosed},
		{"select while closed stays closed", VisibilityClosed, NavEventSelect, VisibilityClosed},
		{"dismiss closes", VisibilityOpen, NavEventDismiss, VisibilityClosed},
		{"unknown event keeps state", VisibilityOpen, NavEvent("hover"), VisibilityOpen},
		{"garbage state normalizes", Visibility("half"), NavEvent("hover"), VisibilityClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.start.Apply(tt.event))
		})
	}
}

func TestVisibility_DoubleToggleRestores(t *testing.T) {
	for _, v := range []Visibility{VisibilityClosed, VisibilityOpen} {
		assert.Equal(t, v, v.Toggle().Toggle())
	}
}

func TestParseVisibility(t *testing.T) {
	assert.Equal(t, VisibilityOpen, ParseVisibility("open"))
	assert.Equal(t, VisibilityClosed, ParseVisibility("closed"))
	assert.Equal(t, VisibilityClosed, ParseVisibility(""))
	assert.Equal(t, VisibilityClosed, ParseVisibility("OPEN!"))
}

func TestParseNavEvent(t *testing.T) {
	for _, s := range []string{"toggle", "select", "dismiss"} {
		ev, err := ParseNavEvent(s)
		require.NoError(t, err)
		assert.Equal(t, NavEvent(s), ev)
	}

	_, err := ParseNavEvent("explode")
	assert.Equal(t, EINVALID, ErrorCode(err))
}

func TestCategory(t *testing.T) {
	c := Category{ID: "news", Label: "Tin tức"}
	assert.Equal(t, "/posts/news", c.Route())
	assert.NoError(t, c.Validate())

	assert.Error(t, Category{ID: "News", Label: "x"}.Validate())
	assert.Error(t, Category{ID: "../x", Label: "x"}.Validate())
	assert.Error(t, Category{ID: "news"}.Validate())

	found, ok := FindCategory([]Category{{ID: "about"}, c}, "news")
	assert.True(t, ok)
	assert.Equal(t, c, found)

	_, ok = FindCategory(nil, "news")
	assert.False(t, ok)
}
