package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		url  string
		want ResourceCategory
	}{
		{"uploads/resources/photo.JPG", CategoryImage},
		{"uploads/resources/a.webp", CategoryImage},
		{"uploads/resources/notes.pdf", CategoryPDF},
		{"uploads/resources/readme.md", CategoryText},
		{"uploads/resources/app.tsx?v=2", CategoryText},
		{"uploads/resources/archive.zip", CategoryOther},
		{"uploads/resources/noext", CategoryOther},
		{PlaceholderURL, CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryOf(tt.url))
		})
	}
}

func TestPreviewable(t *testing.T) {
	assert.True(t, CategoryImage.Previewable())
	assert.True(t, CategoryPDF.Previewable())
	assert.True(t, CategoryText.Previewable())
	assert.False(t, CategoryOther.Previewable())
}

func TestModules(t *testing.T) {
	resources := []Resource{
		{ID: "1", Module: "英语"},
		{ID: "2", Module: "数学"},
		{ID: "3", Module: "英语"},
	}
	assert.Equal(t, []string{"英语", "数学"}, Modules(resources))
	assert.Empty(t, Modules(nil))
}
