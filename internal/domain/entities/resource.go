package entities

import (
	"path"
	"strings"
)

// AllModules is the module filter that disables filtering.
const AllModules = "所有"

// PlaceholderURL marks a locally uploaded resource whose server path is not known yet.
const PlaceholderURL = "#"

// Resource is a study file stored by the backend.
type Resource struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Module      string `json:"module"`
	URL         string `json:"url"` // storage-relative path
	Date        string `json:"date"`
	Provisional bool   `json:"provisional,omitempty"`
}

// ResourceCategory is the display class derived from the file extension.
type ResourceCategory string

const (
	CategoryImage ResourceCategory = "image"
	CategoryPDF   ResourceCategory = "pdf"
	CategoryText  ResourceCategory = "text"
	CategoryOther ResourceCategory = "other"
)

var categoryByExt = map[string]ResourceCategory{
	"jpg":  CategoryImage,
	"jpeg": CategoryImage,
	"png":  CategoryImage,
	"gif":  CategoryImage,
	"bmp":  CategoryImage,
	"webp": CategoryImage,
	"pdf":  CategoryPDF,
	"txt":  CategoryText,
	"md":   CategoryText,
	"js":   CategoryText,
	"ts":   CategoryText,
	"jsx":  CategoryText,
	"tsx":  CategoryText,
	"html": CategoryText,
	"css":  CategoryText,
	"json": CategoryText,
}

// Category classifies the resource by the extension of its url.
func (r Resource) Category() ResourceCategory {
	return CategoryOf(r.URL)
}

// CategoryOf classifies a storage path or url by its extension.
// Query strings and fragments are ignored.
func CategoryOf(u string) ResourceCategory {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(u), "."))
	if c, ok := categoryByExt[ext]; ok {
		return c
	}
	return CategoryOther
}

// Previewable reports whether the category can be shown inline.
func (c ResourceCategory) Previewable() bool {
	return c == CategoryImage || c == CategoryPDF || c == CategoryText
}

// Modules returns the distinct module names in first-seen order.
func Modules(resources []Resource) []string {
	seen := make(map[string]struct{}, len(resources))
	modules := make([]string, 0, len(resources))
	for _, r := range resources {
		if _, ok := seen[r.Module]; ok {
			continue
		}
		seen[r.Module] = struct{}{}
		modules = append(modules, r.Module)
	}
	return modules
}
