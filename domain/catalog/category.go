// Package catalog provides domain types for the book catalog.
package catalog

// Category groups books by subject. Names come from the ingestion source,
// truncated to two levels (e.g. "국내도서 > 소설/시/희곡").
type Category struct {
	id   int64
	name string
}

// NewCategory creates a category that has not been persisted yet.
func NewCategory(name string) Category {
	return Category{name: name}
}

// ReconstructCategory recreates a category from persistence.
func ReconstructCategory(id int64, name string) Category {
	return Category{id: id, name: name}
}

// ID returns the category's database identifier.
func (c Category) ID() int64 { return c.id }

// Name returns the category name.
func (c Category) Name() string { return c.name }

// IsZero reports whether the category is unset.
func (c Category) IsZero() bool { return c.id == 0 && c.name == "" }
