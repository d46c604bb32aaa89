package entity

// Category is a label a list offers to its items.
type Category struct {
	Name string `json:"name"`
}

// Record is a list or an item as returned by the backend. Lists carry Categories;
// items carry Done, Comments and CategoryName. Missing optional fields decode to
// their zero values.
type Record struct {
	GUID         string     `json:"guid"`
	Name         string     `json:"name"`
	Done         bool       `json:"done,omitempty"`
	Comments     string     `json:"comments,omitempty"`
	CategoryName string     `json:"category_name,omitempty"`
	Categories   []Category `json:"categories,omitempty"`
}

// HasComments reports whether the record carries a non-empty comments field.
func (r Record) HasComments() bool {
	return r.Comments != ""
}

// HasCategories reports whether the record (a list) defines at least one category.
func (r *Record) HasCategories() bool {
	return r != nil && len(r.Categories) > 0
}

// ShortGUID returns the display prefix of the identifier.
func (r Record) ShortGUID() string {
	const displayLength = 8
	if len(r.GUID) <= displayLength {
		return r.GUID
	}
	return r.GUID[:displayLength]
}
