package shared

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string
	Active  *bool

	// Entity specific filters
	CountryID *int64
	ZoneID    *int64
	CityID    *int64
	ParentID  *int64
}

// Offset derives the SQL offset, never negative.
func (f ListFilters) Offset() int {
	offset := (f.Page - 1) * f.Limit
	if offset < 0 {
		return 0
	}
	return offset
}
