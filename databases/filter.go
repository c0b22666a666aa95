package databases

import (
	"fmt"
	"sort"
)

// Filter is the set of databases a search is restricted to. The zero value
// searches all of them.
type Filter struct {
	selected []Database
}

// NewFilter builds a filter from database codes. Duplicates are dropped and
// the result is ordered like the catalogue, unknown codes last.
func NewFilter(codes ...int) Filter {
	seen := make(map[int]bool, len(codes))
	var dbs []Database
	for _, code := range codes {
		if code < 0 || seen[code] {
			continue
		}
		seen[code] = true
		db, ok := Lookup(code)
		if !ok {
			db = Database{Code: code, Name: fmt.Sprintf("Database #%d", code)}
		}
		dbs = append(dbs, db)
	}
	sort.SliceStable(dbs, func(i, j int) bool {
		return rank(dbs[i].Code) < rank(dbs[j].Code)
	})
	return Filter{selected: dbs}
}

// FromNames builds a filter from display names, unknown names are ignored
func FromNames(names []string) Filter {
	codes := make([]int, 0, len(names))
	for _, name := range names {
		if db, ok := ByName(name); ok {
			codes = append(codes, db.Code)
		}
	}
	return NewFilter(codes...)
}

func rank(code int) int {
	if i := position(code); i >= 0 {
		return i
	}
	return len(catalogue) + code
}

// Empty reports whether the filter searches all databases
func (f Filter) Empty() bool {
	return len(f.selected) == 0
}

// Len returns the number of selected databases
func (f Filter) Len() int {
	return len(f.selected)
}

// Codes returns the numeric codes sent as dbs[] fields
func (f Filter) Codes() []int {
	codes := make([]int, len(f.selected))
	for i, db := range f.selected {
		codes[i] = db.Code
	}
	return codes
}

// Names returns the display names of the selection
func (f Filter) Names() []string {
	names := make([]string, len(f.selected))
	for i, db := range f.selected {
		names[i] = db.Name
	}
	return names
}

// Label is the text shown on the database picker
func (f Filter) Label() string {
	switch len(f.selected) {
	case 0:
		return "All databases"
	case 1:
		return f.selected[0].Name
	default:
		return fmt.Sprintf("%d databases selected", len(f.selected))
	}
}
