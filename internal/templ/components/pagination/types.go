// Package pagination renders page links for list pages.
package pagination

import (
	"fmt"
	"sort"
)

// Gap marks an elided run of pages in PageRange output.
const Gap = -1

const (
	defaultPerPage = 10
	maxListed      = 7
)

// Data describes one page of a list.
type Data struct {
	CurrentPage int
	TotalPages  int
	PerPage     int
	Total       int
	HasPrevious bool
	HasNext     bool
	PrevPage    int
	NextPage    int
}

// NewData clamps page into [1, pages] for total items split perPage at a time.
func NewData(page, perPage, total int) Data {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	pages := max(1, (total+perPage-1)/perPage)
	page = min(max(page, 1), pages)

	return Data{
		CurrentPage: page,
		TotalPages:  pages,
		PerPage:     perPage,
		Total:       total,
		HasPrevious: page > 1,
		HasNext:     page < pages,
		PrevPage:    page - 1,
		NextPage:    page + 1,
	}
}

func (d Data) Offset() int {
	return (d.CurrentPage - 1) * d.PerPage
}

type Config struct {
	BaseURL string
}

// PageURL links page n of the list at BaseURL.
func (c Config) PageURL(n int) string {
	return fmt.Sprintf("%s?page=%d", c.BaseURL, n)
}

// PageRange lists the page numbers to link: all of them for short lists,
// otherwise the first, the last and the neighbours of current, with Gap
// where pages are skipped. A gap that would hide a single page shows that
// page instead.
func PageRange(current, total int) []int {
	if total <= maxListed {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	keep := map[int]bool{1: true, total: true}
	for p := current - 1; p <= current+1; p++ {
		if p >= 1 && p <= total {
			keep[p] = true
		}
	}
	listed := make([]int, 0, len(keep))
	for p := range keep {
		listed = append(listed, p)
	}
	sort.Ints(listed)

	out := make([]int, 0, len(listed)+2)
	for i, p := range listed {
		if i > 0 {
			switch p - listed[i-1] {
			case 1:
			case 2:
				out = append(out, p-1)
			default:
				out = append(out, Gap)
			}
		}
		out = append(out, p)
	}
	return out
}
