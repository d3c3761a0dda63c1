package services

import (
	"strconv"
	"strings"
)

// DefaultPageSize ist die Seitengröße, auf die ungültige Werte zurückfallen.
const DefaultPageSize = 10

// Erlaubte Seitengrößen der Listen-Ansichten. Alles andere ist ein
// Programmierfehler des Aufrufers und fällt auf DefaultPageSize zurück.
var allowedPageSizes = map[int]bool{5: true, 10: true, 20: true}

// NormalizePageSize bildet beliebige Eingaben auf die erlaubte Menge ab.
func NormalizePageSize(n int) int {
	if allowedPageSizes[n] {
		return n
	}
	return DefaultPageSize
}

// PageResult ist das Ergebnis einer Filter+Paginierung über eine Collection.
type PageResult[T any] struct {
	Items       []T      `json:"items"`
	TotalItems  int      `json:"total_items"`
	TotalPages  int      `json:"total_pages"`
	Page        int      `json:"page"`
	PageNumbers []string `json:"page_numbers"`
}

// FilterItems filtert eine Collection per Freitext-Suche. Die Query wird
// case-gefoldet; das Matching selbst (Substring-Containment über die
// darstellten Felder) übernimmt das entitätsspezifische Prädikat.
// Eine leere Query liefert die Collection unverändert zurück.
func FilterItems[T any](items []T, query string, match func(item T, normalizedQuery string) bool) []T {
	q := strings.ToLower(query)
	if q == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if match(it, q) {
			out = append(out, it)
		}
	}
	return out
}

// ContainsFold prüft Substring-Containment gegen eine bereits
// case-gefoldete Query.
func ContainsFold(field, normalizedQuery string) bool {
	return strings.Contains(strings.ToLower(field), normalizedQuery)
}

// TotalPages berechnet ceil(totalItems/pageSize). Eine leere Collection hat
// 0 Seiten; das Dashboard blendet die Seitensteuerung dann aus.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// ClampPage begrenzt eine Seitenzahl auf [1, totalPages] (mindestens 1).
// Wird nach Löschungen verwendet, damit kein Admin auf einer leeren Seite
// hinter dem Ende der Liste landet.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate schneidet die Seite [ (page-1)*pageSize, page*pageSize ) aus der
// gefilterten Collection. Eine Seite außerhalb des gültigen Bereichs liefert
// eine leere Seite, niemals einen Fehler.
func Paginate[T any](items []T, pageSize, page int) PageResult[T] {
	pageSize = NormalizePageSize(pageSize)
	if page < 1 {
		page = 1
	}

	total := len(items)
	pages := TotalPages(total, pageSize)

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	pageItems := make([]T, 0, end-start)
	pageItems = append(pageItems, items[start:end]...)

	return PageResult[T]{
		Items:       pageItems,
		TotalItems:  total,
		TotalPages:  pages,
		Page:        page,
		PageNumbers: PageNumbers(page, pages),
	}
}

// PageNumbers liefert die anzuzeigenden Seitenzahlen als Sliding Window:
// bis 5 Seiten alle; sonst Anfangs-, End- oder Mittelfenster mit "..." an
// den ausgelassenen Stellen. Reine Funktion von (current, total).
func PageNumbers(current, total int) []string {
	pages := make([]string, 0, 7)
	if total <= 0 {
		return pages
	}

	const maxVisible = 5
	if total <= maxVisible {
		for i := 1; i <= total; i++ {
			pages = append(pages, strconv.Itoa(i))
		}
		return pages
	}

	switch {
	case current <= 3:
		for i := 1; i <= 4; i++ {
			pages = append(pages, strconv.Itoa(i))
		}
		pages = append(pages, "...", strconv.Itoa(total))
	case current >= total-2:
		pages = append(pages, "1", "...")
		for i := total - 3; i <= total; i++ {
			pages = append(pages, strconv.Itoa(i))
		}
	default:
		pages = append(pages, "1", "...")
		for i := current - 1; i <= current+1; i++ {
			pages = append(pages, strconv.Itoa(i))
		}
		pages = append(pages, "...", strconv.Itoa(total))
	}
	return pages
}
