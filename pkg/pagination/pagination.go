package pagination

import "strconv"

type Page[T any] struct {
	Number int
	Size   int
	Total  int
	Items  []T
}

func NewPage[T any](items []T, total, number, size int) Page[T] {
	return Page[T]{
		Number: normalizeNumber(number),
		Size:   size,
		Total:  total,
		Items:  items,
	}
}

func (p Page[T]) Count() int {
	return len(p.Items)
}

// NumPages is never less than 1, an empty collection still has one (empty) page.
func (p Page[T]) NumPages() int {
	if p.Size <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

func (p Page[T]) HasNext() bool {
	return p.Number < p.NumPages()
}

func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p Page[T]) NextNumber() int {
	return p.Number + 1
}

func (p Page[T]) PreviousNumber() int {
	return max(p.Number-1, 1)
}

// Bounds converts a 1-based page number into an offset/limit pair.
func Bounds(number, size int) (offset, limit int) {
	number = normalizeNumber(number)
	if size <= 0 {
		return 0, 0
	}
	return (number - 1) * size, size
}

// Paginate slices an already ordered and filtered collection.
// A page past the end yields no items.
func Paginate[T any](items []T, number, size int) Page[T] {
	offset, limit := Bounds(number, size)
	total := len(items)

	if offset >= total {
		return NewPage[T](nil, total, number, size)
	}
	end := min(offset+limit, total)

	out := make([]T, end-offset)
	copy(out, items[offset:end])
	return NewPage(out, total, number, size)
}

// ParsePage reads a page number from a query string value.
func ParsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return normalizeNumber(n)
}

func normalizeNumber(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
