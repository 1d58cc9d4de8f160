package catalog

// maxPageButtons is the most page numbers shown before ellipses kick in
const maxPageButtons = 7

// PageItem is one entry in a pagination control
type PageItem struct {
	Number   int
	Ellipsis bool
	Current  bool
}

// PageNumbers computes the page numbers to display around current, eliding
// long ranges. It returns nil when there is nothing to paginate.
func PageNumbers(current, total int) []PageItem {
	if total <= 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	var nums []int
	switch {
	case total <= maxPageButtons:
		for i := 1; i <= total; i++ {
			nums = append(nums, i)
		}
	case current <= 3:
		nums = []int{1, 2, 3, 4, 5, 0, total}
	case current >= total-2:
		nums = []int{1, 0, total - 4, total - 3, total - 2, total - 1, total}
	default:
		nums = []int{1, 0, current - 1, current, current + 1, 0, total}
	}

	items := make([]PageItem, 0, len(nums))
	for _, n := range nums {
		if n == 0 {
			items = append(items, PageItem{Ellipsis: true})
			continue
		}
		items = append(items, PageItem{Number: n, Current: n == current})
	}
	return items
}
