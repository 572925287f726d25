package ledger

import "mfgledger/models"

// DefaultPageSize is how many orders fit on one printed report page.
const DefaultPageSize = 9

// Paginate splits orders into consecutive pages of at most pageSize, keeping their
// order. An empty list still yields one empty page so the report keeps its header.
func Paginate(orders []models.Order, pageSize int) [][]models.Order {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if len(orders) == 0 {
		return [][]models.Order{{}}
	}
	pages := make([][]models.Order, 0, (len(orders)+pageSize-1)/pageSize)
	for i := 0; i < len(orders); i += pageSize {
		end := i + pageSize
		if end > len(orders) {
			end = len(orders)
		}
		pages = append(pages, orders[i:end:end])
	}
	return pages
}

// GlobalIndex is the zero-based position of item offset on page across the report.
func GlobalIndex(page, offset, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return page*pageSize + offset
}
