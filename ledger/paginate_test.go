package ledger

import (
	"fmt"
	"testing"

	"mfgledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateEmptyGivesOnePage(t *testing.T) {
	pages := Paginate(nil, 9)
	require.Len(t, pages, 1)
	assert.Empty(t, pages[0])
}

func TestPaginatePageCountsAndOrder(t *testing.T) {
	for _, n := range []int{1, 8, 9, 10, 18, 19, 27, 100} {
		for _, size := range []int{1, 4, 9} {
			orders := make([]models.Order, n)
			for i := range orders {
				orders[i].ID = fmt.Sprint(i)
			}

			pages := Paginate(orders, size)
			assert.Len(t, pages, (n+size-1)/size, "n=%d size=%d", n, size)

			var joined []models.Order
			for _, p := range pages {
				assert.LessOrEqual(t, len(p), size)
				joined = append(joined, p...)
			}
			assert.Equal(t, orders, joined)
		}
	}
}

func TestPaginatePagesDoNotShareCapacity(t *testing.T) {
	orders := make([]models.Order, 10)
	pages := Paginate(orders, 9)
	require.Len(t, pages, 2)
	pages[0] = append(pages[0], models.Order{ID: "extra"})
	assert.Equal(t, "", pages[1][0].ID)
}

func TestPaginateDefaultSize(t *testing.T) {
	pages := Paginate(make([]models.Order, 10), 0)
	require.Len(t, pages, 2)
	assert.Len(t, pages[0], DefaultPageSize)
}

func TestGlobalIndex(t *testing.T) {
	assert.Equal(t, 0, GlobalIndex(0, 0, 9))
	assert.Equal(t, 8, GlobalIndex(0, 8, 9))
	assert.Equal(t, 9, GlobalIndex(1, 0, 9))
	assert.Equal(t, 22, GlobalIndex(2, 4, 9))
}
