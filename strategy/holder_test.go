package strategy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/pushfold/poker"
)

func TestHolderSwap(t *testing.T) {
	t.Parallel()
	first := &Active{Name: "first", Table: mustLoad(t, `{"2":{"10":{"SB":{"Open":{"AA":"raise"}}}}}`)}
	second := &Active{Name: "second", Table: mustLoad(t, `{"2":{"10":{"SB":{"Open":{"AA":"shove"}}}}}`)}

	h := NewHolder(first)
	assert.Same(t, first, h.Current())
	assert.Same(t, first.Table, h.Table())

	prev := h.Swap(second)
	assert.Same(t, first, prev)
	assert.Same(t, second.Table, h.Table())

	assert.False(t, h.CompareAndSwap(first, first), "stale entry must not win")
	assert.True(t, h.CompareAndSwap(second, first))
	assert.Equal(t, "first", h.Current().Name)
}

func TestHolderEmpty(t *testing.T) {
	t.Parallel()
	h := NewHolder(nil)
	assert.Nil(t, h.Current())
	assert.Nil(t, h.Table())
}

func TestHolderConcurrentReadersSeeWholeTables(t *testing.T) {
	t.Parallel()
	raise := &Active{Name: "raise", Table: mustLoad(t, `{"2":{"10":{"SB":{"Open":{"AA":"raise","KK":"raise"}}}}}`)}
	shove := &Active{Name: "shove", Table: mustLoad(t, `{"2":{"10":{"SB":{"Open":{"AA":"shove","KK":"shove"}}}}}`)}
	h := NewHolder(raise)

	query := func(table *Table, hand poker.HandLabel) string {
		v, err := table.Lookup(Query{Players: 2, Depth: 10, Seat: poker.SmallBlind, Scenario: Open, Hand: hand})
		if err != nil {
			return err.Error()
		}
		text, _ := v.Text()
		return text
	}

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 500 {
				table := h.Table()
				// Both hands come from the same snapshot, so they always agree.
				assert.Equal(t, query(table, "AA"), query(table, "KK"))
			}
		}()
	}
	for i := range 500 {
		if i%2 == 0 {
			h.Swap(shove)
		} else {
			h.Swap(raise)
		}
	}
	wg.Wait()
}
