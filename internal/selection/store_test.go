package selection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/david/bid-finder/internal/models"
)

func TestStoreSelection(t *testing.T) {
	s := NewStore()

	_, ok := s.Selected()
	assert.False(t, ok)

	s.Select(models.Bid{Title: "Roof", Trades: []string{"Roofing"}})
	got, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, "Roof", got.Title)

	s.Clear()
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestStoreMapQuery(t *testing.T) {
	s := NewStore()
	assert.Empty(t, s.MapQuery())

	s.SetMapQuery("roofing oakland")
	assert.Equal(t, "roofing oakland", s.MapQuery())

	s.Select(models.Bid{Title: "x"})
	assert.Equal(t, "roofing oakland", s.MapQuery(), "fields are independent")
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Select(models.Bid{Title: "a"})
			s.SetMapQuery("q")
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Selected()
			_ = s.MapQuery()
		}()
	}
	wg.Wait()

	got, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, "a", got.Title)
}
