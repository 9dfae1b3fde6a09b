package view

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/domain"
	"storefront/state"
	"storefront/store"
)

func ids(ps []domain.Product) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func catalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "Essence Mascara", Brand: "Essence", Category: "beauty", Price: 10, Rating: 4.5},
		{ID: 2, Title: "Red Lipstick", Brand: "Chic", Category: "beauty", Price: 20, Rating: 4.8},
		{ID: 3, Title: "Office Chair", Brand: "Furnix", Category: "furniture", Price: 150, Rating: 4.5},
		{ID: 4, Title: "Desk Lamp", Brand: "Lumo", Category: "home", Price: 20, Rating: 3.9},
		{ID: 5, Title: "Gaming Laptop", Brand: "Chic", Category: "laptops", Price: 2400, Rating: 4.5},
	}
}

func criteria(mut func(*domain.FilterCriteria)) domain.FilterCriteria {
	f := domain.DefaultFilters()
	if mut != nil {
		mut(&f)
	}
	return f
}

func TestDerive_PriceDescScenario(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Price: 10, Category: "a", Rating: 4.5},
		{ID: 2, Price: 20, Category: "b", Rating: 4.8},
	}
	f := domain.FilterCriteria{Category: domain.AllCategories, MaxPrice: 2000, Sort: domain.SortPriceDesc}
	assert.Equal(t, []int{2, 1}, ids(Derive(products, f)))
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name string
		f    domain.FilterCriteria
		want []int
	}{
		{"defaults keep catalog order", criteria(nil), []int{1, 2, 3, 4, 5}},
		{"category exact", criteria(func(f *domain.FilterCriteria) { f.Category = "beauty" }), []int{1, 2}},
		{"category is case-sensitive", criteria(func(f *domain.FilterCriteria) { f.Category = "Beauty" }), []int{}},
		{"empty category keeps all", criteria(func(f *domain.FilterCriteria) { f.Category = "" }), []int{1, 2, 3, 4, 5}},
		{"search title case-insensitive", criteria(func(f *domain.FilterCriteria) { f.Search = "LAMP" }), []int{4}},
		{"search matches brand", criteria(func(f *domain.FilterCriteria) { f.Search = "chic" }), []int{2, 5}},
		{"search ignores description and category", criteria(func(f *domain.FilterCriteria) { f.Search = "furniture" }), []int{}},
		{"price ceiling is inclusive", criteria(func(f *domain.FilterCriteria) { f.MaxPrice = 20 }), []int{1, 2, 4}},
		{"price asc is stable", criteria(func(f *domain.FilterCriteria) { f.Sort = domain.SortPriceAsc }), []int{1, 2, 4, 3, 5}},
		{"price desc is stable", criteria(func(f *domain.FilterCriteria) { f.Sort = domain.SortPriceDesc }), []int{5, 3, 2, 4, 1}},
		{"rating desc is stable", criteria(func(f *domain.FilterCriteria) { f.Sort = domain.SortRating }), []int{2, 1, 3, 5, 4}},
		{"stages compose", criteria(func(f *domain.FilterCriteria) {
			f.Category = "beauty"
			f.Search = "e"
			f.MaxPrice = 15
			f.Sort = domain.SortRating
		}), []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Derive(catalog(), tt.f)))
		})
	}
}

func TestDerive_DoesNotMutateInputAndReturnsFreshSlice(t *testing.T) {
	in := catalog()
	before := catalog()

	out := Derive(in, criteria(func(f *domain.FilterCriteria) { f.Sort = domain.SortPriceDesc }))
	assert.Equal(t, before, in)

	all := Derive(in, criteria(nil))
	require.NotEmpty(t, all)
	all[0].Title = "changed"
	assert.Equal(t, "Essence Mascara", in[0].Title)
	assert.NotEmpty(t, out)
}

func TestDerive_DeterministicSubset(t *testing.T) {
	in := catalog()
	for _, mode := range domain.SortModes {
		f := criteria(func(f *domain.FilterCriteria) { f.Sort = mode; f.MaxPrice = 200 })
		a := Derive(in, f)
		b := Derive(in, f)
		assert.Equal(t, a, b)

		known := map[int]bool{}
		for _, p := range in {
			known[p.ID] = true
		}
		for _, p := range a {
			assert.True(t, known[p.ID])
			assert.LessOrEqual(t, p.Price, 200.0)
		}
	}
}

func TestDerive_EmptyCatalog(t *testing.T) {
	out := Derive(nil, criteria(nil))
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestComputer_FollowsStore(t *testing.T) {
	s := state.New(context.Background(), store.NewInMemoryStore(), state.Options{
		ColorScheme: func() bool { return false },
		SearchDelay: time.Hour,
	})
	defer s.Close()

	c := NewComputer()
	unbind := c.Bind(s)
	defer unbind()
	c.SetCatalog(catalog())
	assert.Len(t, c.Visible(), 5)

	cat := "beauty"
	s.MergeFilters(domain.FilterPatch{Category: &cat})
	assert.Equal(t, []int{1, 2}, ids(c.Visible()))

	term := "lipstick"
	s.MergeFilters(domain.FilterPatch{Search: &term})
	assert.Equal(t, []int{1, 2}, ids(c.Visible()), "search applies only once debounced")
	s.FlushSearch()
	assert.Equal(t, []int{2}, ids(c.Visible()))

	c.SetCatalog(catalog()[:1])
	assert.Empty(t, c.Visible())
}

func TestComputer_Unbound(t *testing.T) {
	c := NewComputer()
	c.SetCatalog(catalog())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(c.Visible()))
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Our Collection", CategoryLabel(domain.AllCategories))
	assert.Equal(t, "home decoration", CategoryLabel("home-decoration"))
	assert.Equal(t, "beauty", CategoryLabel("beauty"))
}
