// Package tui is the interactive catalog browser.
package tui

import (
	"context"
	"math"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"storefront/catalog"
	"storefront/domain"
	"storefront/insight"
	"storefront/state"
	"storefront/view"
)

const (
	priceStep    = 100
	priceCeiling = 2000
	galleryLimit = 4
)

// Config wires the collaborators the browser drives.
type Config struct {
	Store    *state.Store
	Fetcher  *catalog.Fetcher
	Insight  *insight.Service
	Currency string
}

type catalogMsg catalog.Snapshot

type stateMsg state.Change

type insightMsg struct {
	seq  uint64
	text string
}

type detailState struct {
	open    bool
	seq     uint64
	product domain.Product
	image   int
	insight string
	loading bool
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx      context.Context
	store    *state.Store
	fetcher  *catalog.Fetcher
	insight  *insight.Service
	currency string
	computer *view.Computer
	unbind   func()

	snap       catalog.Snapshot
	categories []string
	cursor     int
	cartCursor int

	search    textinput.Model
	searching bool
	spinner   spinner.Model

	detail  detailState
	viewSeq uint64

	styles        Styles
	keys          keyMap
	width, height int
}

// NewModel builds a Model bound to cfg.Store. Call Close when done.
func NewModel(ctx context.Context, cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Search products or brands"
	ti.Prompt = "/ "
	ti.CharLimit = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	currency := cfg.Currency
	if currency == "" {
		currency = domain.CurrencyUSD
	}

	computer := view.NewComputer()
	m := Model{
		ctx:        ctx,
		store:      cfg.Store,
		fetcher:    cfg.Fetcher,
		insight:    cfg.Insight,
		currency:   currency,
		computer:   computer,
		unbind:     computer.Bind(cfg.Store),
		categories: []string{domain.AllCategories},
		search:     ti,
		spinner:    sp,
		styles:     NewStyles(cfg.Store.DarkMode()),
		keys:       defaultKeys(),
	}
	m.applySnapshot(cfg.Fetcher.Snapshot())
	return m
}

// Close detaches the model from the store.
func (m Model) Close() {
	if m.unbind != nil {
		m.unbind()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd(false))
}

func (m Model) fetchCmd(retry bool) tea.Cmd {
	f, ctx := m.fetcher, m.ctx
	return func() tea.Msg {
		if retry {
			_ = f.Retry(ctx)
		} else {
			_ = f.Fetch(ctx)
		}
		return catalogMsg(f.Snapshot())
	}
}

func (m Model) insightCmd(seq uint64, p domain.Product) tea.Cmd {
	svc, ctx := m.insight, m.ctx
	return func() tea.Msg {
		return insightMsg{seq: seq, text: svc.Insight(ctx, p.Title, p.Description)}
	}
}

func (m *Model) applySnapshot(s catalog.Snapshot) {
	m.snap = s
	m.computer.SetCatalog(s.Products)
	m.categories = catalog.Categories(s.Products)
	m.clampCursors()
}

func (m *Model) clampCursors() {
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if n := len(m.store.Cart()); m.cartCursor >= n {
		m.cartCursor = max(n-1, 0)
	}
}

func (m Model) visible() []domain.Product {
	return m.computer.Visible()
}

func (m Model) selected() (domain.Product, bool) {
	v := m.visible()
	if m.cursor < 0 || m.cursor >= len(v) {
		return domain.Product{}, false
	}
	return v[m.cursor], true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case catalogMsg:
		m.applySnapshot(catalog.Snapshot(msg))
		if m.snap.Loading {
			return m, m.spinner.Tick
		}
		return m, nil

	case stateMsg:
		m.styles = NewStyles(m.store.DarkMode())
		m.clampCursors()
		return m, nil

	case insightMsg:
		// a closed or replaced detail view drops the late response
		if m.detail.open && msg.seq == m.detail.seq {
			m.detail.insight = msg.text
			m.detail.loading = false
		}
		return m, nil

	case spinner.TickMsg:
		if !m.snap.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch {
		case m.searching:
			return m.updateSearch(msg)
		case m.detail.open:
			return m.updateDetail(msg)
		case m.store.CartOpen():
			return m.updateCart(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.store.FlushSearch()
		m.cursor = 0
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if term := m.search.Value(); term != m.store.Filters().Search {
		m.store.MergeFilters(domain.FilterPatch{Search: &term})
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.store.Filters()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(f.Search)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Category), key.Matches(msg, m.keys.CatBack):
		step := 1
		if key.Matches(msg, m.keys.CatBack) {
			step = -1
		}
		cat := catalog.NextCategory(m.categories, f.Category, step)
		m.store.MergeFilters(domain.FilterPatch{Category: &cat})
		m.cursor = 0

	case key.Matches(msg, m.keys.Sort):
		next := f.Sort.Next()
		m.store.MergeFilters(domain.FilterPatch{Sort: &next})

	case key.Matches(msg, m.keys.Inc), key.Matches(msg, m.keys.Dec):
		delta := float64(priceStep)
		if key.Matches(msg, m.keys.Dec) {
			delta = -delta
		}
		price := clampPrice(clampPrice(f.MaxPrice) + delta)
		m.store.MergeFilters(domain.FilterPatch{MaxPrice: &price})
		m.clampCursors()

	case key.Matches(msg, m.keys.Open):
		if p, ok := m.selected(); ok {
			return m.openDetail(p)
		}

	case key.Matches(msg, m.keys.Add):
		if p, ok := m.selected(); ok {
			m.store.AddToCart(p)
		}

	case key.Matches(msg, m.keys.Cart):
		m.cartCursor = 0
		m.store.SetCartOpen(true)

	case key.Matches(msg, m.keys.Theme):
		m.store.ToggleDarkMode()
		m.styles = NewStyles(m.store.DarkMode())

	case key.Matches(msg, m.keys.Retry):
		if m.snap.Err != nil && !m.snap.Loading {
			m.snap.Loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchCmd(true))
		}

	case key.Matches(msg, m.keys.Reset):
		m.store.ResetFilters()
		m.cursor = 0
	}
	return m, nil
}

func (m Model) openDetail(p domain.Product) (tea.Model, tea.Cmd) {
	m.viewSeq++
	m.detail = detailState{open: true, seq: m.viewSeq, product: p, loading: true}
	return m, m.insightCmd(m.viewSeq, p)
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	images := m.detail.product.Gallery(galleryLimit)
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Open):
		m.detail = detailState{}
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		if len(images) > 0 {
			m.detail.image = (m.detail.image - 1 + len(images)) % len(images)
		}
	case key.Matches(msg, m.keys.Right):
		if len(images) > 0 {
			m.detail.image = (m.detail.image + 1) % len(images)
		}
	case key.Matches(msg, m.keys.Add):
		m.store.AddToCart(m.detail.product)
	case key.Matches(msg, m.keys.Theme):
		m.store.ToggleDarkMode()
		m.styles = NewStyles(m.store.DarkMode())
	}
	return m, nil
}

func (m Model) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cart := m.store.Cart()
	var line *domain.CartLine
	if m.cartCursor < len(cart) {
		line = &cart[m.cartCursor]
	}
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Cart):
		m.store.SetCartOpen(false)
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cartCursor > 0 {
			m.cartCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cartCursor < len(cart)-1 {
			m.cartCursor++
		}
	case key.Matches(msg, m.keys.Inc):
		if line != nil {
			m.store.UpdateCartQuantity(line.ID, line.Quantity+1)
		}
	case key.Matches(msg, m.keys.Dec):
		if line != nil {
			m.store.UpdateCartQuantity(line.ID, line.Quantity-1)
		}
	case key.Matches(msg, m.keys.Remove):
		if line != nil {
			m.store.RemoveFromCart(line.ID)
		}
	case key.Matches(msg, m.keys.Clear):
		m.store.ClearCart()
	case key.Matches(msg, m.keys.Theme):
		m.store.ToggleDarkMode()
		m.styles = NewStyles(m.store.DarkMode())
	}
	m.clampCursors()
	return m, nil
}

func clampPrice(v float64) float64 {
	return math.Max(0, math.Min(priceCeiling, v))
}
