package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"storefront/domain"
	"storefront/view"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")

	switch {
	case m.detail.open:
		b.WriteString(m.renderDetail())
	case m.store.CartOpen():
		b.WriteString(m.renderCart())
	default:
		b.WriteString(m.renderCatalog())
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	cart := m.store.Cart()
	theme := "light"
	if m.styles.Dark {
		theme = "dark"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Title.Render("Storefront"),
		m.styles.Muted.Render(fmt.Sprintf("   cart: %d   theme: %s", cart.ItemCount(), theme)),
	)
}

func (m Model) renderFilters() string {
	f := m.store.Filters()
	search := m.styles.Muted.Render("/ search")
	if m.searching {
		search = m.search.View()
	} else if f.Search != "" {
		search = m.styles.Text.Render(fmt.Sprintf("search: %q", f.Search))
	}
	return strings.Join([]string{
		search,
		m.styles.Text.Render("category: " + f.Category),
		m.styles.Text.Render("max: " + domain.FormatPrice(f.MaxPrice, m.currency)),
		m.styles.Text.Render("sort: " + f.Sort.String()),
	}, m.styles.Muted.Render("  |  "))
}

func (m Model) renderCatalog() string {
	visible := m.visible()
	f := m.store.Filters()
	heading := m.styles.Heading.Render(view.CategoryLabel(f.Category)) +
		m.styles.Muted.Render(fmt.Sprintf(" (%d items)", len(visible)))

	var body string
	switch {
	case m.snap.Loading:
		body = m.spinner.View() + " Loading products..."
	case m.snap.Err != nil:
		body = m.styles.Panel.Render(
			m.styles.Error.Render(m.snap.ErrorMessage()) + "\n" +
				m.styles.Muted.Render("press r to retry"))
	case len(visible) == 0:
		body = m.styles.Panel.Render(
			m.styles.Heading.Render("No products found") + "\n" +
				m.styles.Muted.Render("Try adjusting your filters or search terms.") + "\n" +
				m.styles.Accent.Render("press x to reset all filters"))
	default:
		body = m.renderRows(visible)
	}
	return heading + "\n\n" + body
}

func (m Model) renderRows(visible []domain.Product) string {
	start, end := window(len(visible), m.cursor, m.listHeight())
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		p := visible[i]
		marker, title := "  ", m.styles.Text.Render(p.Title)
		if i == m.cursor {
			marker, title = "> ", m.styles.Selected.Render(p.Title)
		}
		row := fmt.Sprintf("%s%s %s  %s  %s",
			marker,
			title,
			m.styles.Muted.Render(p.Brand),
			m.styles.Rating.Render(fmt.Sprintf("★ %.1f", p.Rating)),
			m.styles.Accent.Render(domain.FormatPrice(p.Price, m.currency)),
		)
		if badge := p.DiscountBadge(); badge != "" {
			row += "  " + m.styles.Badge.Render(badge)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m Model) listHeight() int {
	if m.height <= 0 {
		return 20
	}
	return max(m.height-9, 3)
}

// window returns the [start, end) range of n rows of which size are shown,
// keeping cursor inside it.
func window(n, cursor, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := cursor - size/2
	start = max(0, min(start, n-size))
	return start, start + size
}

func (m Model) renderDetail() string {
	d := m.detail
	p := d.product
	var b strings.Builder
	b.WriteString(m.styles.Heading.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%s · %s", p.Brand, p.Category)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Accent.Render(domain.FormatPrice(p.Price, m.currency)))
	if badge := p.DiscountBadge(); badge != "" {
		b.WriteString("  " + m.styles.Badge.Render(badge))
	}
	b.WriteString("  " + m.styles.Rating.Render(fmt.Sprintf("★ %.1f", p.Rating)))
	b.WriteString("\n\n")

	if images := p.Gallery(galleryLimit); len(images) > 0 {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("image %d/%d: ", d.image+1, len(images))))
		b.WriteString(m.styles.Text.Render(images[d.image]))
		b.WriteString("\n\n")
	}

	b.WriteString(m.styles.Text.Render(p.Description))
	b.WriteString("\n\n")

	text := d.insight
	if d.loading {
		text = "Generating smart insights..."
	}
	b.WriteString(m.styles.Panel.Render(
		m.styles.Title.Render("AI Shopping Insight") + "\n" + m.styles.Text.Render(text)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Stock.Render(fmt.Sprintf("Only %d items left in stock. Fast delivery available.", p.Stock)))
	return b.String()
}

func (m Model) renderCart() string {
	cart := m.store.Cart()
	heading := m.styles.Heading.Render("Your Cart") +
		m.styles.Muted.Render(fmt.Sprintf(" (%d items)", cart.ItemCount()))
	if len(cart) == 0 {
		return heading + "\n\n" + m.styles.Muted.Render("Your cart is empty.")
	}

	rows := make([]string, 0, len(cart))
	for i, l := range cart {
		marker, title := "  ", m.styles.Text.Render(l.Title)
		if i == m.cartCursor {
			marker, title = "> ", m.styles.Selected.Render(l.Title)
		}
		rows = append(rows, fmt.Sprintf("%s%s  %s x %d  = %s",
			marker,
			title,
			m.styles.Muted.Render(domain.FormatPrice(l.Price, m.currency)),
			l.Quantity,
			m.styles.Accent.Render(domain.FormatPrice(l.LineTotal(), m.currency)),
		))
	}
	subtotal := m.styles.Heading.Render("Subtotal: " + domain.FormatPrice(cart.Subtotal(), m.currency))
	return heading + "\n\n" + strings.Join(rows, "\n") + "\n\n" + subtotal
}

func (m Model) renderHelp() string {
	var bindings []string
	switch {
	case m.searching:
		bindings = []string{"enter apply", "esc done"}
	case m.detail.open:
		bindings = []string{"←/→ image", "a add to cart", "esc back", "t theme", "q quit"}
	case m.store.CartOpen():
		bindings = []string{"↑/↓ select", "+/- quantity", "d remove", "X clear", "esc close", "q quit"}
	default:
		for _, k := range []struct{ keys, desc string }{
			{m.keys.Search.Help().Key, m.keys.Search.Help().Desc},
			{m.keys.Category.Help().Key, m.keys.Category.Help().Desc},
			{m.keys.Sort.Help().Key, m.keys.Sort.Help().Desc},
			{m.keys.Inc.Help().Key, m.keys.Inc.Help().Desc},
			{m.keys.Open.Help().Key, m.keys.Open.Help().Desc},
			{m.keys.Add.Help().Key, m.keys.Add.Help().Desc},
			{m.keys.Cart.Help().Key, m.keys.Cart.Help().Desc},
			{m.keys.Theme.Help().Key, m.keys.Theme.Help().Desc},
			{m.keys.Reset.Help().Key, m.keys.Reset.Help().Desc},
			{m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc},
		} {
			bindings = append(bindings, k.keys+" "+k.desc)
		}
	}
	return m.styles.Help.Render(strings.Join(bindings, " • "))
}
