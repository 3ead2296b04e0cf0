// ABOUTME: Product catalog screen with a list table and a detail panel
// ABOUTME: Renders the session view; selection itself goes through the session manager

package catalog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/storeops/catalog-console/internal/tui/styles"
	"github.com/storeops/catalog-console/models"
)

// Layout constants
const (
	minTableHeight = 3
	panelOverhead  = 6 // border + padding on each side
	minSplitWidth  = 100
)

const (
	emptyListText   = "尚無產品資料"
	noSelectionText = "請選擇一個商品查看"
)

var columns = []table.Column{
	{Title: "產品名稱", Width: 24},
	{Title: "原價", Width: 8},
	{Title: "售價", Width: 8},
	{Title: "是否啟用", Width: 10},
}

// Catalog renders one view: the product table on the left and the
// selected product on the right.
type Catalog struct {
	table  table.Model
	view   *models.View
	ids    []models.ProductID
	width  int
	height int
}

// New creates the catalog screen for view.
func New(view *models.View, width, height int) *Catalog {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Primary).
		Bold(false)
	t.SetStyles(s)

	c := &Catalog{table: t}
	c.SetSize(width, height)
	c.SetView(view)
	return c
}

// SetView swaps in a new view. The cursor stays on the same product when it
// is still listed.
func (c *Catalog) SetView(view *models.View) {
	if view == nil {
		view = models.NewView()
	}
	current, hadCurrent := c.Highlighted()

	c.view = view
	c.ids = make([]models.ProductID, 0, len(view.Products))
	rows := make([]table.Row, 0, len(view.Products))
	for _, p := range view.Products {
		c.ids = append(c.ids, p.ID)
		rows = append(rows, table.Row{p.Title, p.OriginPrice.String(), p.Price.String(), p.EnabledLabel()})
	}
	c.table.SetRows(rows)

	cursor := 0
	for i, id := range c.ids {
		if hadCurrent && id == current {
			cursor = i
			break
		}
	}
	c.table.SetCursor(cursor)
}

// SetSize updates the available area.
func (c *Catalog) SetSize(width, height int) {
	c.width = width
	c.height = height
	h := height - panelOverhead
	if h < minTableHeight {
		h = minTableHeight
	}
	c.table.SetHeight(h)
}

// Highlighted returns the id under the table cursor.
func (c *Catalog) Highlighted() (models.ProductID, bool) {
	i := c.table.Cursor()
	if i < 0 || i >= len(c.ids) {
		return "", false
	}
	return c.ids[i], true
}

// Update forwards navigation keys to the table.
func (c *Catalog) Update(msg tea.Msg) (*Catalog, tea.Cmd) {
	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	return c, cmd
}

// View implements tea.Model
func (c *Catalog) View() string {
	list := styles.ActivePanel.Render(c.renderList())
	detail := styles.Panel.Width(c.detailWidth(lipgloss.Width(list))).Render(c.renderDetail())

	if c.width > 0 && c.width < minSplitWidth {
		return lipgloss.JoinVertical(lipgloss.Left, list, detail)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

func (c *Catalog) renderList() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("產品列表"))
	sb.WriteString("\n")
	if len(c.ids) == 0 {
		sb.WriteString(styles.Subtitle.Render(emptyListText))
		return sb.String()
	}
	sb.WriteString(c.table.View())
	if pg := c.view.Pagination; pg != nil && pg.TotalPages > 1 {
		sb.WriteString("\n")
		sb.WriteString(styles.Label.Render(fmt.Sprintf("Page %d of %d", pg.CurrentPage, pg.TotalPages)))
	}
	return sb.String()
}

func (c *Catalog) renderDetail() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("單一產品細節"))
	sb.WriteString("\n")

	p := c.view.SelectedProduct()
	if p == nil {
		sb.WriteString(styles.Subtitle.Render(noSelectionText))
		return sb.String()
	}

	sb.WriteString(styles.ValueStyle.Render(p.Title))
	if p.Category != "" {
		sb.WriteString(styles.Badge.Render(p.Category))
	}
	sb.WriteString("  ")
	sb.WriteString(styles.Enabled(p.EnabledLabel(), bool(p.IsEnabled)))
	sb.WriteString("\n\n")

	if p.ImageURL != "" {
		sb.WriteString(styles.Label.Render("主圖：") + p.ImageURL + "\n")
	}
	sb.WriteString(styles.Label.Render("商品描述：") + p.Description + "\n")
	sb.WriteString(styles.Label.Render("商品內容：") + p.Content + "\n")

	price := fmt.Sprintf("%s 元 / %s 元", styles.OriginPrice.Render(p.OriginPrice.String()), p.Price.String())
	if p.Unit != "" {
		price += " / " + p.Unit
	}
	sb.WriteString(price + "\n")

	if len(p.ImagesURL) > 0 {
		sb.WriteString("\n")
		sb.WriteString(styles.Label.Render("更多圖片："))
		for _, url := range p.ImagesURL {
			sb.WriteString("\n  " + url)
		}
	}
	return sb.String()
}

func (c *Catalog) detailWidth(listWidth int) int {
	if c.width <= 0 {
		return 40
	}
	w := c.width - listWidth - panelOverhead
	if c.width < minSplitWidth {
		w = c.width - panelOverhead
	}
	if w < 20 {
		w = 20
	}
	return w
}
