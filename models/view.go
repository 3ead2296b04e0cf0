// ABOUTME: Console view state machine
// ABOUTME: Tracks authentication, the fetched product list, and the selected product

package models

import "time"

// ViewState is the top-level console state
type ViewState string

const (
	StateUnauthenticated ViewState = "unauthenticated"
	StateAuthenticated   ViewState = "authenticated"
)

// View is the per-session console state.
//
// Transitions:
//   - Unauthenticated -> Authenticated on successful login
//   - Authenticated -> Unauthenticated on logout
//
// While authenticated, the selection moves between NoSelection and
// ProductSelected. SelectedID always refers to an entry of Products.
type View struct {
	State      ViewState   `json:"state"`
	Products   []Product   `json:"products"`
	SelectedID ProductID   `json:"selected_id,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	ExpiresAt  time.Time   `json:"expires_at,omitzero"`
}

// NewView returns the initial unauthenticated view.
func NewView() *View {
	return &View{
		State:    StateUnauthenticated,
		Products: []Product{},
	}
}

// Authenticated reports whether the view is in the authenticated state.
func (v *View) Authenticated() bool {
	return v.State == StateAuthenticated
}

// Authenticate flips the view to the authenticated state with no selection.
func (v *View) Authenticate() {
	v.State = StateAuthenticated
	v.SelectedID = ""
	if v.Products == nil {
		v.Products = []Product{}
	}
}

// ReplaceProducts swaps in a freshly fetched list. A selection that no longer
// resolves is dropped.
func (v *View) ReplaceProducts(products []Product, pagination *Pagination) {
	if products == nil {
		products = []Product{}
	}
	v.Products = products
	v.Pagination = pagination
	if v.SelectedID != "" && v.find(v.SelectedID) < 0 {
		v.SelectedID = ""
	}
}

// Select points the detail panel at the product with the given id.
// Returns false and leaves the selection untouched when no such product exists.
func (v *View) Select(id ProductID) bool {
	if !v.Authenticated() || v.find(id) < 0 {
		return false
	}
	v.SelectedID = id
	return true
}

// ClearSelection returns to the NoSelection sub-state.
func (v *View) ClearSelection() {
	v.SelectedID = ""
}

// Reset returns the view to its initial state.
func (v *View) Reset() {
	v.State = StateUnauthenticated
	v.Products = []Product{}
	v.SelectedID = ""
	v.Pagination = nil
	v.ExpiresAt = time.Time{}
}

// HasSelection reports whether a product is selected.
func (v *View) HasSelection() bool {
	return v.SelectedProduct() != nil
}

// SelectedProduct returns the selected product, or nil.
func (v *View) SelectedProduct() *Product {
	if v.SelectedID == "" {
		return nil
	}
	if i := v.find(v.SelectedID); i >= 0 {
		return &v.Products[i]
	}
	return nil
}

// Clone returns a copy that shares no slices with v.
func (v *View) Clone() *View {
	c := *v
	c.Products = append([]Product(nil), v.Products...)
	if c.Products == nil {
		c.Products = []Product{}
	}
	if v.Pagination != nil {
		p := *v.Pagination
		c.Pagination = &p
	}
	return &c
}

func (v *View) find(id ProductID) int {
	for i := range v.Products {
		if v.Products[i].ID == id {
			return i
		}
	}
	return -1
}
