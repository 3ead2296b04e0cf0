// ABOUTME: Product catalog models mirroring the remote admin API schema
// ABOUTME: Tolerates the API's loose typing for ids, prices, and enabled flags

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ProductID is the product identifier. The API issues string ids, but numeric
// ids are accepted and kept in their decimal text form.
type ProductID string

// UnmarshalJSON accepts both JSON strings and numbers.
func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid product id %s", data)
	}
	*id = ProductID(n.String())
	return nil
}

// Flag is a boolean sent by the API as either true/false or 1/0.
type Flag bool

// UnmarshalJSON accepts booleans, numbers, and null.
func (f *Flag) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	switch s {
	case "true":
		*f = true
	case "false", "null":
		*f = false
	default:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid flag value %s", s)
		}
		*f = n != 0
	}
	return nil
}

// Product is a read-only copy of one catalog record
type Product struct {
	ID          ProductID   `json:"id"`
	Title       string      `json:"title"`
	Category    string      `json:"category"`
	Unit        string      `json:"unit,omitempty"`
	OriginPrice json.Number `json:"origin_price"`
	Price       json.Number `json:"price"`
	IsEnabled   Flag        `json:"is_enabled"`
	ImageURL    string      `json:"imageUrl"`
	ImagesURL   []string    `json:"imagesUrl,omitempty"`
	Description string      `json:"description"`
	Content     string      `json:"content"`
}

// EnabledLabel returns the console label for the enabled flag.
func (p Product) EnabledLabel() string {
	if p.IsEnabled {
		return "啟用"
	}
	return "未啟用"
}

// Pagination describes the page the API returned
type Pagination struct {
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	HasPre      bool   `json:"has_pre"`
	HasNext     bool   `json:"has_next"`
	Category    string `json:"category,omitempty"`
}

// ProductsResponse is the payload of the admin product collection endpoint
type ProductsResponse struct {
	Success    bool        `json:"success"`
	Products   []Product   `json:"products"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Message    string      `json:"message,omitempty"`
}
