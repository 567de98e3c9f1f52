package records

import (
	"strconv"

	"github.com/angelmondragon/marketdesk/pkg/enums"
)

// Valuer exposes a record field as display text.
type Valuer interface {
	Value(field string) string
}

type Category struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (c Category) Value(field string) string {
	switch field {
	case "name":
		return str(c.Name)
	case "description":
		return str(c.Description)
	}
	return ""
}

type Seller struct {
	CompanyName      *string `json:"company_name,omitempty"`
	ContactFirstName *string `json:"contact_first_name,omitempty"`
	ContactLastName  *string `json:"contact_last_name,omitempty"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Street           *string `json:"street,omitempty"`
	HouseNumber      *string `json:"house_number,omitempty"`
	PostalCode       *string `json:"postal_code,omitempty"`
	City             *string `json:"city,omitempty"`
	Description      *string `json:"description,omitempty"`
}

func (s Seller) Value(field string) string {
	switch field {
	case "company_name":
		return str(s.CompanyName)
	case "contact_first_name":
		return str(s.ContactFirstName)
	case "contact_last_name":
		return str(s.ContactLastName)
	case "email":
		return str(s.Email)
	case "phone":
		return str(s.Phone)
	case "street":
		return str(s.Street)
	case "house_number":
		return str(s.HouseNumber)
	case "postal_code":
		return str(s.PostalCode)
	case "city":
		return str(s.City)
	case "description":
		return str(s.Description)
	}
	return ""
}

type Product struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	CategoryRef *string  `json:"category_ref,omitempty"`
	SellerRef   *string  `json:"seller_ref,omitempty"`
	Available   *bool    `json:"available,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

func (p Product) Value(field string) string {
	switch field {
	case "name":
		return str(p.Name)
	case "description":
		return str(p.Description)
	case "price":
		return num(p.Price)
	case "category_ref":
		return str(p.CategoryRef)
	case "seller_ref":
		return str(p.SellerRef)
	case "available":
		return boolean(p.Available)
	case "image_url":
		return str(p.ImageURL)
	}
	return ""
}

type Order struct {
	ProductRef      *string  `json:"product_ref,omitempty"`
	BuyerFirstName  *string  `json:"buyer_first_name,omitempty"`
	BuyerLastName   *string  `json:"buyer_last_name,omitempty"`
	BuyerEmail      *string  `json:"buyer_email,omitempty"`
	BuyerPhone      *string  `json:"buyer_phone,omitempty"`
	ShipStreet      *string  `json:"ship_street,omitempty"`
	ShipHouseNumber *string  `json:"ship_house_number,omitempty"`
	ShipPostalCode  *string  `json:"ship_postal_code,omitempty"`
	ShipCity        *string  `json:"ship_city,omitempty"`
	OrderDate       *string  `json:"order_date,omitempty"`
	TotalAmount     *float64 `json:"total_amount,omitempty"`
	Status          *string  `json:"status,omitempty"`
}

func (o Order) Value(field string) string {
	switch field {
	case "product_ref":
		return str(o.ProductRef)
	case "buyer_first_name":
		return str(o.BuyerFirstName)
	case "buyer_last_name":
		return str(o.BuyerLastName)
	case "buyer_email":
		return str(o.BuyerEmail)
	case "buyer_phone":
		return str(o.BuyerPhone)
	case "ship_street":
		return str(o.ShipStreet)
	case "ship_house_number":
		return str(o.ShipHouseNumber)
	case "ship_postal_code":
		return str(o.ShipPostalCode)
	case "ship_city":
		return str(o.ShipCity)
	case "order_date":
		return str(o.OrderDate)
	case "total_amount":
		return num(o.TotalAmount)
	case "status":
		return str(o.Status)
	}
	return ""
}

// StatusOrDefault returns the order status, treating absent or unknown values as new.
func (o Order) StatusOrDefault() enums.OrderStatus {
	return enums.OrderStatus(str(o.Status)).OrDefault()
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func num(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func boolean(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
