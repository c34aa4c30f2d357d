package email

import "time"

// Template is a message that can be rendered by Service.
type Template interface {
	Subject() string
	TemplateName() string
}

// OrderConfirmationEmail is sent after a successful checkout.
type OrderConfirmationEmail struct {
	ShopName     string
	OrderID      int64
	Email        string
	CustomerName string
	OrderDate    time.Time
	Items        []OrderItem
	TotalCents   int64
	ShippingAddr Address
	OrderURL     string
}

func (e OrderConfirmationEmail) Subject() string {
	return "Order Confirmation - #" + itoa(e.OrderID)
}

func (e OrderConfirmationEmail) TemplateName() string {
	return "order_confirmation"
}

// OrderStatusEmail is sent when staff move an order to shipped or
// delivered.
type OrderStatusEmail struct {
	ShopName       string
	OrderID        int64
	Email          string
	CustomerName   string
	Status         string
	TrackingNumber string
	OrderURL       string
}

func (e OrderStatusEmail) Subject() string {
	return "Your order #" + itoa(e.OrderID) + " is " + e.Status
}

func (e OrderStatusEmail) TemplateName() string {
	return "order_status"
}

// OrderItem is a line in an order email.
type OrderItem struct {
	Name       string
	Quantity   int32
	PriceCents int64
	TotalCents int64
}

// Address is a shipping address in an order email.
type Address struct {
	Name    string
	Line1   string
	City    string
	State   string
	ZipCode string
	Country string
	Phone   string
}
