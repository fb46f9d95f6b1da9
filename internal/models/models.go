package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// ValidOrderStatus reports whether s is one of the four fulfillment states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

var ProductCategories = []string{
	"web-development",
	"mobile-apps",
	"data-science",
	"machine-learning",
	"desktop-apps",
	"games",
	"apis",
	"blockchain",
	"other",
}

var ProductDifficulties = []string{"beginner", "intermediate", "advanced"}

type Product struct {
	ID               uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	Title            string    `gorm:"not null"                   json:"title"`
	Description      string    `gorm:"not null"                   json:"description"`
	ShortDescription string    `json:"short_description,omitempty"`
	Price            float64   `gorm:"not null;check:price >= 0"  json:"price"`
	Category         string    `gorm:"not null;index"             json:"category"`
	Difficulty       string    `gorm:"not null"                   json:"difficulty"`
	TechStack        []string  `gorm:"serializer:json"            json:"tech_stack"`
	Features         []string  `gorm:"serializer:json"            json:"features,omitempty"`
	Thumbnail        string    `gorm:"not null"                   json:"thumbnail"`
	Images           []string  `gorm:"serializer:json"            json:"images,omitempty"`
	DeliveryType     string    `gorm:"not null"                   json:"delivery_type"`
	DeliveryTime     string    `json:"delivery_time,omitempty"`
	FileSize         string    `json:"file_size,omitempty"`
	Rating           float64   `gorm:"default:0"                  json:"rating"`
	ReviewCount      uint      `gorm:"default:0"                  json:"review_count"`
	InStock          bool      `json:"in_stock"`
	Featured         bool      `gorm:"index"                      json:"featured"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	Role      string `gorm:"not null"            json:"role"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

// CustomerInfo is embedded into orders so guest checkouts keep working
// contact data even without a user record.
type CustomerInfo struct {
	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"not null" json:"email"`
	Phone string `json:"phone,omitempty"`
}

// OrderItem is a snapshot of the product at order time. Title and price are
// copied from the catalog so later price edits never change placed orders.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"     json:"id"`
	OrderID   uint    `gorm:"index;not null"               json:"order_id"`
	ProductID uint    `gorm:"not null"                     json:"product_id"`
	Title     string  `gorm:"not null"                     json:"title"`
	Price     float64 `gorm:"not null"                     json:"price"`
	Quantity  uint    `gorm:"default:1;check:quantity > 0" json:"quantity"`
}

type Order struct {
	ID                uint         `gorm:"primaryKey;autoIncrement"          json:"id"`
	UserID            *uint        `gorm:"index"                             json:"user_id,omitempty"`
	CustomerInfo      CustomerInfo `gorm:"embedded;embeddedPrefix:customer_" json:"customer_info"`
	Items             []OrderItem  `json:"items"`
	TotalAmount       float64      `gorm:"not null"                          json:"total_amount"`
	Notes             string       `json:"notes,omitempty"`
	Status            string       `gorm:"not null;index"                    json:"status"`
	PaymentStatus     string       `gorm:"not null"                          json:"payment_status"`
	DeliveryLink      string       `json:"delivery_link,omitempty"`
	PaymentScreenshot string       `json:"payment_screenshot,omitempty"`
	StripeSessionID   string       `json:"stripe_session_id,omitempty"`
	DeliveredAt       *time.Time   `json:"delivered_at,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

const (
	SettingTypeString  = "string"
	SettingTypeNumber  = "number"
	SettingTypeBoolean = "boolean"
	SettingTypeJSON    = "json"
	SettingTypeImage   = "image"
)

// UpiQrKey is the settings key the checkout page reads for the UPI QR image.
const UpiQrKey = "upi_qr_code"

// Setting stores one configuration value as an opaque string plus a type
// tag. Callers decode through the typed accessors at the point of use.
type Setting struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Key   string `gorm:"uniqueIndex;not null"     json:"key"`
	Value string `json:"value"`
	Type  string `gorm:"not null"                 json:"type"`
}

func ValidSettingType(t string) bool {
	switch t {
	case SettingTypeString, SettingTypeNumber, SettingTypeBoolean, SettingTypeJSON, SettingTypeImage:
		return true
	}
	return false
}

func (s *Setting) Bool() (bool, error) {
	if s.Type != SettingTypeBoolean {
		return false, fmt.Errorf("setting %q is %s, not boolean", s.Key, s.Type)
	}
	return strconv.ParseBool(s.Value)
}

func (s *Setting) Number() (float64, error) {
	if s.Type != SettingTypeNumber {
		return 0, fmt.Errorf("setting %q is %s, not number", s.Key, s.Type)
	}
	return strconv.ParseFloat(s.Value, 64)
}

func (s *Setting) JSON(v any) error {
	if s.Type != SettingTypeJSON {
		return fmt.Errorf("setting %q is %s, not json", s.Key, s.Type)
	}
	return json.Unmarshal([]byte(s.Value), v)
}
