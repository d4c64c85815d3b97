package domain

import "time"

// Category groups items by waste/material type.
type Category struct {
	ID          string
	Name        string
	NameAr      string
	Description string
	Icon        string
	Active      bool
	CreatedAt   time.Time
}

// ItemCondition grades the physical state of a listed item.
type ItemCondition string

const (
	ConditionExcellent ItemCondition = "excellent"
	ConditionGood      ItemCondition = "good"
	ConditionFair      ItemCondition = "fair"
	ConditionPoor      ItemCondition = "poor"
	ConditionScrap     ItemCondition = "scrap"
)

// PriceType describes how the seller prices the item.
type PriceType string

const (
	PriceFree       PriceType = "free"
	PriceFixed      PriceType = "fixed"
	PriceNegotiable PriceType = "negotiable"
)

// ItemStatus is the moderation/sale lifecycle of a listing.
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusSold     ItemStatus = "sold"
	ItemStatusExpired  ItemStatus = "expired"
	ItemStatusRejected ItemStatus = "rejected"
)

// ContactMethod restricts how buyers may reach the seller.
type ContactMethod string

const (
	ContactPhone ContactMethod = "phone"
	ContactChat  ContactMethod = "chat"
	ContactBoth  ContactMethod = "both"
)

// Item is a reusable-waste listing.
type Item struct {
	ID              string
	Title           string
	Description     string
	CategoryID      string
	UserID          string
	Condition       ItemCondition
	Quantity        int
	Unit            string
	Price           *float64
	PriceType       PriceType
	Location        string
	ContactMethod   ContactMethod
	Status          ItemStatus
	Views           int
	InterestedCount int
	Featured        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ExpiresAt       *time.Time
}

// ReportType categorizes listing abuse reports.
type ReportType string

const (
	ReportInappropriate ReportType = "inappropriate_content"
	ReportFake          ReportType = "fake_item"
	ReportSpam          ReportType = "spam"
	ReportFraud         ReportType = "fraud"
	ReportOther         ReportType = "other"
)

// ReportStatus is the moderation state of a report.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportResolved ReportStatus = "resolved"
	ReportRejected ReportStatus = "rejected"
)

// ItemReport records a user flagging a listing for moderation.
type ItemReport struct {
	ID          string
	ItemID      string
	ReporterID  string
	Type        ReportType
	Description string
	Status      ReportStatus
	CreatedAt   time.Time
}

// ItemStats aggregates marketplace-wide listing counters.
type ItemStats struct {
	TotalItems  int
	ActiveItems int
	SoldItems   int
	TotalUsers  int
}
