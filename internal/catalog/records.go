package catalog

import "time"

// Product is a marketplace listing as shown on product grids.
type Product struct {
	ID            string    `json:"id" yaml:"id"`
	Slug          string    `json:"slug" yaml:"slug"`
	Name          string    `json:"name" yaml:"name"`
	Category      string    `json:"category" yaml:"category"`
	Material      string    `json:"material" yaml:"material"`
	SellerID      string    `json:"seller_id" yaml:"seller_id"`
	SellerName    string    `json:"seller_name" yaml:"seller_name"`
	Price         int64     `json:"price" yaml:"price"`
	OriginalPrice int64     `json:"original_price" yaml:"original_price"`
	Stock         int       `json:"stock" yaml:"stock"`
	Rating        float64   `json:"rating" yaml:"rating"`
	Reviews       int       `json:"reviews" yaml:"reviews"`
	Status        string    `json:"status" yaml:"status"`
	ImageRef      string    `json:"image_ref" yaml:"image_ref"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// Order is a placed order as listed in the admin and seller portals.
type Order struct {
	ID            string    `json:"id" yaml:"id"`
	CustomerID    string    `json:"customer_id" yaml:"customer_id"`
	CustomerName  string    `json:"customer_name" yaml:"customer_name"`
	CustomerEmail string    `json:"customer_email" yaml:"customer_email"`
	SellerID      string    `json:"seller_id" yaml:"seller_id"`
	Items         int       `json:"items" yaml:"items"`
	Total         int64     `json:"total" yaml:"total"`
	Status        string    `json:"status" yaml:"status"`
	PaymentStatus string    `json:"payment_status" yaml:"payment_status"`
	PlacedAt      time.Time `json:"placed_at" yaml:"placed_at"`
}

// Customer is a buyer account.
type Customer struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Email      string    `json:"email" yaml:"email"`
	Phone      string    `json:"phone" yaml:"phone"`
	City       string    `json:"city" yaml:"city"`
	Orders     int       `json:"orders" yaml:"orders"`
	TotalSpent int64     `json:"total_spent" yaml:"total_spent"`
	Status     string    `json:"status" yaml:"status"`
	JoinedAt   time.Time `json:"joined_at" yaml:"joined_at"`
}

// Seller is a store on the marketplace.
type Seller struct {
	ID        string    `json:"id" yaml:"id"`
	StoreName string    `json:"store_name" yaml:"store_name"`
	Owner     string    `json:"owner" yaml:"owner"`
	Email     string    `json:"email" yaml:"email"`
	Category  string    `json:"category" yaml:"category"`
	Status    string    `json:"status" yaml:"status"`
	Products  int       `json:"products" yaml:"products"`
	Revenue   int64     `json:"revenue" yaml:"revenue"`
	Rating    float64   `json:"rating" yaml:"rating"`
	JoinedAt  time.Time `json:"joined_at" yaml:"joined_at"`
}

// Dispute is a buyer complaint raised against an order.
type Dispute struct {
	ID           string    `json:"id" yaml:"id"`
	OrderID      string    `json:"order_id" yaml:"order_id"`
	CustomerName string    `json:"customer_name" yaml:"customer_name"`
	SellerID     string    `json:"seller_id" yaml:"seller_id"`
	Reason       string    `json:"reason" yaml:"reason"`
	Amount       int64     `json:"amount" yaml:"amount"`
	Status       string    `json:"status" yaml:"status"`
	Priority     string    `json:"priority" yaml:"priority"`
	OpenedAt     time.Time `json:"opened_at" yaml:"opened_at"`
}

// Application is a seller onboarding request awaiting review.
type Application struct {
	ID           string    `json:"id" yaml:"id"`
	BusinessName string    `json:"business_name" yaml:"business_name"`
	Applicant    string    `json:"applicant" yaml:"applicant"`
	Email        string    `json:"email" yaml:"email"`
	Category     string    `json:"category" yaml:"category"`
	Status       string    `json:"status" yaml:"status"`
	SubmittedAt  time.Time `json:"submitted_at" yaml:"submitted_at"`
}

// Status values that carry meaning for derived metrics.
const (
	StatusActive  = "Active"
	StatusPending = "Pending"

	OrderCancelled = "Cancelled"
	OrderRefunded  = "Refunded"

	DisputeOpen      = "Open"
	DisputeInReview  = "In Review"
	DisputeEscalated = "Escalated"
	DisputeResolved  = "Resolved"
)
