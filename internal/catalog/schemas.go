package catalog

import (
	"time"

	"github.com/softmatrices/forique-sub000/internal/listing"
)

// Listing schemas, one per listing page. Facet and sort names are the query
// parameter names accepted by the listings API.

var ProductSchema = listing.Schema[Product]{
	Name: "products",
	Search: []func(Product) string{
		func(p Product) string { return p.Name },
		func(p Product) string { return p.ID },
		func(p Product) string { return p.SellerName },
		func(p Product) string { return p.Material },
	},
	Facets: map[string]func(Product) string{
		"category": func(p Product) string { return p.Category },
		"status":   func(p Product) string { return p.Status },
		"seller":   func(p Product) string { return p.SellerID },
		"material": func(p Product) string { return p.Material },
	},
	Ranges: map[string]func(Product) int64{
		"price": func(p Product) int64 { return p.Price },
		"stock": func(p Product) int64 { return int64(p.Stock) },
	},
	Sorts: map[string]listing.SortField[Product]{
		"name":       listing.StringField(func(p Product) string { return p.Name }),
		"price":      listing.Int64Field(func(p Product) int64 { return p.Price }),
		"stock":      listing.Int64Field(func(p Product) int64 { return int64(p.Stock) }),
		"rating":     listing.OptionalNumberField(func(p Product) (float64, bool) { return p.Rating, p.Reviews > 0 }),
		"created_at": listing.TimeField(func(p Product) time.Time { return p.CreatedAt }),
	},
}

var OrderSchema = listing.Schema[Order]{
	Name: "orders",
	Search: []func(Order) string{
		func(o Order) string { return o.ID },
		func(o Order) string { return o.CustomerName },
		func(o Order) string { return o.CustomerEmail },
	},
	Facets: map[string]func(Order) string{
		"status":         func(o Order) string { return o.Status },
		"payment_status": func(o Order) string { return o.PaymentStatus },
		"seller":         func(o Order) string { return o.SellerID },
	},
	Ranges: map[string]func(Order) int64{
		"total": func(o Order) int64 { return o.Total },
	},
	Sorts: map[string]listing.SortField[Order]{
		"id":        listing.StringField(func(o Order) string { return o.ID }),
		"customer":  listing.StringField(func(o Order) string { return o.CustomerName }),
		"total":     listing.Int64Field(func(o Order) int64 { return o.Total }),
		"items":     listing.Int64Field(func(o Order) int64 { return int64(o.Items) }),
		"placed_at": listing.TimeField(func(o Order) time.Time { return o.PlacedAt }),
	},
}

var CustomerSchema = listing.Schema[Customer]{
	Name: "customers",
	Search: []func(Customer) string{
		func(c Customer) string { return c.Name },
		func(c Customer) string { return c.Email },
		func(c Customer) string { return c.ID },
		func(c Customer) string { return c.Phone },
	},
	Facets: map[string]func(Customer) string{
		"status": func(c Customer) string { return c.Status },
		"city":   func(c Customer) string { return c.City },
	},
	Ranges: map[string]func(Customer) int64{
		"total_spent": func(c Customer) int64 { return c.TotalSpent },
	},
	Sorts: map[string]listing.SortField[Customer]{
		"name":        listing.StringField(func(c Customer) string { return c.Name }),
		"orders":      listing.Int64Field(func(c Customer) int64 { return int64(c.Orders) }),
		"total_spent": listing.Int64Field(func(c Customer) int64 { return c.TotalSpent }),
		"joined_at":   listing.TimeField(func(c Customer) time.Time { return c.JoinedAt }),
	},
}

var SellerSchema = listing.Schema[Seller]{
	Name: "sellers",
	Search: []func(Seller) string{
		func(s Seller) string { return s.StoreName },
		func(s Seller) string { return s.Owner },
		func(s Seller) string { return s.Email },
		func(s Seller) string { return s.ID },
	},
	Facets: map[string]func(Seller) string{
		"status":   func(s Seller) string { return s.Status },
		"category": func(s Seller) string { return s.Category },
	},
	Ranges: map[string]func(Seller) int64{
		"revenue": func(s Seller) int64 { return s.Revenue },
	},
	Sorts: map[string]listing.SortField[Seller]{
		"store_name": listing.StringField(func(s Seller) string { return s.StoreName }),
		"products":   listing.Int64Field(func(s Seller) int64 { return int64(s.Products) }),
		"revenue":    listing.Int64Field(func(s Seller) int64 { return s.Revenue }),
		"rating":     listing.OptionalNumberField(func(s Seller) (float64, bool) { return s.Rating, s.Rating > 0 }),
		"joined_at":  listing.TimeField(func(s Seller) time.Time { return s.JoinedAt }),
	},
}

var DisputeSchema = listing.Schema[Dispute]{
	Name: "disputes",
	Search: []func(Dispute) string{
		func(d Dispute) string { return d.ID },
		func(d Dispute) string { return d.OrderID },
		func(d Dispute) string { return d.CustomerName },
		func(d Dispute) string { return d.Reason },
	},
	Facets: map[string]func(Dispute) string{
		"status":   func(d Dispute) string { return d.Status },
		"priority": func(d Dispute) string { return d.Priority },
		"seller":   func(d Dispute) string { return d.SellerID },
	},
	Ranges: map[string]func(Dispute) int64{
		"amount": func(d Dispute) int64 { return d.Amount },
	},
	Sorts: map[string]listing.SortField[Dispute]{
		"amount":    listing.Int64Field(func(d Dispute) int64 { return d.Amount }),
		"opened_at": listing.TimeField(func(d Dispute) time.Time { return d.OpenedAt }),
		"customer":  listing.StringField(func(d Dispute) string { return d.CustomerName }),
	},
}

var ApplicationSchema = listing.Schema[Application]{
	Name: "applications",
	Search: []func(Application) string{
		func(a Application) string { return a.BusinessName },
		func(a Application) string { return a.Applicant },
		func(a Application) string { return a.Email },
		func(a Application) string { return a.ID },
	},
	Facets: map[string]func(Application) string{
		"status":   func(a Application) string { return a.Status },
		"category": func(a Application) string { return a.Category },
	},
	Sorts: map[string]listing.SortField[Application]{
		"business_name": listing.StringField(func(a Application) string { return a.BusinessName }),
		"submitted_at":  listing.TimeField(func(a Application) time.Time { return a.SubmittedAt }),
	},
}
