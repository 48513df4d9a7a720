package service

import (
	"context"
	"log/slog"
	"net/url"
	"slices"

	"github.com/softmatrices/forique-sub000/internal/catalog"
	"github.com/softmatrices/forique-sub000/internal/listing"
	apperrors "github.com/softmatrices/forique-sub000/pkg/errors"
	"github.com/softmatrices/forique-sub000/pkg/pagination"
)

// Listing resource names.
const (
	ResourceProducts     = "products"
	ResourceOrders       = "orders"
	ResourceCustomers    = "customers"
	ResourceSellers      = "sellers"
	ResourceDisputes     = "disputes"
	ResourceApplications = "applications"
)

// resource runs the listing pipeline over one record type.
type resource interface {
	query(values url.Values, p pagination.Params) (any, int, error)
	facetCounts(values url.Values, facet string) ([]listing.FacetCount, error)
}

type collection[T any] struct {
	items  []T
	schema listing.Schema[T]
}

func (c collection[T]) query(values url.Values, p pagination.Params) (any, int, error) {
	q, err := listing.FromValues(values, c.schema)
	if err != nil {
		return nil, 0, err
	}

	matched := listing.Apply(c.items, c.schema, q)
	return pagination.NewResult(listing.Page(matched, p), len(matched), p), len(matched), nil
}

func (c collection[T]) facetCounts(values url.Values, facet string) ([]listing.FacetCount, error) {
	if _, ok := c.schema.Facets[facet]; !ok {
		return nil, apperrors.NotFound("facet", facet)
	}

	q, err := listing.FromValues(values, c.schema)
	if err != nil {
		return nil, err
	}

	counts, _ := listing.MatchingFacetCounts(c.items, c.schema, q, facet)
	return counts, nil
}

// ListingService serves filtered, sorted and paginated views of the catalog
// tables shown on the storefront, seller and admin grids.
type ListingService struct {
	resources map[string]resource
	logger    *slog.Logger
}

// NewListingService creates a listing service over the records in c.
func NewListingService(c *catalog.Catalog, logger *slog.Logger) *ListingService {
	return &ListingService{
		resources: map[string]resource{
			ResourceProducts:     collection[catalog.Product]{items: c.Products, schema: catalog.ProductSchema},
			ResourceOrders:       collection[catalog.Order]{items: c.Orders, schema: catalog.OrderSchema},
			ResourceCustomers:    collection[catalog.Customer]{items: c.Customers, schema: catalog.CustomerSchema},
			ResourceSellers:      collection[catalog.Seller]{items: c.Sellers, schema: catalog.SellerSchema},
			ResourceDisputes:     collection[catalog.Dispute]{items: c.Disputes, schema: catalog.DisputeSchema},
			ResourceApplications: collection[catalog.Application]{items: c.Applications, schema: catalog.ApplicationSchema},
		},
		logger: logger,
	}
}

// Resources returns the names of the listable resources in sorted order.
func (s *ListingService) Resources() []string {
	names := make([]string, 0, len(s.resources))
	for name := range s.resources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Query runs the pipeline described by values over the named resource and
// returns one page of the result as a pagination.Result.
func (s *ListingService) Query(ctx context.Context, name string, values url.Values, p pagination.Params) (any, error) {
	res, ok := s.resources[name]
	if !ok {
		return nil, apperrors.NotFound("listing", name)
	}

	result, matched, err := res.query(values, p)
	if err != nil {
		return nil, err
	}

	listingQueries.WithLabelValues(name).Inc()
	s.logger.DebugContext(ctx, "listing queried",
		slog.String("resource", name),
		slog.Int("matched", matched),
		slog.Int("page", p.Page),
	)

	return result, nil
}

// FacetCounts returns the value counts of one facet of the named resource
// over the records matching the query in values.
func (s *ListingService) FacetCounts(_ context.Context, name, facet string, values url.Values) ([]listing.FacetCount, error) {
	res, ok := s.resources[name]
	if !ok {
		return nil, apperrors.NotFound("listing", name)
	}
	return res.facetCounts(values, facet)
}
