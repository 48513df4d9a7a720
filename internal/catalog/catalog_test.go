package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softmatrices/forique-sub000/internal/listing"
)

func TestDefault_LoadsEmbeddedFixtures(t *testing.T) {
	c, err := Default()

	require.NoError(t, err)
	assert.Len(t, c.Products, 12)
	assert.Len(t, c.Orders, 8)
	assert.Len(t, c.Customers, 6)
	assert.Len(t, c.Sellers, 6)
	assert.Len(t, c.Disputes, 4)
	assert.Len(t, c.Applications, 5)
	assert.False(t, c.Products[0].CreatedAt.IsZero())
}

func TestDefault_FillsDerivedFields(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	p, ok := c.ProductByID("PRD-1010")
	require.True(t, ok)
	assert.Equal(t, "layered-chain-necklace", p.Slug)

	// Products without an explicit original price are not discounted.
	p, ok = c.ProductByID("PRD-1002")
	require.True(t, ok)
	assert.Equal(t, p.Price, p.OriginalPrice)
}

func TestLoad_RejectsDuplicateProductIDs(t *testing.T) {
	doc := `
products:
  - id: P1
    name: A
  - id: P1
    name: B
`
	_, err := Load(strings.NewReader(doc))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate product id")
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	doc := `
products:
  - id: P1
    colour: red
`
	_, err := Load(strings.NewReader(doc))
	assert.Error(t, err)
}

func TestLoadFile_EmptyPathUsesDefault(t *testing.T) {
	c, err := LoadFile("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Products)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("/nonexistent/catalog.yaml")
	assert.Error(t, err)
}

func TestSellerSchema_ActiveSellers(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	got := listing.Apply(c.Sellers, SellerSchema, listing.Query{Facets: listing.Criteria{"status": {"Active"}}})

	require.Len(t, got, 4)
	assert.Equal(t, "SEL-01", got[0].ID)
	assert.Equal(t, "SEL-05", got[3].ID)
}

func TestProductSchema_UnratedProductsSortLast(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	got := listing.Apply(c.Products, ProductSchema, listing.Query{
		Sort: listing.SortSpec{Field: "rating", Direction: listing.Descending},
	})

	assert.Equal(t, "PRD-1007", got[len(got)-1].ID)
}

func TestSchemas_Validate(t *testing.T) {
	assert.NoError(t, OrderSchema.Validate(listing.Query{Facets: listing.Criteria{"payment_status": {"Paid"}}}))
	assert.NoError(t, DisputeSchema.Validate(listing.Query{Sort: listing.SortSpec{Field: "opened_at"}}))
	assert.Error(t, ApplicationSchema.Validate(listing.Query{Ranges: map[string]listing.Range{"price": {}}}))
	assert.Error(t, CustomerSchema.Validate(listing.Query{Sort: listing.SortSpec{Field: "price"}}))
}
