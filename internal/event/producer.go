package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/softmatrices/forique-sub000/internal/domain"
	pkgkafka "github.com/softmatrices/forique-sub000/pkg/kafka"
	"github.com/softmatrices/forique-sub000/pkg/logger"
)

// Event types of storefront session events.
const (
	EventCartUpdated     = "cart.updated"
	EventCartCleared     = "cart.cleared"
	EventWishlistUpdated = "wishlist.updated"
	EventProductViewed   = "product.viewed"
)

// Kafka topics the event types are published to.
const (
	TopicCartUpdated     = pkgkafka.TopicPrefix + "." + EventCartUpdated
	TopicCartCleared     = pkgkafka.TopicPrefix + "." + EventCartCleared
	TopicWishlistUpdated = pkgkafka.TopicPrefix + "." + EventWishlistUpdated
	TopicProductViewed   = pkgkafka.TopicPrefix + "." + EventProductViewed
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
	AggregateTypeProduct  = "product"
)

// SourceStorefront identifies events originating from the storefront service.
const SourceStorefront = "storefront-service"

// Publisher emits session change notifications. Failures are reported to the
// caller, which decides whether they matter.
type Publisher interface {
	PublishCartUpdated(ctx context.Context, sessionID string, cart *domain.Cart) error
	PublishCartCleared(ctx context.Context, sessionID string) error
	PublishWishlistUpdated(ctx context.Context, sessionID string, wishlist *domain.Wishlist) error
	PublishProductViewed(ctx context.Context, sessionID string, product domain.ViewedProduct) error
}

// Writer is the subset of the Kafka producer the event producer needs.
type Writer interface {
	Publish(ctx context.Context, event *pkgkafka.Event) error
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID   string         `json:"session_id"`
	Items       []CartItemData `json:"items"`
	ItemCount   int            `json:"item_count"`
	TotalAmount int64          `json:"total_amount"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID  string `json:"product_id"`
	VariantKey string `json:"variant_key,omitempty"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unit_price"`
	Quantity   int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	SessionID  string   `json:"session_id"`
	ProductIDs []string `json:"product_ids"`
	Count      int      `json:"count"`
	Savings    int64    `json:"savings"`
}

// ProductViewedData is the payload for a product.viewed event.
type ProductViewedData struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
}

// Producer publishes session events to Kafka.
type Producer struct {
	writer Writer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(writer Writer, logger *slog.Logger) *Producer {
	return &Producer{
		writer: writer,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, cart *domain.Cart) error {
	items := make([]CartItemData, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemData{
			ProductID:  item.ProductID,
			VariantKey: item.VariantKey,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
		}
	}

	data := CartUpdatedData{
		SessionID:   sessionID,
		Items:       items,
		ItemCount:   cart.ItemCount(),
		TotalAmount: cart.Total(),
	}

	if err := p.publish(ctx, EventCartUpdated, sessionID, sessionID, AggregateTypeCart, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", sessionID),
		slog.Int("item_count", data.ItemCount),
	)
	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	if err := p.publish(ctx, EventCartCleared, sessionID, sessionID, AggregateTypeCart, CartClearedData{SessionID: sessionID}); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
	)
	return nil
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, sessionID string, wishlist *domain.Wishlist) error {
	ids := make([]string, len(wishlist.Entries))
	for i, e := range wishlist.Entries {
		ids[i] = e.ProductID
	}

	data := WishlistUpdatedData{
		SessionID:  sessionID,
		ProductIDs: ids,
		Count:      wishlist.Count(),
		Savings:    wishlist.Savings(),
	}

	return p.publish(ctx, EventWishlistUpdated, sessionID, sessionID, AggregateTypeWishlist, data)
}

// PublishProductViewed publishes a product.viewed event keyed by product.
func (p *Producer) PublishProductViewed(ctx context.Context, sessionID string, product domain.ViewedProduct) error {
	data := ProductViewedData{
		SessionID: sessionID,
		ProductID: product.ProductID,
		Name:      product.Name,
		Price:     product.Price,
	}

	return p.publish(ctx, EventProductViewed, sessionID, product.ProductID, AggregateTypeProduct, data)
}

func (p *Producer) publish(ctx context.Context, eventType, sessionID, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(eventType, aggregateID, aggregateType, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	event.WithSessionID(sessionID)
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.writer.Publish(ctx, event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}

// NoopPublisher discards every event. It is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishCartUpdated(context.Context, string, *domain.Cart) error { return nil }

func (NoopPublisher) PublishCartCleared(context.Context, string) error { return nil }

func (NoopPublisher) PublishWishlistUpdated(context.Context, string, *domain.Wishlist) error {
	return nil
}

func (NoopPublisher) PublishProductViewed(context.Context, string, domain.ViewedProduct) error {
	return nil
}
