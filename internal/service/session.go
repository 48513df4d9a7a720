package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/softmatrices/forique-sub000/internal/catalog"
	"github.com/softmatrices/forique-sub000/internal/domain"
	"github.com/softmatrices/forique-sub000/internal/event"
	"github.com/softmatrices/forique-sub000/internal/repository"
	apperrors "github.com/softmatrices/forique-sub000/pkg/errors"
	"github.com/softmatrices/forique-sub000/pkg/tracing"
)

// Session operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single cart line.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct lines allowed in a cart.
	MaxItemsPerCart = 50
	// MaxWishlistEntries is the maximum number of saved products.
	MaxWishlistEntries = 200

	maxSaveAttempts = 3
)

// AddItemInput holds the parameters for adding an item to the cart. A
// quantity below 1 is treated as 1.
type AddItemInput struct {
	ProductID  string `json:"product_id" validate:"required,max=64,identifier"`
	VariantKey string `json:"variant_key" validate:"omitempty,max=64,identifier"`
	Name       string `json:"name" validate:"required,max=200"`
	UnitPrice  int64  `json:"unit_price" validate:"gte=0"`
	Quantity   int    `json:"quantity" validate:"lte=100"`
	ImageRef   string `json:"image_ref" validate:"max=500"`
}

// UpdateQuantityInput holds the parameters for updating a line quantity. A
// quantity of zero or less removes the line.
type UpdateQuantityInput struct {
	Quantity int `json:"quantity" validate:"lte=100"`
}

// WishlistInput holds the parameters for saving a product to the wishlist.
type WishlistInput struct {
	ProductID     string `json:"product_id" validate:"required,max=64,identifier"`
	Name          string `json:"name" validate:"required,max=200"`
	Price         int64  `json:"price" validate:"gte=0"`
	OriginalPrice int64  `json:"original_price" validate:"gte=0"`
	ImageRef      string `json:"image_ref" validate:"max=500"`
}

// MoveToCartInput selects the variant a wishlist entry is moved into the
// cart as.
type MoveToCartInput struct {
	VariantKey string `json:"variant_key" validate:"omitempty,max=64,identifier"`
	Quantity   int    `json:"quantity" validate:"lte=100"`
}

// ViewInput records a product page view.
type ViewInput struct {
	ProductID string `json:"product_id" validate:"required,max=64,identifier"`
}

// ProductLookup resolves catalog products by ID.
type ProductLookup interface {
	ProductByID(id string) (catalog.Product, bool)
}

// SessionService implements the business logic for the cart, wishlist and
// recently viewed stores of a browser session.
type SessionService struct {
	repo        repository.SessionRepository
	publisher   event.Publisher
	products    ProductLookup
	logger      *slog.Logger
	ttl         time.Duration
	recentLimit int
	nowFunc     func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(
	repo repository.SessionRepository,
	publisher event.Publisher,
	products ProductLookup,
	logger *slog.Logger,
	ttl time.Duration,
	recentLimit int,
) *SessionService {
	if recentLimit <= 0 {
		recentLimit = domain.DefaultRecentlyViewedLimit
	}
	return &SessionService{
		repo:        repo,
		publisher:   publisher,
		products:    products,
		logger:      logger,
		ttl:         ttl,
		recentLimit: recentLimit,
		nowFunc:     time.Now,
	}
}

// GetSession returns the session for sessionID. An unknown session yields a
// new empty one, which is not persisted until the first mutation.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	return s.load(ctx, sessionID)
}

// AddItem adds a line to the cart, merging with an existing line of the same
// product and variant.
func (s *SessionService) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*domain.Session, error) {
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.UnitPrice < 0 {
		return nil, apperrors.InvalidInput("unit price must not be negative")
	}
	if input.Quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	session, err := s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		cart := sess.Cart
		if i := cart.FindItemIndex(input.ProductID, input.VariantKey); i >= 0 {
			if cart.Items[i].Quantity+max(input.Quantity, 1) > MaxQuantityPerItem {
				return apperrors.InvalidInput(fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerItem))
			}
		} else if len(cart.Items) >= MaxItemsPerCart {
			return apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
		}

		cart.AddItem(domain.LineItem{
			ProductID:  input.ProductID,
			VariantKey: input.VariantKey,
			Name:       input.Name,
			UnitPrice:  input.UnitPrice,
			Quantity:   input.Quantity,
			ImageRef:   input.ImageRef,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sessionMutations.WithLabelValues("cart", "add").Inc()
	s.publishCartUpdated(ctx, session)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.ProductID),
		slog.String("variant_key", input.VariantKey),
		slog.Int("quantity", input.Quantity),
	)

	return session, nil
}

// UpdateItemQuantity sets the quantity of a cart line. A quantity of zero or
// less removes the line; an unknown line is left alone.
func (s *SessionService) UpdateItemQuantity(ctx context.Context, sessionID, productID, variantKey string, quantity int) (*domain.Session, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	session, err := s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		sess.Cart.UpdateQuantity(productID, variantKey, quantity)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sessionMutations.WithLabelValues("cart", "update").Inc()
	s.publishCartUpdated(ctx, session)

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.String("variant_key", variantKey),
		slog.Int("quantity", quantity),
	)

	return session, nil
}

// RemoveItem removes a cart line. Removing an unknown line is not an error.
func (s *SessionService) RemoveItem(ctx context.Context, sessionID, productID, variantKey string) (*domain.Session, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	session, err := s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		sess.Cart.RemoveItem(productID, variantKey)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sessionMutations.WithLabelValues("cart", "remove").Inc()
	s.publishCartUpdated(ctx, session)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.String("variant_key", variantKey),
	)

	return session, nil
}

// ClearCart removes every line from the cart.
func (s *SessionService) ClearCart(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		sess.Cart.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sessionMutations.WithLabelValues("cart", "clear").Inc()
	if err := s.publisher.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return session, nil
}

// AddToWishlist saves a product, refreshing its display fields when it is
// already saved.
func (s *SessionService) AddToWishlist(ctx context.Context, sessionID string, input WishlistInput) (*domain.Session, error) {
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	session, err := s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if !sess.Wishlist.Contains(input.ProductID) && sess.Wishlist.Count() >= MaxWishlistEntries {
			return apperrors.InvalidInput(fmt.Sprintf("wishlist must not contain more than %d items", MaxWishlistEntries))
		}
		sess.Wishlist.Add(domain.WishlistEntry{
			ProductID:     input.ProductID,
			Name:          input.Name,
			Price:         input.Price,
			OriginalPrice: input.OriginalPrice,
			ImageRef:      input.ImageRef,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sessionMutations.WithLabelValues("wishlist", "add").Inc()
	s.publishWishlistUpdated(ctx, session)

	s.logger.InfoContext(ctx, "product saved to wishlist",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.ProductID),
	)

	return session, nil
}

// ToggleWishlist saves a catalog product when it is not saved and removes it
// otherwise. It reports whether the product is saved afterwards.
func (s *SessionService) ToggleWishlist(ctx context.Context, sessionID, productID string) (*domain.Session, bool, error) {
	product, ok := s.products.ProductByID(productID)
	if !ok {
		return nil, false, apperrors.NotFound("product", productID)
	}

	var saved bool
	session, err := s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		if !sess.Wishlist.Contains(productID) && sess.Wishlist.Count() >= MaxWishlistEntries {
			return apperrors.InvalidInput(fmt.Sprintf("wishlist must not contain more than %d items", MaxWishlistEntries))
		}
		saved = sess.Wishlist.Toggle(wishlistEntryFromProduct(product))
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	sessionMutations.WithLabelValues("wishlist", "toggle").Inc()
	s.publishWishlistUpdated(ctx, session)

	s.logger.InfoContext(ctx, "wishlist toggled",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.Bool("saved", saved),
	)

	return session, saved, nil
}

// RemoveFromWishlist removes a saved product. Removing an unknown product is
// not an error.
func (s *SessionService) RemoveFromWishlist(ctx context.Context, sessionID, productID string) (*domain.Session, error) {
	session, err := s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		sess.Wishlist.Remove(productID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sessionMutations.WithLabelValues("wishlist", "remove").Inc()
	s.publishWishlistUpdated(ctx, session)

	s.logger.InfoContext(ctx, "product removed from wishlist",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
	)

	return session, nil
}

// ClearWishlist removes every saved product.
func (s *SessionService) ClearWishlist(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		sess.Wishlist.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sessionMutations.WithLabelValues("wishlist", "clear").Inc()
	s.publishWishlistUpdated(ctx, session)

	s.logger.InfoContext(ctx, "wishlist cleared",
		slog.String("session_id", sessionID),
	)

	return session, nil
}

// MoveToCart moves a saved product into the cart in one save. The product
// must be on the wishlist.
func (s *SessionService) MoveToCart(ctx context.Context, sessionID, productID string, input MoveToCartInput) (*domain.Session, error) {
	if input.Quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	session, err := s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		entry, ok := sess.Wishlist.Get(productID)
		if !ok {
			return apperrors.NotFound("wishlist entry", productID)
		}

		cart := sess.Cart
		if i := cart.FindItemIndex(productID, input.VariantKey); i >= 0 {
			if cart.Items[i].Quantity+max(input.Quantity, 1) > MaxQuantityPerItem {
				return apperrors.InvalidInput(fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerItem))
			}
		} else if len(cart.Items) >= MaxItemsPerCart {
			return apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
		}

		cart.AddItem(domain.LineItem{
			ProductID:  entry.ProductID,
			VariantKey: input.VariantKey,
			Name:       entry.Name,
			UnitPrice:  entry.Price,
			Quantity:   input.Quantity,
			ImageRef:   entry.ImageRef,
		})
		sess.Wishlist.Remove(productID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sessionMutations.WithLabelValues("wishlist", "move_to_cart").Inc()
	s.publishCartUpdated(ctx, session)
	s.publishWishlistUpdated(ctx, session)

	s.logger.InfoContext(ctx, "wishlist entry moved to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.String("variant_key", input.VariantKey),
	)

	return session, nil
}

// RecordView pushes a catalog product to the front of the recently viewed
// list.
func (s *SessionService) RecordView(ctx context.Context, sessionID, productID string) (*domain.Session, error) {
	product, ok := s.products.ProductByID(productID)
	if !ok {
		return nil, apperrors.NotFound("product", productID)
	}

	viewed := domain.ViewedProduct{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageRef:  product.ImageRef,
		ViewedAt:  s.nowFunc().UTC(),
	}

	session, err := s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		sess.RecentlyViewed.Push(viewed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sessionMutations.WithLabelValues("recently_viewed", "push").Inc()
	if err := s.publisher.PublishProductViewed(ctx, sessionID, viewed); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.viewed event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.DebugContext(ctx, "product view recorded",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
	)

	return session, nil
}

// ClearRecentlyViewed empties the recently viewed list.
func (s *SessionService) ClearRecentlyViewed(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.mutate(ctx, sessionID, func(sess *domain.Session) error {
		sess.RecentlyViewed.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sessionMutations.WithLabelValues("recently_viewed", "clear").Inc()
	return session, nil
}

// mutate loads the session, applies fn and saves the result with an
// optimistic version check, reloading and reapplying fn on a conflict.
func (s *SessionService) mutate(ctx context.Context, sessionID string, fn func(*domain.Session) error) (_ *domain.Session, err error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	ctx, span := tracing.Tracer("service").Start(ctx, "SessionService.mutate",
		trace.WithAttributes(attribute.String("storefront.session_id", sessionID)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		session, err := s.load(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		expectedVersion := session.Version
		if err := fn(session); err != nil {
			return nil, err
		}
		session.Touch(s.nowFunc().UTC(), s.ttl)

		ok, err := s.repo.SaveIfVersion(ctx, session, expectedVersion)
		if err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		if ok {
			span.SetAttributes(
				attribute.Int("storefront.save_attempts", attempt),
				attribute.Int("storefront.session_version", session.Version),
			)
			return session, nil
		}

		sessionConflicts.Inc()
		span.AddEvent("version conflict", trace.WithAttributes(
			attribute.Int("attempt", attempt),
			attribute.Int("expected_version", expectedVersion),
		))
		s.logger.WarnContext(ctx, "session modified concurrently",
			slog.String("session_id", sessionID),
			slog.Int("attempt", attempt),
		)
	}

	span.SetAttributes(attribute.Int("storefront.save_attempts", maxSaveAttempts))
	return nil, apperrors.Conflict("session was modified concurrently, please retry")
}

// load retrieves the session, replacing a missing or expired one with an
// empty session that keeps the stored version.
func (s *SessionService) load(ctx context.Context, sessionID string) (*domain.Session, error) {
	now := s.nowFunc().UTC()

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewSession(sessionID, now, s.ttl, s.recentLimit), nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(now) {
		fresh := domain.NewSession(sessionID, now, s.ttl, s.recentLimit)
		fresh.Version = session.Version
		return fresh, nil
	}

	session.Normalize(s.recentLimit)
	return session, nil
}

func (s *SessionService) publishCartUpdated(ctx context.Context, session *domain.Session) {
	if err := s.publisher.PublishCartUpdated(ctx, session.ID, session.Cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *SessionService) publishWishlistUpdated(ctx context.Context, session *domain.Session) {
	if err := s.publisher.PublishWishlistUpdated(ctx, session.ID, session.Wishlist); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}
}

func wishlistEntryFromProduct(p catalog.Product) domain.WishlistEntry {
	return domain.WishlistEntry{
		ProductID:     p.ID,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		ImageRef:      p.ImageRef,
	}
}
