package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"obak-storefront/internal/domain"
	"obak-storefront/internal/service/order"
)

var (
	// ErrEmptyCart is returned before any external call when the cart has
	// no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrContactRequired is returned before any external call when no
	// contact value was provided.
	ErrContactRequired = errors.New("contact required")
)

// Receipt describes a completed dispatch. Links is populated only by the
// messaging-link channel.
type Receipt struct {
	Channel string   `json:"channel"`
	Links   []string `json:"links,omitempty"`
}

// Dispatcher delivers a composed order through one outbound channel. The
// order description is composed once by the pipeline and shared across
// recipients.
type Dispatcher interface {
	Dispatch(ctx context.Context, req domain.OrderRequest, details string) (*Receipt, error)
}

type cartService interface {
	Snapshot(ctx context.Context, cartKey string) (domain.Cart, error)
	Clear(ctx context.Context, cartKey string) error
}

// Pipeline runs the checkout sequence: validate, compose, dispatch, clear.
// Any failure is terminal for the invocation — the cart is left intact so
// the shopper can retry, and no step is retried automatically.
type Pipeline struct {
	cart       cartService
	dispatcher Dispatcher
	logger     *log.Logger
}

func NewPipeline(cart cartService, dispatcher Dispatcher, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Pipeline{cart: cart, dispatcher: dispatcher, logger: logger}
}

// Checkout validates the cart and contact, composes the order once, hands
// it to the configured dispatcher and clears the cart only on full
// success.
func (p *Pipeline) Checkout(ctx context.Context, cartKey, contact string) (*Receipt, error) {
	snapshot, err := p.cart.Snapshot(ctx, cartKey)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if snapshot.Empty() {
		return nil, ErrEmptyCart
	}
	if strings.TrimSpace(contact) == "" {
		return nil, ErrContactRequired
	}

	req := order.Compose(snapshot, contact)
	details := order.Details(snapshot)

	receipt, err := p.dispatcher.Dispatch(ctx, req, details)
	if err != nil {
		p.logger.Printf("dispatch: checkout key=%s error=%v", cartKey, err)
		return nil, err
	}

	if err := p.cart.Clear(ctx, cartKey); err != nil {
		p.logger.Printf("dispatch: clear cart key=%s error=%v", cartKey, err)
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	return receipt, nil
}
