package dispatch

import (
	"context"
	"fmt"
	"io"
	"log"

	"obak-storefront/internal/config"
	"obak-storefront/internal/domain"
	"obak-storefront/internal/emailjs"
)

type emailClient interface {
	Send(ctx context.Context, m emailjs.Message) error
}

type salesCounter interface {
	GetSales(ctx context.Context, id string) (int, error)
	SetSales(ctx context.Context, id string, sales int) error
}

type emailRole struct {
	name    string
	toEmail string
	route   config.EmailRoute
}

// EmailDispatcher notifies the three recipient roles sequentially in a
// fixed order (customer, agent, manager), then reconciles the per-product
// sales counters, also sequentially. The first error stops everything:
// later recipients are not notified and counters are not touched. A
// counter failure after the sends is still reported as a checkout failure
// even though the emails already went out.
type EmailDispatcher struct {
	client        emailClient
	customerRoute config.EmailRoute
	agent         emailRole
	manager       emailRole
	sales         salesCounter
	logger        *log.Logger
}

func NewEmailDispatcher(client emailClient, cfg config.Config, sales salesCounter, logger *log.Logger) *EmailDispatcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &EmailDispatcher{
		client:        client,
		customerRoute: cfg.CustomerRoute,
		agent:         emailRole{name: "مندوب", toEmail: cfg.AgentEmail, route: cfg.AgentRoute},
		manager:       emailRole{name: "المدير", toEmail: cfg.ManagerEmail, route: cfg.ManagerRoute},
		sales:         sales,
		logger:        logger,
	}
}

func (d *EmailDispatcher) Dispatch(ctx context.Context, req domain.OrderRequest, details string) (*Receipt, error) {
	total := req.Total.StringFixed(2)
	roles := []emailRole{
		{name: "عميل", toEmail: req.Contact, route: d.customerRoute},
		d.agent,
		d.manager,
	}

	for _, role := range roles {
		msg := emailjs.Message{
			ServiceID:  role.route.ServiceID,
			TemplateID: role.route.TemplateID,
			PublicKey:  role.route.PublicKey,
			Params: emailjs.Params{
				ToEmail:      role.toEmail,
				Name:         role.name,
				Total:        total,
				OrderDetails: details,
			},
		}
		if err := d.client.Send(ctx, msg); err != nil {
			return nil, fmt.Errorf("notify %s: %w", role.name, err)
		}
		d.logger.Printf("dispatch: email sent role=%s", role.name)
	}

	for _, line := range req.Lines {
		id := line.Product.ID
		current, err := d.sales.GetSales(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("read sales counter for %s: %w", id, err)
		}
		if err := d.sales.SetSales(ctx, id, current+line.Quantity); err != nil {
			return nil, fmt.Errorf("update sales counter for %s: %w", id, err)
		}
	}

	return &Receipt{Channel: "email"}, nil
}
