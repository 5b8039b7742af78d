package dispatch

import (
	"context"
	"net/url"
	"strings"

	"obak-storefront/internal/domain"
)

// WhatsAppDispatcher builds one prefilled deep link per recipient phone
// number instead of calling any remote service. Delivery is delegated to
// the messaging application, so link building always succeeds and there
// is no sales-counter step on this channel.
type WhatsAppDispatcher struct {
	host         string
	agentPhone   string
	managerPhone string
}

func NewWhatsAppDispatcher(host, agentPhone, managerPhone string) *WhatsAppDispatcher {
	return &WhatsAppDispatcher{host: host, agentPhone: agentPhone, managerPhone: managerPhone}
}

func (d *WhatsAppDispatcher) Dispatch(_ context.Context, req domain.OrderRequest, details string) (*Receipt, error) {
	phones := []string{req.Contact, d.agentPhone, d.managerPhone}
	links := make([]string, 0, len(phones))
	for _, phone := range phones {
		links = append(links, d.link(phone, details))
	}
	return &Receipt{Channel: "whatsapp", Links: links}, nil
}

func (d *WhatsAppDispatcher) link(phone, text string) string {
	u := url.URL{
		Scheme:   "https",
		Host:     d.host,
		Path:     "/" + strings.TrimPrefix(strings.TrimSpace(phone), "+"),
		RawQuery: "text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20"),
	}
	return u.String()
}
