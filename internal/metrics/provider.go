package metrics

import (
	"context"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
)

// InstrumentedProvider counts outbound provider calls and their outcomes.
type InstrumentedProvider struct {
	next    application.PaymentProvider
	metrics *Metrics
}

func NewInstrumentedProvider(next application.PaymentProvider, m *Metrics) *InstrumentedProvider {
	return &InstrumentedProvider{next: next, metrics: m}
}

func (p *InstrumentedProvider) RequestPayment(ctx context.Context, req application.PaymentRequest) (*application.ProviderResponse, error) {
	resp, err := p.next.RequestPayment(ctx, req)
	p.metrics.ProviderRequests.WithLabelValues("request_payment", outcome(err)).Inc()
	return resp, err
}

func (p *InstrumentedProvider) CheckRequestStatus(ctx context.Context, reference string) (*application.ProviderResponse, error) {
	resp, err := p.next.CheckRequestStatus(ctx, reference)
	p.metrics.ProviderRequests.WithLabelValues("check_request_status", outcome(err)).Inc()
	return resp, err
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
