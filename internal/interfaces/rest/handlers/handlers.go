package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application/services"
	"github.com/ugconnect/wifi-voucher-gateway/internal/config"
	"github.com/ugconnect/wifi-voucher-gateway/internal/domain"
)

type InitiateService interface {
	Initiate(ctx context.Context, cmd services.InitiateCommand) (*services.InitiateResult, error)
}

type StatusService interface {
	Check(ctx context.Context, reference string, live bool) (*services.StatusResult, error)
}

type QueryService interface {
	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	GetByDevice(ctx context.Context, deviceID string, limit int) ([]*domain.Transaction, error)
}

type WebhookService interface {
	Process(ctx context.Context, cmd services.WebhookCommand) (*domain.Transaction, error)
}

type Handlers struct {
	initiateService InitiateService
	statusService   StatusService
	queryService    QueryService
	webhookService  WebhookService
	catalog         []config.Package
	webhookSecret   string
	validate        *validator.Validate
	logger          *slog.Logger
}

func NewHandlers(
	initiateService InitiateService,
	statusService StatusService,
	queryService QueryService,
	webhookService WebhookService,
	catalog []config.Package,
	webhookSecret string,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		initiateService: initiateService,
		statusService:   statusService,
		queryService:    queryService,
		webhookService:  webhookService,
		catalog:         catalog,
		webhookSecret:   webhookSecret,
		validate:        validator.New(),
		logger:          logger,
	}
}

// RegisterRoutes mounts the API under /api. requireKey guards the payment
// routes; the webhook is authenticated by signature instead, since the
// processor does not hold the frontend's key.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux, requireKey func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api", h.HandleHome)
	mux.HandleFunc("GET /api/{$}", h.HandleHome)
	mux.HandleFunc("GET /api/packages", h.HandlePackages)
	mux.HandleFunc("POST /api/identify/identify-device", h.HandleIdentifyDevice)

	mux.Handle("POST /api/payments/initiate", requireKey(http.HandlerFunc(h.HandleInitiate)))
	mux.Handle("GET /api/payments/status/{reference}", requireKey(http.HandlerFunc(h.HandleStatus)))
	mux.Handle("GET /api/payments/transaction/{reference}", requireKey(http.HandlerFunc(h.HandleGetTransaction)))
	mux.Handle("GET /api/payments/device/{device_id}/transactions", requireKey(http.HandlerFunc(h.HandleDeviceTransactions)))

	mux.HandleFunc("POST /api/payments/webhook", h.HandleWebhook)
}
