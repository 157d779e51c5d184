package postgres

import (
	"github.com/ugconnect/wifi-voucher-gateway/internal/domain"
)

// toDomainModel: maps db model to domain entity
func toDomainModel(m TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:             m.ID,
		Reference:      m.Reference,
		DeviceID:       m.DeviceID,
		Phone:          m.Phone,
		FormattedPhone: m.FormattedPhone,
		Amount:         m.Amount,
		Currency:       m.Currency,
		Description:    m.Description,
		Status:         domain.Status(m.Status),
		Provider: domain.ProviderResult{
			Status:    m.RelworxStatus,
			Message:   m.RelworxMessage,
			Reference: m.RelworxReference,
			Payload:   m.RelworxPayload,
		},
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		ConfirmedAt: m.ConfirmedAt,
		FailedAt:    m.FailedAt,
	}
}

// toDBModel: maps domain entity to db model
func toDBModel(t *domain.Transaction) *TransactionModel {
	return &TransactionModel{
		ID:               t.ID,
		Reference:        t.Reference,
		DeviceID:         t.DeviceID,
		Phone:            t.Phone,
		FormattedPhone:   t.FormattedPhone,
		Amount:           t.Amount,
		Currency:         t.Currency,
		Description:      t.Description,
		Status:           string(t.Status),
		RelworxStatus:    t.Provider.Status,
		RelworxMessage:   t.Provider.Message,
		RelworxReference: t.Provider.Reference,
		RelworxPayload:   t.Provider.Payload,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		ConfirmedAt:      t.ConfirmedAt,
		FailedAt:         t.FailedAt,
	}
}
