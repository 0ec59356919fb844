package repository

import "github.com/tu-usuario/gestion-comercial/internal/domain/entity"

// PaymentRepository define el puerto de la pasarela interna de pagos.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	GetByID(id string) (*entity.Payment, error)
	Delete(id string) error
}
