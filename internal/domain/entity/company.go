package entity

import "time"

// Company representa una empresa/tenant del sistema. Cada empresa posee una o
// más sucursales (Branch) y todo recurso comercial cuelga de una sucursal.
type Company struct {
	ID        string
	Name      string
	TaxID     string // CUIT/NIT según jurisdicción
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
