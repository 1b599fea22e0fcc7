package entity

import "time"

// Category categoría de productos. El nombre es único por empresa.
type Category struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultCategories categorías creadas al registrar una empresa.
var DefaultCategories = []string{"Geral", "Sem Categoria"}
