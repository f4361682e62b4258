package models

import "gorm.io/gorm"

type Product struct {
	gorm.Model
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Image       string  `json:"image"`
	Efficiency  float64 `json:"efficiency" binding:"required,gt=0,lte=100"`
	PowerOutput float64 `json:"powerOutput" binding:"required,gt=0"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	IsActive    bool    `json:"isActive"`
}

// ProductUpdate carries the optional fields of a partial product edit.
type ProductUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Efficiency  *float64 `json:"efficiency" binding:"omitempty,gt=0,lte=100"`
	PowerOutput *float64 `json:"powerOutput" binding:"omitempty,gt=0"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
	IsActive    *bool    `json:"isActive"`
}
