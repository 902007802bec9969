package model

import (
	"time"

	"github.com/google/uuid"
)

type Supplier struct {
	ID            uuid.UUID
	Name          string
	Address       string
	GSTNumber     string
	ContactPerson string
	ContactNumber string
	CreatedAt     time.Time
}

type BillToCompany struct {
	ID            uuid.UUID
	CompanyName   string
	Address       string
	GSTNumber     string
	ContactPerson string
	ContactNumber string
	CreatedAt     time.Time
}

type ShipToAddress struct {
	ID            uuid.UUID
	Name          string
	Address       string
	GSTNumber     string
	ContactPerson string
	ContactNumber string
	CreatedAt     time.Time
}
