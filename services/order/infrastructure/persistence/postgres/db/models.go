package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderOrder struct {
	ID                 uuid.UUID
	OrgID              uuid.UUID
	Reference          string
	Currency           string
	OrderType          string
	Status             string
	Incoterm           string
	PortOfLoading      string
	PortOfDischarge    string
	DestinationCountry string
	ConfirmedBy        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type OrderLine struct {
	OrderID     uuid.UUID
	Position    int32
	ArticleID   string
	DepotID     string
	ArticleName string
	DepotName   string
	OrderedKg   decimal.Decimal
	UnitPrice   decimal.Decimal
	KgPerCarton decimal.Decimal
}

type OrderCargo struct {
	OrderID         uuid.UUID
	Position        int32
	CarrierName     string
	ContainerNumber string
	SealNumber      string
	CartonWeightKg  decimal.Decimal
}

type OrderAllocatedItem struct {
	OrderID         uuid.UUID
	CargoPosition   int32
	Position        int32
	ArticleID       string
	DepotID         string
	AllocatedKg     decimal.Decimal
	CartonCount     int64
	ContainerNumber string
	SealNumber      string
	BatchNumber     string
	ProductionDate  string
	ExpiryDate      string
}
