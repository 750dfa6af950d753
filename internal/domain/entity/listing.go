package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cropmarket-backend/internal/validation"
)

const MaxListingImages = 10

type Location struct {
	District     string
	AddressLine1 string
	City         string
	State        string
	Pincode      string
	Lat          *float64
	Lng          *float64
}

type Listing struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	Variety      string
	Quantity     float64
	Unit         valueobject.Unit
	QualityGrade valueobject.QualityGrade
	MinPrice     float64
	CurrentPrice float64
	Description  string
	Location     Location
	Images       []string
	HarvestDate  *time.Time
	ExpiryDate   *time.Time
	BidEndDate   *time.Time
	Status       valueobject.ListingStatus
	BidCount     int
	ViewCount    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListingAttrs — входные атрибуты нового объявления.
type ListingAttrs struct {
	Name         string
	Variety      string
	Quantity     float64
	Unit         string
	QualityGrade string
	MinPrice     float64
	CurrentPrice *float64
	Description  string
	Location     Location
	Images       []string
	HarvestDate  *time.Time
	ExpiryDate   *time.Time
	BidEndDate   *time.Time
}

// Validate проверяет атрибуты без обращения к хранилищу.
func (a ListingAttrs) Validate() error {
	if err := validation.ValidateCropName(a.Name); err != nil {
		return err
	}
	if a.Quantity <= 0 {
		return apperror.Validation("количество должно быть больше нуля")
	}
	if a.MinPrice <= 0 {
		return apperror.Validation("минимальная цена должна быть больше нуля")
	}
	if _, err := valueobject.NewQualityGrade(a.QualityGrade); err != nil {
		return err
	}
	if _, err := valueobject.NewUnit(a.Unit); err != nil {
		return err
	}
	if a.CurrentPrice != nil && *a.CurrentPrice <= 0 {
		return apperror.Validation("текущая цена должна быть больше нуля")
	}
	if err := validation.ValidateImages(a.Images, MaxListingImages); err != nil {
		return err
	}
	if err := validation.ValidateLength("сорт", a.Variety, 0, validation.MaxVarietyLength); err != nil {
		return err
	}
	if err := validation.ValidateLength("описание", a.Description, 0, validation.MaxDescriptionLength); err != nil {
		return err
	}
	return a.Location.Validate()
}

func (l Location) Validate() error {
	if err := validation.ValidateLength("адрес", l.AddressLine1, 0, validation.MaxAddressLength); err != nil {
		return err
	}
	if err := validation.ValidatePincode(l.Pincode); err != nil {
		return err
	}
	return validation.ValidateCoordinates(l.Lat, l.Lng)
}

// NewListing создаёт объявление в статусе listed. currentPrice уже определена вызывающим.
func NewListing(ownerID uuid.UUID, attrs ListingAttrs, currentPrice float64) (*Listing, error) {
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	if currentPrice <= 0 {
		return nil, apperror.Validation("текущая цена должна быть больше нуля")
	}

	unit, _ := valueobject.NewUnit(attrs.Unit)
	images := attrs.Images
	if images == nil {
		images = []string{}
	}

	now := time.Now()
	return &Listing{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(attrs.Name),
		Variety:      attrs.Variety,
		Quantity:     attrs.Quantity,
		Unit:         unit,
		QualityGrade: valueobject.QualityGrade(attrs.QualityGrade),
		MinPrice:     valueobject.RoundPrice(attrs.MinPrice),
		CurrentPrice: valueobject.RoundPrice(currentPrice),
		Description:  attrs.Description,
		Location:     attrs.Location,
		Images:       images,
		HarvestDate:  attrs.HarvestDate,
		ExpiryDate:   attrs.ExpiryDate,
		BidEndDate:   attrs.BidEndDate,
		Status:       valueobject.ListingStatusListed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return l.OwnerID == userID
}

// CheckBid проверяет, может ли bidderID поставить amount на это объявление.
func (l *Listing) CheckBid(bidderID uuid.UUID, amount float64) error {
	if l.IsOwnedBy(bidderID) {
		return apperror.Forbidden("нельзя делать ставку на собственное объявление")
	}
	if l.Status != valueobject.ListingStatusListed {
		return apperror.Conflict("объявление не принимает ставки")
	}
	if amount <= 0 {
		return apperror.Validation("сумма ставки должна быть больше нуля")
	}
	if amount < l.MinPrice {
		return apperror.Validation("ставка ниже минимальной цены")
	}
	return nil
}

// ApplyBid повторяет в памяти атомарное обновление агрегата в хранилище.
func (l *Listing) ApplyBid(amount float64) {
	l.BidCount++
	if amount > l.CurrentPrice {
		l.CurrentPrice = amount
	}
	l.UpdatedAt = time.Now()
}

func (l *Listing) Reserve() error {
	return l.transition(valueobject.ListingStatusReserved, "объявление уже не доступно для резервирования")
}

func (l *Listing) MarkSold() error {
	return l.transition(valueobject.ListingStatusSold, "объявление не зарезервировано")
}

// DeadlinePassed сообщает, истёк ли срок приёма ставок или срок годности партии.
func (l *Listing) DeadlinePassed(now time.Time) bool {
	if l.BidEndDate != nil && l.BidEndDate.Before(now) {
		return true
	}
	return l.ExpiryDate != nil && l.ExpiryDate.Before(now)
}

func (l *Listing) Expire() error {
	return l.transition(valueobject.ListingStatusExpired, "невозможно завершить объявление в текущем статусе")
}

func (l *Listing) transition(to valueobject.ListingStatus, msg string) error {
	if !l.Status.CanTransitionTo(to) {
		return apperror.Conflict(msg)
	}
	l.Status = to
	l.UpdatedAt = time.Now()
	return nil
}

// NormalizeCropName приводит название к виду «Title Case» для списка культур.
func NormalizeCropName(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
