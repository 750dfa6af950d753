package valueobject

import "github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"

type ListingStatus string

const (
	ListingStatusDraft    ListingStatus = "draft"
	ListingStatusListed   ListingStatus = "listed"
	ListingStatusReserved ListingStatus = "reserved"
	ListingStatusSold     ListingStatus = "sold"
	ListingStatusExpired  ListingStatus = "expired"
)

func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusDraft, ListingStatusListed, ListingStatusReserved, ListingStatusSold, ListingStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo: draft→listed→reserved→sold, expired — боковая ветка из listed.
func (s ListingStatus) CanTransitionTo(newStatus ListingStatus) bool {
	transitions := map[ListingStatus][]ListingStatus{
		ListingStatusDraft:    {ListingStatusListed},
		ListingStatusListed:   {ListingStatusReserved, ListingStatusExpired},
		ListingStatusReserved: {ListingStatusSold},
		ListingStatusSold:     {},
		ListingStatusExpired:  {},
	}

	for _, status := range transitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewListingStatus(status string) (ListingStatus, error) {
	s := ListingStatus(status)
	if !s.IsValid() {
		return "", apperror.Validation("некорректный статус объявления")
	}
	return s, nil
}

type BidStatus string

const (
	BidStatusPending   BidStatus = "pending"
	BidStatusAccepted  BidStatus = "accepted"
	BidStatusRejected  BidStatus = "rejected"
	BidStatusCountered BidStatus = "countered"
)

func (s BidStatus) IsValid() bool {
	switch s {
	case BidStatusPending, BidStatusAccepted, BidStatusRejected, BidStatusCountered:
		return true
	}
	return false
}

// IsResolved — принятая или отклонённая ставка больше не меняется.
func (s BidStatus) IsResolved() bool {
	return s == BidStatusAccepted || s == BidStatusRejected
}

func NewBidStatus(status string) (BidStatus, error) {
	s := BidStatus(status)
	if !s.IsValid() {
		return "", apperror.Validation("некорректный статус ставки")
	}
	return s, nil
}

// BidAction — решение владельца объявления по ставке.
type BidAction string

const (
	BidActionAccept  BidAction = "accept"
	BidActionReject  BidAction = "reject"
	BidActionCounter BidAction = "counter"
)

func NewBidAction(action string) (BidAction, error) {
	a := BidAction(action)
	switch a {
	case BidActionAccept, BidActionReject, BidActionCounter:
		return a, nil
	}
	return "", apperror.Validation("некорректное действие со ставкой")
}

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func NewPaymentStatus(status string) (PaymentStatus, error) {
	s := PaymentStatus(status)
	if !s.IsValid() {
		return "", apperror.Validation("некорректный статус оплаты")
	}
	return s, nil
}

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCard         PaymentMethod = "card"
)

// NewPaymentMethod возвращает cash для пустого значения.
func NewPaymentMethod(method string) (PaymentMethod, error) {
	if method == "" {
		return PaymentMethodCash, nil
	}
	m := PaymentMethod(method)
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodBankTransfer, PaymentMethodCard:
		return m, nil
	}
	return "", apperror.Validation("некорректный способ оплаты")
}

type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusScheduled DeliveryStatus = "scheduled"
	DeliveryStatusShipped   DeliveryStatus = "shipped"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusCancelled DeliveryStatus = "cancelled"
)

var deliveryRank = map[DeliveryStatus]int{
	DeliveryStatusPending:   0,
	DeliveryStatusScheduled: 1,
	DeliveryStatusShipped:   2,
	DeliveryStatusDelivered: 3,
}

func (s DeliveryStatus) IsValid() bool {
	if s == DeliveryStatusCancelled {
		return true
	}
	_, ok := deliveryRank[s]
	return ok
}

func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryStatusDelivered || s == DeliveryStatusCancelled
}

// CanTransitionTo разрешает только движение вперёд (шаги можно пропускать);
// cancelled доступен из любого нетерминального состояния.
func (s DeliveryStatus) CanTransitionTo(newStatus DeliveryStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if newStatus == DeliveryStatusCancelled {
		return true
	}
	return deliveryRank[newStatus] > deliveryRank[s]
}

func NewDeliveryStatus(status string) (DeliveryStatus, error) {
	s := DeliveryStatus(status)
	if !s.IsValid() {
		return "", apperror.Validation("некорректный статус доставки")
	}
	return s, nil
}

type QualityGrade string

const (
	QualityGradeA QualityGrade = "A"
	QualityGradeB QualityGrade = "B"
	QualityGradeC QualityGrade = "C"
	QualityGradeD QualityGrade = "D"
)

func NewQualityGrade(grade string) (QualityGrade, error) {
	g := QualityGrade(grade)
	switch g {
	case QualityGradeA, QualityGradeB, QualityGradeC, QualityGradeD:
		return g, nil
	}
	return "", apperror.Validation("некорректный класс качества")
}

type Unit string

const (
	UnitKg      Unit = "kg"
	UnitQuintal Unit = "quintal"
	UnitTon     Unit = "ton"
)

// NewUnit возвращает kg для пустого значения.
func NewUnit(unit string) (Unit, error) {
	if unit == "" {
		return UnitKg, nil
	}
	u := Unit(unit)
	switch u {
	case UnitKg, UnitQuintal, UnitTon:
		return u, nil
	}
	return "", apperror.Validation("некорректная единица измерения")
}
