package domain

// OrderMethod is the resolved fulfilment method of an order. There is no
// "unknown" state: absence of any delivery signal resolves to pickup.
type OrderMethod string

const (
	MethodDelivery OrderMethod = "delivery"
	MethodPickup   OrderMethod = "pickup"
)

// FeeKind classifies an auxiliary charge entry.
type FeeKind string

const (
	FeeKindDelivery FeeKind = "delivery_fee"
	FeeKindTip      FeeKind = "tip"
	FeeKindOther    FeeKind = "other"
)

// SignalSource records which source decided the fulfilment method.
type SignalSource string

const (
	SourceAnnotation        SignalSource = "annotation"
	SourceNoteKeyword       SignalSource = "note_keyword"
	SourceMetadata          SignalSource = "metadata"
	SourceAddressDivergence SignalSource = "address_divergence"
	SourceDefault           SignalSource = "default"
)

// DeviceStatus represents the lifecycle of a paired POS terminal.
type DeviceStatus string

const (
	DeviceStatusActive  DeviceStatus = "active"
	DeviceStatusRevoked DeviceStatus = "revoked"
)
