package domain

// ColorToken is an abstract display color the UI maps to its theme.
type ColorToken string

const (
	ColorNeutral  ColorToken = "neutral"
	ColorProgress ColorToken = "progress"
	ColorSuccess  ColorToken = "success"
	ColorWarning  ColorToken = "warning"
	ColorDanger   ColorToken = "danger"
)

type vocabEntry struct {
	stage CanonicalStage
	label string
}

// rawStatusCodes maps Shiprocket numeric status codes to the canonical
// lifecycle. Codes observed in courier feeds but absent here deliberately
// fall through to ON_HOLD rather than being dropped.
var rawStatusCodes = map[string]vocabEntry{
	"0":  {StageOrderPlaced, "Order placed"},
	"1":  {StageOrderPlaced, "AWB assigned"},
	"2":  {StagePacked, "Label generated"},
	"3":  {StagePacked, "Pickup scheduled"},
	"4":  {StagePacked, "Pickup queued"},
	"5":  {StagePacked, "Manifest generated"},
	"6":  {StageInTransit, "Shipped"},
	"7":  {StageDelivered, "Delivered"},
	"8":  {StageCancelled, "Cancelled"},
	"9":  {StageReturnToOrigin, "RTO initiated"},
	"10": {StageReturnToOrigin, "RTO delivered"},
	"12": {StageLost, "Lost"},
	"14": {StageReturnToOrigin, "RTO acknowledged"},
	"15": {StageOnHold, "Pickup exception"},
	"16": {StageOnHold, "Cancellation requested"},
	"17": {StageOutForDelivery, "Out for delivery"},
	"18": {StageInTransit, "In transit"},
	"19": {StagePacked, "Out for pickup"},
	"21": {StageOnHold, "Delivery attempt failed"},
	"22": {StageOnHold, "Delayed"},
	"25": {StageDamaged, "Damaged"},
	"38": {StageInTransit, "Reached destination hub"},
	"42": {StagePickedUp, "Picked up"},
}

const unknownStatusLabel = "Status update pending"

// Canonicalize translates a courier status code into a canonical stage.
// Unknown codes map to ON_HOLD so the caller never sees an undefined stage.
func Canonicalize(rawCode string) CanonicalStage {
	if entry, ok := rawStatusCodes[rawCode]; ok {
		return entry.stage
	}
	return StageOnHold
}

// Label returns the human-readable label for a courier status code.
func Label(rawCode string) string {
	if entry, ok := rawStatusCodes[rawCode]; ok {
		return entry.label
	}
	return unknownStatusLabel
}

// KnownCode reports whether the courier code is in the vocabulary. Used by
// adapters to log unmapped codes without failing the fetch.
func KnownCode(rawCode string) bool {
	_, ok := rawStatusCodes[rawCode]
	return ok
}

// Color returns the display color token for a canonical stage.
func Color(stage CanonicalStage) ColorToken {
	switch stage {
	case StageDelivered:
		return ColorSuccess
	case StagePickedUp, StageInTransit, StageOutForDelivery:
		return ColorProgress
	case StageOnHold:
		return ColorWarning
	case StageCancelled, StageReturnToOrigin, StageLost, StageDamaged:
		return ColorDanger
	default:
		return ColorNeutral
	}
}

// IsCancellable reports whether a shipment at the given stage can still be
// cancelled by the customer. Once the courier has the parcel (PICKED_UP
// onward) cancellation goes through support, not self-service.
func IsCancellable(stage CanonicalStage) bool {
	switch stage {
	case StageOrderPlaced, StagePacked, StageOnHold:
		return true
	}
	return false
}
