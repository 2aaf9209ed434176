package models

import "strings"

// Slot names which of the two showcase images an operation concerns.
type Slot string

const (
	SlotBefore Slot = "before"
	SlotAfter  Slot = "after"
)

func ParseSlot(value string) (Slot, bool) {
	switch Slot(strings.ToLower(strings.TrimSpace(value))) {
	case SlotBefore:
		return SlotBefore, true
	case SlotAfter:
		return SlotAfter, true
	}
	return "", false
}

// Image returns the encoded image held in the given slot.
func (r *ClientRecord) Image(slot Slot) EncodedImage {
	if slot == SlotAfter {
		return r.AfterImage
	}
	return r.BeforeImage
}
