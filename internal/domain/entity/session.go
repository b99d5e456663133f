package entity

import "fmt"

// SessionMode per-user conversation state
type SessionMode int

const (
	// ModeIdle next message is classified from scratch
	ModeIdle SessionMode = iota
	// ModeAwaitingCropName next message is a crop name for the price lookup
	ModeAwaitingCropName
)

func (m SessionMode) String() string {
	switch m {
	case ModeAwaitingCropName:
		return "awaiting_crop_name"
	default:
		return "idle"
	}
}

// ParseSessionMode reverses String; used by stores that persist the mode as text
func ParseSessionMode(s string) (SessionMode, error) {
	switch s {
	case "", "idle":
		return ModeIdle, nil
	case "awaiting_crop_name":
		return ModeAwaitingCropName, nil
	default:
		return ModeIdle, fmt.Errorf("unknown session mode %q", s)
	}
}
