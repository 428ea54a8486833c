package models

import "time"

// Language is a supported reply language.
type Language string

const (
	Hindi   Language = "hi"
	English Language = "en"
)

// User represents a WhatsApp user with their onboarding profile
type User struct {
	ID        int64     `json:"id"`
	WaUserID  string    `json:"wa_user_id"`
	Language  Language  `json:"language,omitempty"`
	Consent   bool      `json:"consent"`
	Pincode   string    `json:"pincode,omitempty"`
	FullName  string    `json:"fullname,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Lang returns the user's reply language, defaulting to Hindi until the
// user has confirmed a choice.
func (u *User) Lang() Language {
	if u.Language == "" {
		return Hindi
	}
	return u.Language
}

// Child represents a child registered under a user; only the most
// recently set record drives awareness windows.
type Child struct {
	ID     int64     `json:"id"`
	UserID int64     `json:"user_id"`
	DOB    time.Time `json:"dob"`
}

// Phase is the conversation's derived position in the onboarding flow.
// It is recomputed from the User row on every event, never stored.
type Phase int

const (
	PhaseNew Phase = iota
	PhaseLanguageUnset
	PhaseLocationUnset
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseNew:
		return "new"
	case PhaseLanguageUnset:
		return "language_unset"
	case PhaseLocationUnset:
		return "location_unset"
	default:
		return "ready"
	}
}

// PhaseOf projects a user's profile onto its conversation phase.
func PhaseOf(u *User) Phase {
	switch {
	case !u.Consent:
		return PhaseNew
	case u.Language == "":
		return PhaseLanguageUnset
	case u.Pincode == "":
		return PhaseLocationUnset
	default:
		return PhaseReady
	}
}

// Button is one reply-button choice in a button prompt.
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Reply is an abstract outbound message directive. A nil Buttons slice
// means a plain text message.
type Reply struct {
	To      string   `json:"to"`
	Body    string   `json:"body"`
	Buttons []Button `json:"buttons,omitempty"`
}

// OutboundMessage is the persisted record of a reply directive. The row
// is written before delivery is attempted and marked once the gateway
// accepts the send.
type OutboundMessage struct {
	ID          string     `json:"id"`
	WaUserID    string     `json:"wa_user_id"`
	Body        string     `json:"body"`
	Buttons     []Button   `json:"buttons,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// AwarenessWindow is an advisory vaccination interval computed from a
// child's date of birth. Start/End form a half-open interval.
type AwarenessWindow struct {
	Vaccine string    `json:"vaccine"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Note    string    `json:"note"`
}
