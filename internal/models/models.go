package models

import "time"

// Surprise types
const (
	SurpriseTypeMessage = "message"
	SurpriseTypePhoto   = "photo"
	SurpriseTypeMusic   = "music"
	SurpriseTypeDate    = "date"
)

// Link relationships
const (
	RelationshipPartner = "partner"
	RelationshipFamily  = "family"
	RelationshipFriend  = "friend"
)

// Notification types
const (
	NotificationLinkInvite        = "link_invite"
	NotificationNewSurprise       = "new_surprise"
	NotificationDateProposal      = "date_proposal"
	NotificationDateChangeRequest = "date_change_request"
)

// Notification statuses
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// User represents a user in the system
type User struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	AvatarBg  *string   `json:"avatar_bg,omitempty"`
	PushToken *string   `json:"push_token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Reaction is a single emoji reaction left on a surprise
type Reaction struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// Surprise represents a unit of shared content sent between linked users.
// Immutable after creation except for Viewed and Reactions.
type Surprise struct {
	ID          string     `json:"id"`
	SenderID    string     `json:"sender_id"`
	RecipientID string     `json:"recipient_id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	SenderName  string     `json:"sender_name"`
	IsPrivate   bool       `json:"is_private"`
	Viewed      bool       `json:"viewed"`
	Reactions   []Reaction `json:"reactions"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Link is one side of a mutual relationship between two users. Acceptance
// of an invitation creates the two mirrored rows in a single transaction.
type Link struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	PartnerID    string    `json:"partner_id"`
	PartnerName  string    `json:"partner_name"`
	Relationship string    `json:"relationship"`
	Nickname     *string   `json:"nickname,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Notification represents an event delivered to a user's inbox
type Notification struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	SenderID    string            `json:"sender_id"`
	SenderName  string            `json:"sender_name"`
	RecipientID string            `json:"recipient_id"`
	Status      string            `json:"status"`
	Read        bool              `json:"read"`
	Payload     map[string]string `json:"payload,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// RateLimitCounter holds the attempt history for one (subject, action) key
type RateLimitCounter struct {
	SubjectID    string      `json:"subject_id"`
	Action       string      `json:"action"`
	Attempts     []time.Time `json:"attempts"`
	BlockedUntil *time.Time  `json:"blocked_until,omitempty"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
