package domain

// UserPayload is the authenticated caller extracted from the bearer token.
type UserPayload struct {
	UUID     string
	Email    string
	Name     string
	LastName string
}

// UserRecord is a user directory entry.
type UserRecord struct {
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	LastName string `json:"lastname"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"` // object storage key, empty when unset
}

// Tier is the meet slice of a user's subscription.
type Tier struct {
	Enabled    bool
	PaxPerCall int
}

// MemberProfile is a room member enriched for listing.
type MemberProfile struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	LastName  string  `json:"lastName"`
	Anonymous bool    `json:"anonymous"`
	AvatarURL *string `json:"avatar"`
}
