package supabaseauth

import (
	"time"

	"github.com/google/uuid"
)

// IdType identifies a user by exactly one of email address or phone number.
// Construct values with Email or Phone; the zero value is invalid.
type IdType struct {
	email string
	phone string
}

// Email returns an identifier for email-based signup/signin.
func Email(address string) IdType { return IdType{email: address} }

// Phone returns an identifier for phone-based signup/signin.
func Phone(number string) IdType { return IdType{phone: number} }

// values splits the identifier into the request body fields, rejecting an
// empty or zero-value identifier before any request is made.
func (id IdType) values() (email, phone string, err *Error) {
	if id.email == "" && id.phone == "" {
		return "", "", invalidParams("identifier must not be empty")
	}
	return id.email, id.phone, nil
}

// User is the account record as returned by the Auth API. It is a snapshot;
// the client never mutates it locally.
type User struct {
	ID uuid.UUID `json:"id"`

	// Audience claim for issued JWTs, typically the API URL.
	Aud string `json:"aud"`
	// Role within the system, e.g. "authenticated".
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`

	// Pending identifier changes awaiting confirmation.
	NewEmail string `json:"new_email,omitempty"`
	NewPhone string `json:"new_phone,omitempty"`

	EmailConfirmedAt       *time.Time `json:"email_confirmed_at,omitempty"`
	PhoneConfirmedAt       *time.Time `json:"phone_confirmed_at,omitempty"`
	ConfirmationSentAt     *time.Time `json:"confirmation_sent_at,omitempty"`
	ConfirmedAt            *time.Time `json:"confirmed_at,omitempty"`
	InvitedAt              *time.Time `json:"invited_at,omitempty"`
	RecoverySentAt         *time.Time `json:"recovery_sent_at,omitempty"`
	EmailChangeSentAt      *time.Time `json:"email_change_sent_at,omitempty"`
	PhoneChangeSentAt      *time.Time `json:"phone_change_sent_at,omitempty"`
	ReauthenticationSentAt *time.Time `json:"reauthentication_sent_at,omitempty"`
	LastSignInAt           *time.Time `json:"last_sign_in_at,omitempty"`

	// UserMetadata is updatable by the user; AppMetadata only by the
	// service role.
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`

	Factors    []MFAFactor      `json:"factors,omitempty"`
	Identities []map[string]any `json:"identities,omitempty"`

	BannedUntil *time.Time `json:"banned_until,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	// DeletedAt is set once the user has been soft deleted.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// MFAFactor is a multi-factor authentication factor enrolled on a user.
type MFAFactor struct {
	ID           uuid.UUID `json:"id"`
	FactorType   string    `json:"factor_type,omitempty"`
	FriendlyName string    `json:"friendly_name,omitempty"`
	// Status is "verified" or "unverified".
	Status string `json:"status,omitempty"`
}

// TokenResponse carries the tokens issued by signup, signin and refresh,
// together with the user they were issued for.
type TokenResponse struct {
	// AccessToken is an opaque bearer string for authenticated calls.
	AccessToken string `json:"access_token"`
	// TokenType is typically "bearer".
	TokenType string `json:"token_type"`
	// ExpiresIn is the access token validity in seconds; ExpiresAt the
	// absolute expiry as a Unix timestamp.
	ExpiresIn int64 `json:"expires_in"`
	ExpiresAt int64 `json:"expires_at"`
	// RefreshToken may be rotated on each refresh; persist only the newest.
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`

	ProviderToken        string `json:"provider_token,omitempty"`
	ProviderRefreshToken string `json:"provider_refresh_token,omitempty"`

	// WeakPassword is an advisory set by some server versions when signin
	// succeeded but the password fails current strength rules.
	WeakPassword *WeakPassword `json:"weak_password,omitempty"`
}

// WeakPassword explains why the server considers a password weak.
type WeakPassword struct {
	Message string   `json:"message"`
	Reasons []string `json:"reasons,omitempty"`
}
