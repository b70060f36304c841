package user

import "time"

type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	AuthSubject string    `json:"auth_subject,omitempty"`
	Email       string    `json:"email,omitempty"`
	Picture     string    `json:"picture,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ExternalIdentity is a verified claim set from the identity provider.
// It carries facts only; linking decisions live in Service.LinkOrRefresh.
type ExternalIdentity struct {
	Subject       string `json:"subject"`
	Email         string `json:"email,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
	Picture       string `json:"picture,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
}

type CreateUserInput struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Picture     string `json:"picture"`
}

type UpdateUserInput struct {
	Username    *string `json:"username"`
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email"`
	Picture     *string `json:"picture"`
}
