package supabaseauth

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// serviceRole gates the admin operations: they authenticate with the service
// role key in place of the anonymous key and never fall back to it.
func (c *Client) serviceRole() (string, *Error) {
	if c.serviceRoleKey == "" {
		return "", &Error{
			Kind:    KindMissingServiceRoleKey,
			Message: "admin operations require a service role key",
		}
	}
	return c.serviceRoleKey, nil
}

// GetUserByID looks up a user by their durable UUID through the admin
// endpoint. Requires a service role key; a missing user surfaces as
// ErrNotFound.
func (c *Client) GetUserByID(ctx context.Context, userID uuid.UUID) (*User, error) {
	key, verr := c.serviceRole()
	if verr != nil {
		return nil, verr
	}
	if userID == uuid.Nil {
		return nil, invalidParams("user id must not be nil")
	}

	req, verr := c.newRequest(ctx, http.MethodGet, adminUsersPath+"/"+userID.String(), nil)
	if verr != nil {
		return nil, verr
	}

	var user User
	if err := c.send(req, key, key, &user); err != nil {
		return nil, err
	}
	if user.ID == uuid.Nil {
		return nil, decodeFailure("user response missing id", nil)
	}
	return &user, nil
}

type deleteUserRequest struct {
	ShouldSoftDelete bool `json:"should_soft_delete"`
}

// SoftDeleteUser marks the user as deleted while retaining their data; the
// user record's DeletedAt is set. Requires a service role key.
func (c *Client) SoftDeleteUser(ctx context.Context, userID uuid.UUID) error {
	return c.deleteUser(ctx, userID, true)
}

// HardDeleteUser permanently removes the user and their data. Not
// reversible. Requires a service role key.
func (c *Client) HardDeleteUser(ctx context.Context, userID uuid.UUID) error {
	return c.deleteUser(ctx, userID, false)
}

func (c *Client) deleteUser(ctx context.Context, userID uuid.UUID, soft bool) error {
	key, verr := c.serviceRole()
	if verr != nil {
		return verr
	}
	if userID == uuid.Nil {
		return invalidParams("user id must not be nil")
	}

	req, verr := c.newRequest(ctx, http.MethodDelete, adminUsersPath+"/"+userID.String(), deleteUserRequest{
		ShouldSoftDelete: soft,
	})
	if verr != nil {
		return verr
	}
	if err := c.send(req, key, key, nil); err != nil {
		return err
	}

	c.logger.Info("deleted user",
		zap.String("user_id", userID.String()),
		zap.Bool("soft", soft))
	return nil
}
