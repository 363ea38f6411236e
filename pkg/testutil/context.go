package testutil

import (
	"net/http"

	"github.com/google/uuid"

	id "bloodconnect/pkg/domain"
	"bloodconnect/pkg/requestcontext"
)

// AsStaff marks the request as authenticated by a staff member, the way the
// auth middleware would. It returns the generated user ID.
func AsStaff(req *http.Request) (*http.Request, id.UserID) {
	return AsRole(req, "staff")
}

// AsAdmin is AsStaff with the admin role.
func AsAdmin(req *http.Request) (*http.Request, id.UserID) {
	return AsRole(req, "admin")
}

// AsRole attaches a principal with the given role to the request context.
func AsRole(req *http.Request, role string) (*http.Request, id.UserID) {
	userID := id.UserID(uuid.New())
	ctx := requestcontext.WithPrincipal(req.Context(), requestcontext.Principal{
		UserID:   userID,
		Username: role + "-user",
		Role:     role,
		TokenID:  uuid.NewString(),
	})
	return req.WithContext(ctx), userID
}
