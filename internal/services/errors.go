package services

import "errors"

// ErrUnauthenticated is returned when a mutating operation is attempted
// without a signed-in user. It is checked before any repository call.
var ErrUnauthenticated = errors.New("user not authenticated")

// ErrForbidden is returned when a user attempts to edit or delete a row
// they do not own.
var ErrForbidden = errors.New("not the owner of this resource")

// ErrUsernameTaken is returned when a profile update or provisioning insert
// collides with an existing username. It is recoverable: provisioning
// regenerates and retries, manual edits prompt the user to pick another.
var ErrUsernameTaken = errors.New("username already taken")

// ErrInvalidUsername is returned by client-side validation before any
// repository call is made.
var ErrInvalidUsername = errors.New("username must be 3-20 characters of letters, digits or underscore")
