// Package service contains the application use cases that sit between the
// HTTP layer and the stores. Summary generation itself lives in
// internal/summary; this package covers user accounts and the documents that
// generation reads from, and the auth subpackage covers bearer tokens and
// password hashing.
//
// Services receive their stores through constructor injection and return
// sentinel errors (ErrNotOwned, ErrDocumentNotFound, ErrInvalidCredentials) that the API layer maps
// to status codes. Unexpected failures are wrapped in a ServiceError.
package service
