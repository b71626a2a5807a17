/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1005

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1006
)

// 2xxx: Project Persistence Errors
const (
	// ErrProjectNotFound indicates that the requested project name does not exist in the store.
	ErrProjectNotFound = 2101

	// ErrProjectNameInvalid indicates that the supplied project name is empty or malformed.
	ErrProjectNameInvalid = 2102

	// ErrProjectStoreFailed indicates that the durable project store could not complete the operation.
	ErrProjectStoreFailed = 2103

	// ErrProjectStoreDisabled indicates that no project store backend is configured.
	ErrProjectStoreDisabled = 2104
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
