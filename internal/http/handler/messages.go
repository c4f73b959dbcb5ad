package handler

const (
	jsonKeyError   = "error"
	jsonKeyMessage = "message"
	jsonKeyKind    = "kind"

	paramID       = "id"
	paramSlug     = "slug"
	paramProvider = "provider"

	queryLimit    = "limit"
	queryOffset   = "offset"
	queryStatus   = "status"
	queryTag      = "tag"
	queryType     = "type"
	queryDays     = "days"
	queryActor    = "actor"
	queryResource = "resource"
	queryCode     = "code"
	queryState    = "state"
	queryError    = "error"

	formFile    = "file"
	formAltText = "alt_text"

	defaultListLimit    = 50
	maxPaginationLimit  = 100
	maxPaginationOffset = 100000
)

const (
	msgContentTypeJSONRequired = "content type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidID               = "invalid id"
	msgInvalidLimit            = "limit must be a positive integer"
	msgInvalidOffset           = "offset must be a non-negative integer"
	msgInvalidDays             = "days must be an integer"
	msgUnknownProvider         = "unknown sign-in provider"
	msgSignInStartFail         = "failed to start sign-in"
	msgSignedOut               = "signed out"
	msgCSRFTokenFail           = "failed to issue CSRF token"
	msgFileRequired            = "a file is required"
	msgFileOpenFail            = "failed to read uploaded file"
	msgPageViewRecorded        = "recorded"
	msgContactReceived         = "thanks, your message was received"
)

// Sign-in failures are reported to the browser as a short code on the
// redirect. The admin UI turns them into copy.
const (
	signInErrorAccessDenied  = "AccessDenied"
	signInErrorConfiguration = "Configuration"
	signInErrorProvider      = "OAuthCallback"
	signInErrorState         = "Verification"
	signInErrorCancelled     = "OAuthSignin"
)
