package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidJSON     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeInvalidSnapshot = 1003
	ErrCodeMissingRequired = 1009
	ErrCodeSourceFailure   = 1010

	// Domain state (2xxx)
	ErrCodeNoConfig          = 2001
	ErrCodeFileNotFound      = 2002
	ErrCodeReferenceNotFound = 2003
	ErrCodeDuplicateKey      = 2101

	// Limits (3xxx)
	ErrCodeResourceExhausted = 3003

	// Internal/system (4xxx)
	ErrCodeInternal         = 4001
	ErrCodeStoreFailure     = 4002
	ErrCodeStoreUnavailable = 4003
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 404:
		return ErrCodeFileNotFound
	case 409:
		return ErrCodeDuplicateKey
	case 429:
		return ErrCodeResourceExhausted
	case 500:
		return ErrCodeInternal
	case 503:
		return ErrCodeStoreUnavailable
	default:
		return 0
	}
}
