package submissions

const (
	ErrInvalidRequest      = "Invalid request data"
	ErrFailedFetchHistory  = "Failed to fetch submission history"
	ErrFailedFetchAudit    = "Failed to fetch audit trail"
	ErrFailedRevoke        = "Failed to revoke submission"
	ErrSubmissionNotFound  = "Submission not found"
	ErrNoPermissionHistory = "User does not have permission to view this history"
)
