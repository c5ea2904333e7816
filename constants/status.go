package constants

// JobStatus is the canonical status for a Textract text-detection job.
type JobStatus string

// Stable values (match the Textract API strings).
const (
	JobStatusInProgress JobStatus = "IN_PROGRESS" // detection still running
	JobStatusSucceeded  JobStatus = "SUCCEEDED"   // result ready to fetch
	JobStatusFailed     JobStatus = "FAILED"      // terminal failure
	JobStatusPartial    JobStatus = "PARTIAL_SUCCESS"
)
