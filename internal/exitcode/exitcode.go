package exitcode

const (
	Success          = 0
	UsageError       = 1
	EnumerationError = 2
	DirError         = 3
	PreflightError   = 4
	PushError        = 5
	PartialFailure   = 6
)
