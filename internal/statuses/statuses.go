package statuses

const (
	StatusDone   = "done"
	StatusCached = "cached"
	StatusFailed = "failed"
)
