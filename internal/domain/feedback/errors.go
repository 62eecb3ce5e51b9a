package feedback

import "errors"

var (
	ErrReportNotFound = errors.New("bug report not found")
)
