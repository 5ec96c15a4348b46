package textify

import (
	"fmt"

	"siteharvest/pkg/failure"
)

type ConvertErrorCause string

const (
	ErrCauseInputDirMissing ConvertErrorCause = "input directory missing"
	ErrCauseInputDirRead    ConvertErrorCause = "input directory unreadable"
)

type ConvertError struct {
	Message string
	Cause   ConvertErrorCause
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("textify error: %s, %s", e.Cause, e.Message)
}

func (e *ConvertError) Severity() failure.Severity {
	return failure.SeverityFatal
}
