package failure

type Severity int

// crawl control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

// ClassifiedError is the error currency between packages. Every error that
// crosses a package boundary carries a severity so the caller can decide
// whether to continue the crawl or abort.
type ClassifiedError interface {
	error
	Severity() Severity
}
