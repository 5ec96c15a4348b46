package downloader

// Stats summarizes one batch download run.
type Stats struct {
	Processed int // URLs read from the list file
	Saved     int // resources written to disk
	Skipped   int // URLs outside the allowed hosts
	Failed    int // URLs that exhausted their retry budget or failed to save
}
