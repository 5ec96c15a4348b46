package fetcher

import (
	"context"
	"net/url"

	"siteharvest/pkg/failure"
)

type Fetcher interface {
	Fetch(ctx context.Context, pageURL *url.URL, crawlDepth int) (PageResult, failure.ClassifiedError)
}
