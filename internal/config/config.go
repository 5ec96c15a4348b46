package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"
)

// realistic desktop browser identity; some sites refuse obvious bot agents
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

type Config struct {
	//===============
	//  Crawl scope
	//===============
	// Initial page from which discovery starts. The crawl never leaves its host.
	startURL *url.URL

	//===============
	// Limits
	//===============
	// Maximum number of hyperlink hops from the start URL
	maxDepth int
	// Maximum number of pages whose text is retained. Discovery continues
	// past this limit; only content extraction is capped.
	maxPages int

	//===============
	// Politeness
	//===============
	// Fixed waiting time enforced before each traversal descent
	delay time.Duration
	// Total fetch attempts per URL, including the first one
	maxRetries int
	// Fixed waiting time between two fetch attempts of the same URL
	retryDelay time.Duration

	//===============
	// Fetch
	//===============
	// Maximum time of a single fetch request
	timeout time.Duration
	// User agent used in the request header, raw string
	userAgent string

	//===============
	// Output
	//===============
	// Path of the URL inventory file, one discovered URL per line
	outputFile string

	//===============
	// Download (collaborator)
	//===============
	// Path of the URL list consumed by the batch downloader
	urlListFile string
	// Root directory for content-type-classified downloads
	downloadDir string
	// Hostname allowlist for the downloader. Empty means the start URL's host.
	allowedHosts map[string]struct{}
	// Maximum time of a single download request
	downloadTimeout time.Duration

	//===============
	// Textify (collaborator)
	//===============
	// Directory of previously saved .html/.htm files
	htmlDir string
	// Directory receiving one text file per input page
	textDir string
	// Emit Markdown instead of plain text
	markdown bool
}

type configDTO struct {
	StartURL        string        `json:"startUrl"`
	MaxDepth        int           `json:"maxDepth,omitempty"`
	MaxPages        int           `json:"maxPages,omitempty"`
	Delay           time.Duration `json:"delay,omitempty"`
	MaxRetries      int           `json:"maxRetries,omitempty"`
	RetryDelay      time.Duration `json:"retryDelay,omitempty"`
	Timeout         time.Duration `json:"timeout,omitempty"`
	UserAgent       string        `json:"userAgent,omitempty"`
	OutputFile      string        `json:"outputFile,omitempty"`
	URLListFile     string        `json:"urlListFile,omitempty"`
	DownloadDir     string        `json:"downloadDir,omitempty"`
	AllowedHosts    []string      `json:"allowedHosts,omitempty"`
	DownloadTimeout time.Duration `json:"downloadTimeout,omitempty"`
	HTMLDir         string        `json:"htmlDir,omitempty"`
	TextDir         string        `json:"textDir,omitempty"`
	Markdown        bool          `json:"markdown,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	startURL, err := url.Parse(dto.StartURL)
	if err != nil {
		return Config{}, fmt.Errorf("%w: bad startUrl: %s", ErrInvalidConfig, err.Error())
	}

	builder := WithDefault(startURL)

	if dto.MaxDepth != 0 {
		builder = builder.WithMaxDepth(dto.MaxDepth)
	}
	if dto.MaxPages != 0 {
		builder = builder.WithMaxPages(dto.MaxPages)
	}
	if dto.Delay != 0 {
		builder = builder.WithDelay(dto.Delay)
	}
	if dto.MaxRetries != 0 {
		builder = builder.WithMaxRetries(dto.MaxRetries)
	}
	if dto.RetryDelay != 0 {
		builder = builder.WithRetryDelay(dto.RetryDelay)
	}
	if dto.Timeout != 0 {
		builder = builder.WithTimeout(dto.Timeout)
	}
	if dto.UserAgent != "" {
		builder = builder.WithUserAgent(dto.UserAgent)
	}
	if dto.OutputFile != "" {
		builder = builder.WithOutputFile(dto.OutputFile)
	}
	if dto.URLListFile != "" {
		builder = builder.WithURLListFile(dto.URLListFile)
	}
	if dto.DownloadDir != "" {
		builder = builder.WithDownloadDir(dto.DownloadDir)
	}
	if len(dto.AllowedHosts) > 0 {
		hosts := make(map[string]struct{})
		for _, h := range dto.AllowedHosts {
			if h != "" {
				hosts[h] = struct{}{}
			}
		}
		builder = builder.WithAllowedHosts(hosts)
	}
	if dto.DownloadTimeout != 0 {
		builder = builder.WithDownloadTimeout(dto.DownloadTimeout)
	}
	if dto.HTMLDir != "" {
		builder = builder.WithHTMLDir(dto.HTMLDir)
	}
	if dto.TextDir != "" {
		builder = builder.WithTextDir(dto.TextDir)
	}
	builder = builder.WithMarkdown(dto.Markdown)

	return builder.Build()
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// WithDefault creates a new Config with the provided start URL and default
// values for all other fields. The defaults mirror the crawl's intended use
// against small documentation-style sites.
func WithDefault(startURL *url.URL) *Config {
	defaultConfig := Config{
		startURL:        startURL,
		maxDepth:        3,
		maxPages:        50,
		delay:           500 * time.Millisecond,
		maxRetries:      3,
		retryDelay:      time.Second,
		timeout:         10 * time.Second,
		userAgent:       defaultUserAgent,
		outputFile:      "discovered_urls.txt",
		urlListFile:     "discovered_urls.txt",
		downloadDir:     "downloaded_content",
		allowedHosts:    map[string]struct{}{},
		downloadTimeout: 15 * time.Second,
		htmlDir:         "downloaded_content/html_pages",
		textDir:         "extracted_text",
		markdown:        false,
	}
	return &defaultConfig
}

func (c *Config) WithStartURL(u *url.URL) *Config {
	c.startURL = u
	return c
}

func (c *Config) WithMaxDepth(depth int) *Config {
	c.maxDepth = depth
	return c
}

func (c *Config) WithMaxPages(pages int) *Config {
	c.maxPages = pages
	return c
}

func (c *Config) WithDelay(delay time.Duration) *Config {
	c.delay = delay
	return c
}

func (c *Config) WithMaxRetries(retries int) *Config {
	c.maxRetries = retries
	return c
}

func (c *Config) WithRetryDelay(delay time.Duration) *Config {
	c.retryDelay = delay
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithOutputFile(path string) *Config {
	c.outputFile = path
	return c
}

func (c *Config) WithURLListFile(path string) *Config {
	c.urlListFile = path
	return c
}

func (c *Config) WithDownloadDir(dir string) *Config {
	c.downloadDir = dir
	return c
}

func (c *Config) WithAllowedHosts(hosts map[string]struct{}) *Config {
	c.allowedHosts = hosts
	return c
}

func (c *Config) WithDownloadTimeout(timeout time.Duration) *Config {
	c.downloadTimeout = timeout
	return c
}

func (c *Config) WithHTMLDir(dir string) *Config {
	c.htmlDir = dir
	return c
}

func (c *Config) WithTextDir(dir string) *Config {
	c.textDir = dir
	return c
}

func (c *Config) WithMarkdown(markdown bool) *Config {
	c.markdown = markdown
	return c
}

func (c *Config) Build() (Config, error) {
	if c.startURL == nil || c.startURL.Host == "" {
		return Config{}, fmt.Errorf("%w: startUrl must be an absolute URL", ErrInvalidConfig)
	}
	if c.maxDepth < 0 {
		return Config{}, fmt.Errorf("%w: maxDepth cannot be negative", ErrInvalidConfig)
	}
	if c.maxPages < 1 {
		return Config{}, fmt.Errorf("%w: maxPages must be at least 1", ErrInvalidConfig)
	}
	if c.maxRetries < 1 {
		return Config{}, fmt.Errorf("%w: maxRetries must be at least 1", ErrInvalidConfig)
	}

	// If allowedHosts is empty, default to the start URL's host
	if len(c.allowedHosts) == 0 {
		c.allowedHosts = map[string]struct{}{
			c.startURL.Host: {},
		}
	}

	return *c, nil
}

func (c Config) StartURL() *url.URL {
	u := *c.startURL
	return &u
}

func (c Config) MaxDepth() int {
	return c.maxDepth
}

func (c Config) MaxPages() int {
	return c.maxPages
}

func (c Config) Delay() time.Duration {
	return c.delay
}

func (c Config) MaxRetries() int {
	return c.maxRetries
}

func (c Config) RetryDelay() time.Duration {
	return c.retryDelay
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) OutputFile() string {
	return c.outputFile
}

func (c Config) URLListFile() string {
	return c.urlListFile
}

func (c Config) DownloadDir() string {
	return c.downloadDir
}

func (c Config) AllowedHosts() map[string]struct{} {
	hosts := make(map[string]struct{})
	for k, v := range c.allowedHosts {
		hosts[k] = v
	}
	return hosts
}

func (c Config) DownloadTimeout() time.Duration {
	return c.downloadTimeout
}

func (c Config) HTMLDir() string {
	return c.htmlDir
}

func (c Config) TextDir() string {
	return c.textDir
}

func (c Config) Markdown() bool {
	return c.markdown
}
