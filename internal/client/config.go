package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vittlify/internal/domain/errors/domain"
)

// Default configuration values.
const (
	// DefaultBaseURL is the default Vittlify instance.
	DefaultBaseURL = "http://127.0.0.1:8000/vittlify/"

	// DefaultTimeout bounds every request.
	DefaultTimeout = 5 * time.Second

	// endpointPath is appended to the base URL; every request goes there.
	endpointPath = "vt/"
)

// Supported URL schemes.
const (
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
)

// Config holds what the signing client needs to reach and authenticate against a
// Vittlify instance.
type Config struct {
	// BaseURL is the root of the Vittlify instance (e.g., "http://127.0.0.1:8000/vittlify/").
	BaseURL string

	// Username is injected into every signed message.
	Username string

	// Proxy optionally routes requests, e.g. "socks5://127.0.0.1:1080".
	Proxy string

	// PrivateKeyPath points at the RSA key used for signing. It is read on first use.
	PrivateKeyPath string

	// Timeout is the maximum duration for one request.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns a Config with the default base URL and timeout.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// EndpointURL returns the single URL every request is sent to.
func (c Config) EndpointURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + endpointPath
}

// Validate validates the configuration. Failures are configuration errors.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return invalidConfig(errors.New("base URL cannot be empty"))
	}

	if !strings.HasPrefix(c.BaseURL, schemeHTTP) && !strings.HasPrefix(c.BaseURL, schemeHTTPS) {
		return invalidConfig(fmt.Errorf("base URL must have http:// or https:// scheme, got %q", c.BaseURL))
	}

	if c.Username == "" {
		return invalidConfig(errors.New("username cannot be empty"))
	}

	if c.Timeout <= 0 {
		return invalidConfig(fmt.Errorf("timeout must be positive, got %v", c.Timeout))
	}

	_, err := proxySelector(c.Proxy)
	return err
}

func invalidConfig(err error) error {
	return domain.NewConfigurationError("invalid client configuration: "+err.Error(), err)
}

// proxySelector builds the transport's proxy function. A socks5 proxy carries
// every request; an http or https proxy only carries requests of the same scheme.
// An empty proxy defers to the environment.
func proxySelector(proxy string) (func(*http.Request) (*url.URL, error), error) {
	if proxy == "" {
		return http.ProxyFromEnvironment, nil
	}

	parts := strings.Split(proxy, "://")
	if len(parts) != 2 {
		return nil, domain.NewConfigurationError("improperly formatted proxy", domain.ErrImproperProxy)
	}

	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return nil, domain.NewConfigurationError("improperly formatted proxy", err)
	}

	scheme := strings.ToLower(parts[0])
	switch scheme {
	case "socks5":
		return http.ProxyURL(proxyURL), nil
	case "http", "https":
		return func(req *http.Request) (*url.URL, error) {
			if req.URL.Scheme == scheme {
				return proxyURL, nil
			}
			return nil, nil
		}, nil
	}

	return nil, domain.NewConfigurationError(
		fmt.Sprintf("unsupported proxy scheme %q", parts[0]), domain.ErrImproperProxy)
}
