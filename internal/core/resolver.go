package core

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultReleaseBase is the public release host for the plugin.
const DefaultReleaseBase = "https://github.com/docker/scout-cli"

// tagPattern matches the final URL the release host redirects the
// "latest" alias to, e.g. ".../releases/tag/v1.18.2".
var tagPattern = regexp.MustCompile(`/tag/v(\d+\.\d+\.\d+)$`)

// Resolver determines the latest released plugin version by following
// the release host's "latest" redirect and reading the tag off the
// final URL. One attempt, no retries: a failure aborts the run.
type Resolver struct {
	BaseURL string
	Client  *http.Client
}

// NewResolver creates a Resolver against the given release base URL
// (owner/repo root, no trailing slash).
func NewResolver(baseURL string) *Resolver {
	return &Resolver{
		BaseURL: baseURL,
		Client:  newHTTPClient(),
	}
}

// newHTTPClient builds the client shared by the resolver and the
// installer. TLS 1.2 is the minimum accepted protocol version.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// Latest resolves the most recent release version. It issues a HEAD
// request against the "latest" alias, falling back to GET if the host
// rejects HEAD, follows redirects, and extracts the version from the
// resolved tag URL.
func (r *Resolver) Latest(ctx context.Context) (Version, error) {
	aliasURL := r.BaseURL + "/releases/latest"

	resp, err := r.fetch(ctx, http.MethodHead, aliasURL)
	if err != nil {
		return Version{}, &ResolutionError{URL: aliasURL, Reason: "host unreachable", Err: err}
	}
	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusForbidden {
		// Some hosts and proxies reject HEAD outright.
		drain(resp)
		resp, err = r.fetch(ctx, http.MethodGet, aliasURL)
		if err != nil {
			return Version{}, &ResolutionError{URL: aliasURL, Reason: "host unreachable", Err: err}
		}
	}
	defer drain(resp)

	final := resp.Request.URL.String()
	log.Debug().Str("alias", aliasURL).Str("resolved", final).Msg("release alias resolved")

	if final == aliasURL {
		return Version{}, &ResolutionError{URL: aliasURL, Reason: "host did not redirect to a release tag"}
	}
	m := tagPattern.FindStringSubmatch(final)
	if m == nil {
		return Version{}, &ResolutionError{URL: aliasURL, Reason: "resolved URL " + final + " does not look like a release tag"}
	}
	v, err := ParseVersion(m[1])
	if err != nil {
		return Version{}, &ResolutionError{URL: aliasURL, Reason: "bad version in tag URL", Err: err}
	}
	return v, nil
}

func (r *Resolver) fetch(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	return r.Client.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
