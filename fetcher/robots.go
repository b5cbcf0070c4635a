package fetcher

import (
	"context"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// RobotsFacts describes a robots.txt probe for one page.
type RobotsFacts struct {
	HasRobotsTxt bool   `json:"hasRobotsTxt"`
	Allowed      bool   `json:"allowed"`
	CheckedPath  string `json:"checkedPath"`
}

// Robots fetches robots.txt for pageURL's origin and reports whether the
// page path is allowed for this fetcher's user agent. A missing robots
// file allows everything.
func (f *Fetcher) Robots(ctx context.Context, pageURL string) (*RobotsFacts, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	robotsURL := parsed.Scheme + "://" + parsed.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}

	return &RobotsFacts{
		HasRobotsTxt: resp.StatusCode >= 200 && resp.StatusCode < 300,
		Allowed:      data.FindGroup(f.userAgent).Test(path),
		CheckedPath:  path,
	}, nil
}
