package conformance

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"

	"github.com/specwalk/specwalk/framework"
)

const recordedRequestTimeout = time.Second

// serverFixture is a mock HTTP endpoint whose lifetime spans a whole branch:
// beforeAll starts it, afterAll stops it, and beforeEach drains requests
// recorded by earlier leaves.
type serverFixture struct {
	server   *httptest.Server
	requests <-chan httphelpers.HTTPRequestInfo
}

func (f *serverFixture) start(ctx context.Context) error {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	f.server = httptest.NewServer(handler)
	f.requests = requests
	return nil
}

func (f *serverFixture) stop(ctx context.Context) error {
	if f.server != nil {
		f.server.Close()
	}
	return nil
}

func (f *serverFixture) drain(ctx context.Context) error {
	for {
		select {
		case <-f.requests:
		default:
			return nil
		}
	}
}

func (f *serverFixture) do(ctx context.Context, method, path, body string) (*http.Response, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, f.server.URL+path, reader)
	if err != nil {
		return nil, err
	}
	return http.DefaultClient.Do(req)
}

func (f *serverFixture) recorded(c *checklist) (httphelpers.HTTPRequestInfo, bool) {
	select {
	case info := <-f.requests:
		return info, true
	case <-time.After(recordedRequestTimeout):
		c.Errorf("no request was recorded by the endpoint")
		return httphelpers.HTTPRequestInfo{}, false
	}
}

// fixtureGroup manages a live HTTP endpoint through branch hooks, which is
// the main real-world use of the beforeAll/afterAll composition rules.
func fixtureGroup() framework.Node {
	f := &serverFixture{}
	return framework.Branch("http fixture",
		framework.BeforeAll(f.start),
		framework.AfterAll(f.stop),
		framework.BeforeEach(f.drain),

		framework.Leaf("the endpoint answers with the configured status", check(func(ctx context.Context, c *checklist) {
			resp, err := f.do(ctx, "GET", "/ping", "")
			if !assert.NoError(c, err) {
				return
			}
			resp.Body.Close()
			assert.Equal(c, 200, resp.StatusCode)
		})),

		framework.Leaf("requests are recorded with method and path", check(func(ctx context.Context, c *checklist) {
			resp, err := f.do(ctx, "GET", "/status/details", "")
			if !assert.NoError(c, err) {
				return
			}
			resp.Body.Close()
			if info, ok := f.recorded(c); ok {
				assert.Equal(c, "GET", info.Request.Method)
				assert.Equal(c, "/status/details", info.Request.URL.Path)
			}
		})),

		framework.Leaf("request bodies are captured", check(func(ctx context.Context, c *checklist) {
			resp, err := f.do(ctx, "POST", "/submit", `{"hello": "world"}`)
			if !assert.NoError(c, err) {
				return
			}
			resp.Body.Close()
			if info, ok := f.recorded(c); ok {
				assert.Equal(c, "POST", info.Request.Method)
				assert.Equal(c, `{"hello": "world"}`, string(info.Body))
			}
		})),

		framework.Leaf("the setup hook isolates requests between tests", check(func(ctx context.Context, c *checklist) {
			assert.Equal(c, 0, len(f.requests),
				"requests recorded by earlier tests must have been drained")
			resp, err := f.do(ctx, "GET", "/fresh", "")
			if !assert.NoError(c, err) {
				return
			}
			resp.Body.Close()
			if info, ok := f.recorded(c); ok {
				assert.Equal(c, "/fresh", info.Request.URL.Path)
			}
		})),

		framework.Leaf("a redirecting endpoint reports its Location", check(func(ctx context.Context, c *checklist) {
			headers := make(http.Header)
			headers.Set("Location", "/elsewhere")
			srv := httptest.NewServer(httphelpers.HandlerWithResponse(302, headers, nil))
			defer srv.Close()

			client := &http.Client{
				CheckRedirect: func(req *http.Request, via []*http.Request) error {
					return http.ErrUseLastResponse
				},
			}
			req, err := http.NewRequestWithContext(ctx, "GET", srv.URL, nil)
			if !assert.NoError(c, err) {
				return
			}
			resp, err := client.Do(req)
			if !assert.NoError(c, err) {
				return
			}
			resp.Body.Close()
			assert.Equal(c, 302, resp.StatusCode)
			assert.Equal(c, "/elsewhere", resp.Header.Get("Location"))
		})),
	)
}
