package httpx

import (
    "context"
    "net"
    "net/http"
    "time"
)

// Client is a small wrapper around http.Client with sane defaults.
type Client struct {
    HTTP      *http.Client
    UserAgent string
    Headers   map[string]string
}

func New(timeout time.Duration) *Client {
    transport := &http.Transport{
        Proxy: http.ProxyFromEnvironment,
        DialContext: (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
        MaxIdleConns:          200,
        MaxIdleConnsPerHost:   100,
        MaxConnsPerHost:       100,
        ForceAttemptHTTP2:     true,
        IdleConnTimeout:       90 * time.Second,
        TLSHandshakeTimeout:   3 * time.Second,
        ExpectContinueTimeout: 1 * time.Second,
        ResponseHeaderTimeout: 5 * time.Second,
    }
    return &Client{HTTP: &http.Client{Timeout: timeout, Transport: transport}, UserAgent: "floatprovider/1.0"}
}

// BrowserHeaders is the identity most scrape targets expect; API-style
// providers override per request.
func BrowserHeaders() map[string]string {
    return map[string]string{
        "User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
        "Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
        "Accept-Language": "en-US,en;q=0.5",
        "Connection":      "keep-alive",
    }
}

func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
    if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
        req.Header.Set("User-Agent", c.UserAgent)
    }
    for k, v := range c.Headers {
        if req.Header.Get(k) == "" {
            req.Header.Set(k, v)
        }
    }
    return c.HTTP.Do(req)
}
