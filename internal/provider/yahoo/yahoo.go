package yahoo

import (
    "context"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "time"

    "floatprovider/internal/extract"
    "floatprovider/internal/httpx"
    "floatprovider/internal/provider"
    "floatprovider/internal/units"
)

// Config controls the Yahoo provider behavior.
type Config struct {
    Name    string
    APIURL  string            // quoteSummary endpoint, %s = ticker
    PageURL string            // key-statistics page, %s = ticker
    Headers map[string]string // extra headers for the page variant
}

// Provider pulls float and short data from Yahoo Finance. It tries the
// quoteSummary API first and falls back to scraping the key-statistics page;
// each variant is one network call, tried in priority order until the
// requested attributes are covered.
type Provider struct {
    cfg    Config
    client *httpx.Client

    apiChain  extract.Chain
    pageChain extract.Chain
}

func New(cfg Config, hc *httpx.Client) *Provider {
    if cfg.Name == "" { cfg.Name = "Yahoo" }
    if cfg.APIURL == "" {
        cfg.APIURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=defaultKeyStatistics,summaryDetail,financialData"
    }
    if cfg.PageURL == "" {
        cfg.PageURL = "https://finance.yahoo.com/quote/%s/key-statistics"
    }
    if cfg.Headers == nil { cfg.Headers = httpx.BrowserHeaders() }
    return &Provider{
        cfg:       cfg,
        client:    hc,
        apiChain:  extract.Chain{Strategies: []extract.Strategy{extract.JSONPath{}, extract.Pattern{}}},
        pageChain: extract.Chain{Strategies: []extract.Strategy{extract.JSONPath{}, extract.Pattern{}, extract.Fuzzy{}}},
    }
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Fetch(ctx context.Context, ticker string, attrs []provider.Attribute) (map[provider.Attribute]provider.Extraction, error) {
    type variant struct {
        url     string
        headers map[string]string
        chain   extract.Chain
    }
    variants := []variant{
        {url: fmt.Sprintf(p.cfg.APIURL, url.PathEscape(ticker)), headers: map[string]string{"Accept": "application/json"}, chain: p.apiChain},
        {url: fmt.Sprintf(p.cfg.PageURL, url.PathEscape(ticker)), headers: p.cfg.Headers, chain: p.pageChain},
    }

    out := make(map[provider.Attribute]provider.Extraction, len(attrs))
    var lastErr error
    for _, v := range variants {
        if len(out) == len(attrs) { break }
        doc, err := p.get(ctx, v.url, v.headers)
        if err != nil { lastErr = err; continue }
        for _, attr := range attrs {
            if _, done := out[attr]; done { continue }
            if ex, ok := v.chain.Extract(doc, attr); ok {
                out[attr] = ex
                continue
            }
            if attr == provider.ShortInterest {
                if ex, ok := deriveShortInterest(doc); ok { out[attr] = ex }
            }
        }
    }
    if len(out) == 0 && lastErr != nil {
        return nil, lastErr
    }
    return out, nil
}

// deriveShortInterest computes the percentage from sharesShort and
// floatShares when shortPercentOfFloat itself is missing.
func deriveShortInterest(doc []byte) (provider.Extraction, bool) {
    short, ok := extract.LookupRawKey(doc, "sharesShort")
    if !ok { return provider.Extraction{}, false }
    flt, ok := extract.LookupRawKey(doc, "floatShares")
    if !ok || flt <= 0 { return provider.Extraction{}, false }
    return provider.Extraction{
        Value:    short / flt * 100,
        Unit:     units.UnitPercent,
        Strategy: "derived",
    }, true
}

func (p *Provider) get(ctx context.Context, u string, headers map[string]string) ([]byte, error) {
    perCallCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
    defer cancel()
    req, err := http.NewRequestWithContext(perCallCtx, http.MethodGet, u, http.NoBody)
    if err != nil { return nil, err }
    for k, v := range headers { req.Header.Set(k, v) }
    resp, err := p.client.Do(perCallCtx, req)
    if err != nil {
        return nil, fmt.Errorf("GET %s: %v: %w", u, err, provider.ErrUnavailable)
    }
    defer resp.Body.Close()
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return nil, fmt.Errorf("GET %s -> %d: %w", u, resp.StatusCode, provider.ErrUnavailable)
    }
    doc, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
    if err != nil {
        return nil, fmt.Errorf("GET %s: read: %v: %w", u, err, provider.ErrUnavailable)
    }
    if len(doc) == 0 {
        return nil, fmt.Errorf("GET %s: empty document: %w", u, provider.ErrUnavailable)
    }
    return doc, nil
}
