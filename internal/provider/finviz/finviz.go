package finviz

import (
    "context"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "regexp"
    "time"

    "floatprovider/internal/extract"
    "floatprovider/internal/httpx"
    "floatprovider/internal/provider"
    "floatprovider/internal/units"
)

// Config controls the Finviz provider behavior.
type Config struct {
    Name    string
    URL     string // quote page, %s = ticker
    Headers map[string]string
}

// Provider scrapes the Finviz quote page snapshot table. One network call
// per invocation; the extraction chain runs table scrape, then a regex over
// the raw cell markup, then the fuzzy scan.
type Provider struct {
    cfg    Config
    client *httpx.Client
    chain  extract.Chain
}

func New(cfg Config, hc *httpx.Client) *Provider {
    if cfg.Name == "" { cfg.Name = "Finviz" }
    if cfg.URL == "" { cfg.URL = "https://finviz.com/quote.ashx?t=%s" }
    if cfg.Headers == nil { cfg.Headers = httpx.BrowserHeaders() }
    return &Provider{
        cfg:    cfg,
        client: hc,
        chain:  extract.Chain{Strategies: []extract.Strategy{extract.TableScan{}, rowRegex{}, extract.Fuzzy{}}},
    }
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Fetch(ctx context.Context, ticker string, attrs []provider.Attribute) (map[provider.Attribute]provider.Extraction, error) {
    perCallCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
    defer cancel()

    u := fmt.Sprintf(p.cfg.URL, url.QueryEscape(ticker))
    req, err := http.NewRequestWithContext(perCallCtx, http.MethodGet, u, http.NoBody)
    if err != nil { return nil, err }
    for k, v := range p.cfg.Headers { req.Header.Set(k, v) }
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

    out := make(map[provider.Attribute]provider.Extraction, len(attrs))
    for _, attr := range attrs {
        if ex, ok := p.chain.Extract(doc, attr); ok { out[attr] = ex }
    }
    return out, nil
}

// rowRegex matches the label/value cell markup directly, for pages whose
// table structure the DOM pass could not traverse.
type rowRegex struct{}

func (rowRegex) Name() string { return "regex" }

var rowTable = map[provider.Attribute]*regexp.Regexp{
    provider.Float:         regexp.MustCompile(`(?:Shs Float|Float)</td>\s*<td[^>]*>(?:<b>)?([^<]+)`),
    provider.ShortInterest: regexp.MustCompile(`Short (?:Float|Interest)</td>\s*<td[^>]*>(?:<b>)?([^<]+)`),
    provider.ShortRatio:    regexp.MustCompile(`Short Ratio</td>\s*<td[^>]*>(?:<b>)?([^<]+)`),
}

func (r rowRegex) Extract(doc []byte, attr provider.Attribute) (provider.Extraction, bool) {
    re, ok := rowTable[attr]
    if !ok { return provider.Extraction{}, false }
    m := re.FindSubmatch(doc)
    if m == nil { return provider.Extraction{}, false }
    v, u, err := units.ParseAbbrev(string(m[1]))
    if err != nil || v < 0 { return provider.Extraction{}, false }
    if attr == provider.ShortInterest && u != units.UnitPercent {
        return provider.Extraction{}, false
    }
    return provider.Extraction{Value: v, Unit: u, Strategy: r.Name()}, true
}
