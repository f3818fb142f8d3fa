package yahoo

import (
    "context"
    "errors"
    "net/http"
    "net/http/httptest"
    "sync/atomic"
    "testing"
    "time"

    "floatprovider/internal/httpx"
    "floatprovider/internal/provider"
    "floatprovider/internal/units"
)

const apiDoc = `{
  "quoteSummary": {
    "result": [
      {
        "defaultKeyStatistics": {
          "floatShares": {"raw": 55070000, "fmt": "55.07M"},
          "sharesShort": {"raw": 9000000, "fmt": "9M"},
          "shortPercentOfFloat": {"raw": 0.0423, "fmt": "4.23%"},
          "shortRatio": {"raw": 2.4, "fmt": "2.40"}
        },
        "summaryDetail": {},
        "financialData": {}
      }
    ],
    "error": null
  }
}`

const pageDoc = `<html><head><script>
root.App.main = {"context":{"dispatcher":{"stores":{"QuoteSummaryStore":{"defaultKeyStatistics":{"floatShares":{"raw":75000000},"sharesShort":{"raw":9000000},"shortRatio":{"raw":1.85}}}}}}};
</script></head><body></body></html>`

func testProvider(t *testing.T, api, page http.HandlerFunc) *Provider {
    t.Helper()
    apiSrv := httptest.NewServer(api)
    t.Cleanup(apiSrv.Close)
    pageSrv := httptest.NewServer(page)
    t.Cleanup(pageSrv.Close)
    return New(Config{
        APIURL:  apiSrv.URL + "/v10/finance/quoteSummary/%s",
        PageURL: pageSrv.URL + "/quote/%s/key-statistics",
    }, httpx.New(5*time.Second))
}

func TestFetch_APIVariantCoversAll(t *testing.T) {
    var pageHits atomic.Int32
    p := testProvider(t,
        func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte(apiDoc)) },
        func(w http.ResponseWriter, _ *http.Request) { pageHits.Add(1); w.Write([]byte(pageDoc)) },
    )

    attrs := []provider.Attribute{provider.Float, provider.ShortInterest, provider.ShortRatio}
    out, err := p.Fetch(context.Background(), "AAPL", attrs)
    if err != nil { t.Fatalf("Fetch: %v", err) }
    if got := out[provider.Float]; got.Value != 55070000 || got.Unit != units.UnitRaw {
        t.Fatalf("float: %+v", got)
    }
    if got := out[provider.ShortInterest]; got.Value != 0.0423 || got.Unit != units.UnitFraction {
        t.Fatalf("short interest: %+v", got)
    }
    if got := out[provider.ShortRatio]; got.Value != 2.4 || got.Unit != units.UnitNone {
        t.Fatalf("short ratio: %+v", got)
    }
    if pageHits.Load() != 0 {
        t.Fatalf("page variant queried despite API coverage: %d hits", pageHits.Load())
    }
}

func TestFetch_PageFallbackOnAPIFailure(t *testing.T) {
    p := testProvider(t,
        func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
        func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte(pageDoc)) },
    )

    out, err := p.Fetch(context.Background(), "AAPL", []provider.Attribute{provider.Float})
    if err != nil { t.Fatalf("Fetch: %v", err) }
    got, ok := out[provider.Float]
    if !ok { t.Fatal("float missing after page fallback") }
    if got.Value != 75000000 || got.Unit != units.UnitRaw {
        t.Fatalf("float: %+v", got)
    }
}

func TestFetch_DerivedShortInterest(t *testing.T) {
    // shortPercentOfFloat is missing; sharesShort / floatShares stands in.
    doc := `{"quoteSummary":{"result":[{"defaultKeyStatistics":{
        "floatShares":{"raw":75000000},"sharesShort":{"raw":9000000}}}]}}`
    p := testProvider(t,
        func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte(doc)) },
        func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) },
    )

    out, err := p.Fetch(context.Background(), "AAPL", []provider.Attribute{provider.ShortInterest})
    if err != nil { t.Fatalf("Fetch: %v", err) }
    got, ok := out[provider.ShortInterest]
    if !ok { t.Fatal("derived short interest missing") }
    if got.Value != 12 || got.Unit != units.UnitPercent || got.Strategy != "derived" {
        t.Fatalf("derived: %+v", got)
    }
}

func TestFetch_BothVariantsDownIsUnavailable(t *testing.T) {
    p := testProvider(t,
        func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) },
        func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusForbidden) },
    )

    _, err := p.Fetch(context.Background(), "AAPL", []provider.Attribute{provider.Float})
    if !errors.Is(err, provider.ErrUnavailable) {
        t.Fatalf("want ErrUnavailable, got %v", err)
    }
}

func TestFetch_NoDataIsAbsentNotError(t *testing.T) {
    empty := `{"quoteSummary":{"result":[{"defaultKeyStatistics":{}}]}}`
    p := testProvider(t,
        func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte(empty)) },
        func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("<html><body>nothing here</body></html>")) },
    )

    out, err := p.Fetch(context.Background(), "AAPL", []provider.Attribute{provider.Float})
    if err != nil { t.Fatalf("Fetch: %v", err) }
    if len(out) != 0 { t.Fatalf("want empty, got %+v", out) }
}

func TestFetch_TickerEscapedIntoURL(t *testing.T) {
    var gotPath atomic.Value
    p := testProvider(t,
        func(w http.ResponseWriter, r *http.Request) {
            gotPath.Store(r.URL.Path)
            w.Write([]byte(apiDoc))
        },
        func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) },
    )

    if _, err := p.Fetch(context.Background(), "BRK.B", []provider.Attribute{provider.Float}); err != nil {
        t.Fatalf("Fetch: %v", err)
    }
    if got := gotPath.Load(); got != "/v10/finance/quoteSummary/BRK.B" {
        t.Fatalf("path: %v", got)
    }
}
