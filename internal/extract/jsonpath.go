package extract

import (
    "bytes"
    "encoding/json"

    "floatprovider/internal/provider"
    "floatprovider/internal/units"
)

// keyTable maps each attribute to its serialized quote-summary key and the
// unit that key is denominated in.
var keyTable = map[provider.Attribute]struct {
    Key  string
    Unit units.Unit
}{
    provider.Float:         {Key: "floatShares", Unit: units.UnitRaw},
    provider.ShortInterest: {Key: "shortPercentOfFloat", Unit: units.UnitFraction},
    provider.ShortRatio:    {Key: "shortRatio", Unit: units.UnitNone},
}

// sections are the quote-summary sections searched in priority order.
var sections = []string{"defaultKeyStatistics", "summaryDetail", "price", "financialData"}

// embeddedMarker bounds the JSON blob Yahoo pages embed in their HTML.
var embeddedMarker = []byte("root.App.main = ")

// JSONPath parses the document as JSON (or locates an embedded JSON blob
// inside HTML) and walks a prioritized list of known object paths, returning
// the first present, well-typed, positive value.
type JSONPath struct{}

func (JSONPath) Name() string { return "json" }

func (j JSONPath) Extract(doc []byte, attr provider.Attribute) (provider.Extraction, bool) {
    ent, ok := keyTable[attr]
    if !ok { return provider.Extraction{}, false }
    v, ok := j.Lookup(doc, ent.Key)
    if !ok { return provider.Extraction{}, false }
    return provider.Extraction{Value: v, Unit: ent.Unit, Strategy: j.Name()}, true
}

// Lookup walks the quote-summary sections for a serialized key and returns
// its raw numeric value. Exported so adapters can look up auxiliary keys
// (e.g. sharesShort) that are not attributes themselves.
func (j JSONPath) Lookup(doc []byte, key string) (float64, bool) {
    root, ok := locateRoot(doc)
    if !ok { return 0, false }
    for _, sec := range sections {
        m, ok := root[sec].(map[string]any)
        if !ok || m == nil { continue }
        if v, ok := rawNumber(m[key]); ok && v > 0 {
            return v, true
        }
    }
    return 0, false
}

// locateRoot finds the object holding the quote-summary sections. It accepts
// a bare JSON document (API response or detail object) or an HTML page with
// an embedded root.App.main blob.
func locateRoot(doc []byte) (map[string]any, bool) {
    blob := doc
    if idx := bytes.Index(doc, embeddedMarker); idx >= 0 {
        rest := doc[idx+len(embeddedMarker):]
        end := bytes.IndexByte(rest, '\n')
        if end < 0 { end = len(rest) }
        blob = bytes.TrimSuffix(bytes.TrimSpace(rest[:end]), []byte(";"))
    }
    var top map[string]any
    dec := json.NewDecoder(bytes.NewReader(blob))
    dec.UseNumber()
    if err := dec.Decode(&top); err != nil { return nil, false }

    // Embedded page shape: context.dispatcher.stores.QuoteSummaryStore.{...}
    if qs, ok := dig(top, "context", "dispatcher", "stores", "QuoteSummaryStore"); ok {
        return qs, true
    }
    // API shape: quoteSummary.result[0].{...}
    if qs, ok := top["quoteSummary"].(map[string]any); ok {
        if results, ok := qs["result"].([]any); ok && len(results) > 0 {
            if first, ok := results[0].(map[string]any); ok {
                return first, true
            }
        }
        return nil, false
    }
    // Already a bare sections object.
    return top, true
}

func dig(m map[string]any, path ...string) (map[string]any, bool) {
    cur := m
    for _, p := range path {
        next, ok := cur[p].(map[string]any)
        if !ok { return nil, false }
        cur = next
    }
    return cur, true
}

// rawNumber accepts either {"raw": n, "fmt": "..."} or a plain number.
func rawNumber(v any) (float64, bool) {
    switch t := v.(type) {
    case map[string]any:
        return rawNumber(t["raw"])
    case json.Number:
        f, err := t.Float64()
        if err != nil { return 0, false }
        return f, true
    case float64:
        return t, true
    }
    return 0, false
}
