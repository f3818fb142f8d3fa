package extract

import (
    "regexp"
    "strconv"

    "floatprovider/internal/provider"
    "floatprovider/internal/units"
)

// rawKeyPattern matches the serialized `"<key>":{"raw":<number>` shape
// directly in text, for pages that cannot be fully parsed as JSON.
func rawKeyPattern(key string) *regexp.Regexp {
    return regexp.MustCompile(`"` + key + `"\s*:\s*\{\s*"raw"\s*:\s*([0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?)`)
}

var patternTable = map[provider.Attribute]struct {
    Re   *regexp.Regexp
    Unit units.Unit
}{
    provider.Float:         {Re: rawKeyPattern("floatShares"), Unit: units.UnitRaw},
    provider.ShortInterest: {Re: rawKeyPattern("shortPercentOfFloat"), Unit: units.UnitFraction},
    provider.ShortRatio:    {Re: rawKeyPattern("shortRatio"), Unit: units.UnitNone},
}

// Pattern applies a regex tuned to the exact serialized key/value shape to
// the raw document text. Used when structured parsing fails (malformed or
// partial page).
type Pattern struct{}

func (Pattern) Name() string { return "regex" }

func (p Pattern) Extract(doc []byte, attr provider.Attribute) (provider.Extraction, bool) {
    ent, ok := patternTable[attr]
    if !ok { return provider.Extraction{}, false }
    m := ent.Re.FindSubmatch(doc)
    if m == nil { return provider.Extraction{}, false }
    v, err := strconv.ParseFloat(string(m[1]), 64)
    if err != nil || v <= 0 { return provider.Extraction{}, false }
    return provider.Extraction{Value: v, Unit: ent.Unit, Strategy: p.Name()}, true
}

// LookupRawKey finds a serialized key's raw value by structured walk first,
// regex second. Adapters use it for auxiliary keys like sharesShort.
func LookupRawKey(doc []byte, key string) (float64, bool) {
    if v, ok := (JSONPath{}).Lookup(doc, key); ok {
        return v, true
    }
    m := rawKeyPattern(key).FindSubmatch(doc)
    if m == nil { return 0, false }
    v, err := strconv.ParseFloat(string(m[1]), 64)
    if err != nil || v <= 0 { return 0, false }
    return v, true
}
