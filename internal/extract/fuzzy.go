package extract

import (
    "regexp"
    "strconv"
    "strings"

    "floatprovider/internal/provider"
    "floatprovider/internal/units"
)

// Fuzzy is the last-resort strategy: a case-insensitive scan for an attribute
// label followed within a bounded window by a number+unit token. Lower
// confidence than the structured strategies, which the Strategy tag records.
type Fuzzy struct{}

func (Fuzzy) Name() string { return "fuzzy" }

// The window between label and number is capped so an unrelated figure
// further down the page is not picked up.
var fuzzyTable = map[provider.Attribute]*regexp.Regexp{
    provider.Float:         regexp.MustCompile(`(?i)(?:Shs\s?Float|Shares\s+Outstanding|Float)[^0-9]{0,40}([0-9][0-9,]*(?:\.[0-9]+)?)\s?([KMB%])?`),
    provider.ShortInterest: regexp.MustCompile(`(?i)Short\s+(?:Float|Interest)[^0-9]{0,40}([0-9][0-9,]*(?:\.[0-9]+)?)\s?%`),
    provider.ShortRatio:    regexp.MustCompile(`(?i)Short\s+Ratio[^0-9]{0,40}([0-9][0-9,]*(?:\.[0-9]+)?)`),
}

func (f Fuzzy) Extract(doc []byte, attr provider.Attribute) (provider.Extraction, bool) {
    re, ok := fuzzyTable[attr]
    if !ok { return provider.Extraction{}, false }
    m := re.FindSubmatch(doc)
    if m == nil { return provider.Extraction{}, false }
    v, err := strconv.ParseFloat(strings.ReplaceAll(string(m[1]), ",", ""), 64)
    if err != nil || v <= 0 { return provider.Extraction{}, false }

    u := units.UnitNone
    if attr == provider.ShortInterest {
        u = units.UnitPercent
    } else if len(m) > 2 {
        switch string(m[2]) {
        case "K": u = units.UnitK
        case "M": u = units.UnitM
        case "B": u = units.UnitB
        case "%": u = units.UnitPercent
        }
    }
    return provider.Extraction{Value: v, Unit: u, Strategy: f.Name()}, true
}
