package extract

import (
    "bytes"
    "strings"

    "github.com/PuerkitoBio/goquery"

    "floatprovider/internal/provider"
    "floatprovider/internal/units"
)

// labelTable maps each attribute to the row labels that may carry it.
// Matching is exact on the trimmed, lower-cased label cell so that
// "Float" never matches the "Short Float" row.
var labelTable = map[provider.Attribute][]string{
    provider.Float:         {"shs float", "float", "shares outstanding", "shs outstand"},
    provider.ShortInterest: {"short float", "short interest"},
    provider.ShortRatio:    {"short ratio"},
}

// TableScan parses the document's tabular structure, collects label/value
// cell pairs, and picks the value behind the highest-priority label known
// for the attribute. Quote tables interleave label/value pairs across each
// row, so cells are scanned pairwise. Label priority matters: a page can
// carry both "Shs Float" and "Shs Outstand" and the float must come from
// the former.
type TableScan struct{}

func (TableScan) Name() string { return "table" }

func (t TableScan) Extract(doc []byte, attr provider.Attribute) (provider.Extraction, bool) {
    labels := labelTable[attr]
    if len(labels) == 0 { return provider.Extraction{}, false }

    gq, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
    if err != nil { return provider.Extraction{}, false }

    // first occurrence per label, in document order
    pairs := make(map[string]string)
    gq.Find("tr").Each(func(_ int, row *goquery.Selection) {
        var cells []string
        row.Find("td").Each(func(_ int, cell *goquery.Selection) {
            cells = append(cells, strings.TrimSpace(cell.Text()))
        })
        for i := 0; i+1 < len(cells); i += 2 {
            l := strings.ToLower(cells[i])
            if _, dup := pairs[l]; !dup { pairs[l] = cells[i+1] }
        }
    })

    for _, l := range labels {
        raw, ok := pairs[l]
        if !ok { continue }
        v, u, err := units.ParseAbbrev(raw)
        if err != nil || v < 0 { continue }
        // A percentage attribute must come from a percent cell; the
        // "Short Interest" row carries a share count on some pages.
        if attr == provider.ShortInterest && u != units.UnitPercent { continue }
        return provider.Extraction{Value: v, Unit: u, Strategy: t.Name()}, true
    }
    return provider.Extraction{}, false
}
