package extract

import (
    "floatprovider/internal/provider"
)

// Strategy attempts to pull a raw extraction for one attribute out of a
// document (HTML or JSON text). It reports ok=false when the expected shape
// is simply absent; only truly unexpected conditions are errors, and those
// are handled at the adapter level (e.g. an empty document).
type Strategy interface {
    Name() string
    Extract(doc []byte, attr provider.Attribute) (provider.Extraction, bool)
}

// Chain tries strategies in order and stops at the first success.
type Chain struct {
    Strategies []Strategy
}

func (c Chain) Extract(doc []byte, attr provider.Attribute) (provider.Extraction, bool) {
    if len(doc) == 0 { return provider.Extraction{}, false }
    for _, s := range c.Strategies {
        if ex, ok := s.Extract(doc, attr); ok {
            return ex, true
        }
    }
    return provider.Extraction{}, false
}
