package provider

import (
    "context"
    "errors"

    "floatprovider/internal/units"
)

// Attribute identifies one financial attribute of a ticker.
type Attribute string

const (
    Float         Attribute = "float"
    ShortInterest Attribute = "shortInterest"
    ShortRatio    Attribute = "shortRatio"
)

// Kind maps the attribute onto its normalization target.
func (a Attribute) Kind() units.Kind {
    switch a {
    case ShortInterest:
        return units.KindPercent
    case ShortRatio:
        return units.KindRatio
    }
    return units.KindShares
}

// Extraction is a raw value pulled out of one provider document, before unit
// normalization. It lives only for the duration of a resolution call.
type Extraction struct {
    Value    float64
    Unit     units.Unit
    Strategy string // which extraction strategy produced it
}

var (
    // ErrUnavailable marks transient provider-level failure: network error,
    // timeout, non-2xx status, rate limiting. The resolver falls back to the
    // next provider; it is never surfaced to the final caller.
    ErrUnavailable = errors.New("provider unavailable")

    // ErrConfig marks a misconfigured provider (e.g. missing credential).
    // Unlike ErrUnavailable it is not recovered by falling back.
    ErrConfig = errors.New("provider misconfigured")
)

// Provider fetches raw attribute extractions for one ticker.
// The returned map may cover only a subset of the requested attributes; a
// missing key means "asked and found nothing" for that attribute, which is
// distinct from an error return.
type Provider interface {
    Name() string
    Fetch(ctx context.Context, ticker string, attrs []Attribute) (map[Attribute]Extraction, error)
}
