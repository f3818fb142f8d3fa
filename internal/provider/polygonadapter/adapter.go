package polygonadapter

import (
    "context"
    "errors"
    "fmt"

    "floatprovider/internal/provider"
    "floatprovider/internal/provider/polygon"
    "floatprovider/internal/units"
)

type Config struct {
    Name string // display name, default: Polygon
}

// Adapter exposes the Polygon reference API as a Provider. Polygon carries
// shares-outstanding counts only, so it can answer Float and nothing else;
// other requested attributes come back absent.
type Adapter struct {
    cfg    Config
    client *polygon.PolygonAPIClient
}

func New(cfg Config, client *polygon.PolygonAPIClient) *Adapter {
    if cfg.Name == "" { cfg.Name = "Polygon" }
    return &Adapter{cfg: cfg, client: client}
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) Fetch(ctx context.Context, ticker string, attrs []provider.Attribute) (map[provider.Attribute]provider.Extraction, error) {
    wantFloat := false
    for _, attr := range attrs {
        if attr == provider.Float { wantFloat = true }
    }
    if !wantFloat {
        return map[provider.Attribute]provider.Extraction{}, nil
    }

    details, err := a.client.GetTickerDetails(ctx, ticker)
    switch {
    case err == nil:
    case errors.Is(err, polygon.ErrNotFound):
        return map[provider.Attribute]provider.Extraction{}, nil
    case errors.Is(err, polygon.ErrUnauthorized):
        return nil, fmt.Errorf("polygon: %v: %w", err, provider.ErrConfig)
    default:
        return nil, fmt.Errorf("polygon: %v: %w", err, provider.ErrUnavailable)
    }

    // Shares outstanding stands in for float here, same as the API has no
    // true free-float field.
    count := details.ShareClassSharesOutstanding
    if count == nil { count = details.WeightedSharesOutstanding }
    if count == nil || *count <= 0 {
        return map[provider.Attribute]provider.Extraction{}, nil
    }
    return map[provider.Attribute]provider.Extraction{
        provider.Float: {Value: *count, Unit: units.UnitRaw, Strategy: "api"},
    }, nil
}
