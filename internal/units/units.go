package units

import (
    "errors"
    "fmt"
    "strconv"
    "strings"
)

// Unit tags how a raw extracted magnitude is denominated.
type Unit int

const (
    UnitNone     Unit = iota // no hint from the source
    UnitRaw                  // raw share count
    UnitK                    // thousands
    UnitM                    // millions
    UnitB                    // billions
    UnitPercent              // percentage points, 0-100
    UnitFraction             // fraction of 1 (e.g. 0.15 meaning 15%)
)

func (u Unit) String() string {
    switch u {
    case UnitRaw: return "raw"
    case UnitK: return "K"
    case UnitM: return "M"
    case UnitB: return "B"
    case UnitPercent: return "%"
    case UnitFraction: return "fraction"
    }
    return "none"
}

// Kind selects the normalization target for an attribute.
type Kind int

const (
    KindShares  Kind = iota // target unit: millions of shares, > 0
    KindPercent             // percentage points in [0,100]
    KindRatio               // plain positive float (days to cover)
)

var (
    // ErrAmbiguous means a bare magnitude could not be attributed to a unit
    // with confidence. Callers treat it as "no value", never as zero.
    ErrAmbiguous = errors.New("unit ambiguous")
    // ErrRange means the normalized value falls outside the attribute's
    // plausible range and is rejected rather than clamped.
    ErrRange = errors.New("value out of range")
)

// Normalizer converts raw magnitudes into canonical per-attribute units.
// The zero value uses DefaultRawThreshold.
type Normalizer struct {
    // RawThreshold is the magnitude at or above which a bare share count is
    // assumed to be a raw number of shares. Below it (and above 1) the unit
    // is ambiguous. The default matches the scrapers this replaces, but it
    // is a guess, not calibrated ground truth; override when a source is
    // known to report in a fixed denomination.
    RawThreshold float64
}

const DefaultRawThreshold = 1_000_000

func (n Normalizer) threshold() float64 {
    if n.RawThreshold > 0 { return n.RawThreshold }
    return DefaultRawThreshold
}

// Normalize converts v tagged with unit u into the canonical unit for kind k.
// Shares normalize to millions, percentages to points in [0,100], ratios pass
// through. It is pure: no side effects, same inputs always same output.
func (n Normalizer) Normalize(v float64, u Unit, k Kind) (float64, error) {
    if v < 0 {
        return 0, fmt.Errorf("negative magnitude %v: %w", v, ErrRange)
    }
    switch k {
    case KindShares:
        out, err := n.toMillions(v, u)
        if err != nil { return 0, err }
        if out <= 0 {
            return 0, fmt.Errorf("share count %v not positive: %w", out, ErrRange)
        }
        return out, nil
    case KindPercent:
        var out float64
        switch u {
        case UnitPercent, UnitNone:
            out = v
        case UnitFraction:
            out = v * 100
        default:
            return 0, fmt.Errorf("unit %s for a percentage: %w", u, ErrAmbiguous)
        }
        if out > 100 {
            return 0, fmt.Errorf("percentage %v above 100: %w", out, ErrRange)
        }
        return out, nil
    case KindRatio:
        if u != UnitNone && u != UnitRaw {
            return 0, fmt.Errorf("unit %s for a ratio: %w", u, ErrAmbiguous)
        }
        if v == 0 {
            return 0, fmt.Errorf("ratio not positive: %w", ErrRange)
        }
        return v, nil
    }
    return 0, fmt.Errorf("unknown kind %d", k)
}

func (n Normalizer) toMillions(v float64, u Unit) (float64, error) {
    switch u {
    case UnitRaw:
        return v / 1_000_000, nil
    case UnitK:
        return v / 1000, nil
    case UnitM:
        return v, nil
    case UnitB:
        return v * 1000, nil
    case UnitNone:
        // A bare count at or above the threshold is taken as raw shares.
        // Anything smaller could be raw, millions or thousands; refuse to guess.
        if v >= n.threshold() {
            return v / 1_000_000, nil
        }
        return 0, fmt.Errorf("bare share count %v below raw threshold: %w", v, ErrAmbiguous)
    }
    return 0, fmt.Errorf("unit %s for a share count: %w", u, ErrAmbiguous)
}

// Normalize applies the default Normalizer.
func Normalize(v float64, u Unit, k Kind) (float64, error) {
    return Normalizer{}.Normalize(v, u, k)
}

// ParseAbbrev parses a human-formatted number with an optional unit suffix:
// digits with optional thousands separators and decimal point, followed by
// an optional K, M, B or %. Examples: "55.07M", "1.23B", "1,234,567", "3.5%".
func ParseAbbrev(s string) (float64, Unit, error) {
    s = strings.TrimSpace(s)
    if s == "" || s == "-" {
        return 0, UnitNone, fmt.Errorf("empty value")
    }
    unit := UnitNone
    switch {
    case strings.HasSuffix(s, "%"):
        unit = UnitPercent
        s = strings.TrimSuffix(s, "%")
    case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"):
        unit = UnitK
        s = s[:len(s)-1]
    case strings.HasSuffix(s, "M"):
        unit = UnitM
        s = s[:len(s)-1]
    case strings.HasSuffix(s, "B"):
        unit = UnitB
        s = s[:len(s)-1]
    }
    s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
    v, err := strconv.ParseFloat(s, 64)
    if err != nil {
        return 0, UnitNone, fmt.Errorf("parse %q: %w", s, err)
    }
    return v, unit, nil
}
