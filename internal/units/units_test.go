package units

import (
    "errors"
    "testing"
)

func TestNormalize_SharesRoundTrips(t *testing.T) {
    cases := []struct {
        name string
        v    float64
        u    Unit
        want float64
    }{
        {"millions identity", 55.07, UnitM, 55.07},
        {"billions", 1.23, UnitB, 1230.0},
        {"thousands", 500, UnitK, 0.5},
        {"raw count", 75_000_000, UnitRaw, 75.0},
        {"bare raw above threshold", 75_000_000, UnitNone, 75.0},
    }
    for _, c := range cases {
        t.Run(c.name, func(t *testing.T) {
            got, err := Normalize(c.v, c.u, KindShares)
            if err != nil { t.Fatalf("unexpected error: %v", err) }
            if got != c.want { t.Fatalf("got %v, want %v", got, c.want) }
        })
    }
}

func TestNormalize_BareShareCountIsAmbiguous(t *testing.T) {
    for _, v := range []float64{2, 55.07, 999_999} {
        if _, err := Normalize(v, UnitNone, KindShares); !errors.Is(err, ErrAmbiguous) {
            t.Fatalf("v=%v: want ErrAmbiguous, got %v", v, err)
        }
    }
}

func TestNormalize_RawThresholdOverride(t *testing.T) {
    n := Normalizer{RawThreshold: 1000}
    got, err := n.Normalize(50_000, UnitNone, KindShares)
    if err != nil { t.Fatalf("unexpected error: %v", err) }
    if got != 0.05 { t.Fatalf("got %v, want 0.05", got) }
}

func TestNormalize_Percent(t *testing.T) {
    if got, err := Normalize(12.3, UnitPercent, KindPercent); err != nil || got != 12.3 {
        t.Fatalf("percent passthrough: %v %v", got, err)
    }
    if got, err := Normalize(0.15, UnitFraction, KindPercent); err != nil || got != 15.0 {
        t.Fatalf("fraction scaling: %v %v", got, err)
    }
    if _, err := Normalize(120, UnitPercent, KindPercent); !errors.Is(err, ErrRange) {
        t.Fatalf("percent above 100 not rejected: %v", err)
    }
    if _, err := Normalize(3.2, UnitM, KindPercent); !errors.Is(err, ErrAmbiguous) {
        t.Fatalf("share unit for percent not rejected: %v", err)
    }
}

func TestNormalize_Ratio(t *testing.T) {
    if got, err := Normalize(1.85, UnitNone, KindRatio); err != nil || got != 1.85 {
        t.Fatalf("ratio passthrough: %v %v", got, err)
    }
    if _, err := Normalize(0, UnitNone, KindRatio); !errors.Is(err, ErrRange) {
        t.Fatalf("zero ratio not rejected: %v", err)
    }
}

func TestNormalize_RejectsNegative(t *testing.T) {
    for _, k := range []Kind{KindShares, KindPercent, KindRatio} {
        if _, err := Normalize(-1, UnitM, k); !errors.Is(err, ErrRange) {
            t.Fatalf("kind=%v: negative not rejected: %v", k, err)
        }
    }
}

func TestNormalize_Idempotent(t *testing.T) {
    a, err1 := Normalize(1.23, UnitB, KindShares)
    b, err2 := Normalize(1.23, UnitB, KindShares)
    if err1 != nil || err2 != nil || a != b {
        t.Fatalf("not idempotent: %v/%v %v/%v", a, err1, b, err2)
    }
}

func TestParseAbbrev(t *testing.T) {
    cases := []struct {
        in   string
        v    float64
        u    Unit
    }{
        {"55.07M", 55.07, UnitM},
        {"1.23B", 1.23, UnitB},
        {"500K", 500, UnitK},
        {"3.5%", 3.5, UnitPercent},
        {"1,234,567", 1234567, UnitNone},
        {" 2.50 ", 2.5, UnitNone},
    }
    for _, c := range cases {
        v, u, err := ParseAbbrev(c.in)
        if err != nil { t.Fatalf("%q: %v", c.in, err) }
        if v != c.v || u != c.u { t.Fatalf("%q: got %v/%v, want %v/%v", c.in, v, u, c.v, c.u) }
    }
    for _, bad := range []string{"", "-", "abc", "12x34"} {
        if _, _, err := ParseAbbrev(bad); err == nil {
            t.Fatalf("%q: expected error", bad)
        }
    }
}
