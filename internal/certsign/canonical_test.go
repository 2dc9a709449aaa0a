package certsign

import (
	"encoding/json"
	"testing"
)

func unmarshalRoundTrip(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// TestCanonicalizeVectors exercises a small table of representative
// documents the way lattice-substrate-json-canon's conformance suite
// drives its canonicalizer: a table of (input, expected canonical bytes)
// pairs rather than one-off assertions.
func TestCanonicalizeVectors(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{
			name: "key order",
			in:   map[string]any{"b": 1, "a": 2},
			want: `{"a":2,"b":1}`,
		},
		{
			name: "nested object sorted",
			in: map[string]any{
				"z": map[string]any{"y": 1, "x": 2},
				"a": true,
			},
			want: `{"a":true,"z":{"x":2,"y":1}}`,
		},
		{
			name: "array order preserved",
			in:   map[string]any{"a": []any{3, 1, 2}},
			want: `{"a":[3,1,2]}`,
		},
		{
			name: "negative and zero integers",
			in:   map[string]any{"a": -5, "b": 0},
			want: `{"a":-5,"b":0}`,
		},
		{
			name: "null value",
			in:   map[string]any{"a": nil},
			want: `{"a":null}`,
		},
		{
			name: "string escaping",
			in:   map[string]any{"a": "hello \"world\"\n"},
			want: `{"a":"hello \"world\"\n"}`,
		},
		{
			name: "unicode code point key order",
			in:   map[string]any{"é": 1, "e": 2},
			// 'e' (U+0065) sorts before 'é' (U+00E9).
			want: `{"e":2,"é":1}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Canonicalize(tc.in)
			if err != nil {
				t.Fatalf("Canonicalize: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("Canonicalize(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCanonicalizeDeterministic(t *testing.T) {
	in := map[string]any{"z": 1, "a": map[string]any{"c": 3, "b": 2}}
	a, err := Canonicalize(in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Canonicalize(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Fatalf("two canonicalizations of the same value differ: %q vs %q", a, b)
	}
}

func TestCanonicalizeUnicodeNormalization(t *testing.T) {
	// "e" + combining acute accent (NFD) should canonicalize identically to
	// the precomposed "é" (NFC), per Canonicalize's normalization addition.
	nfd := map[string]any{"model": "é"}
	nfc := map[string]any{"model": "é"}

	a, err := Canonicalize(nfd)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Canonicalize(nfc)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Fatalf("NFD and NFC forms canonicalized differently: %q vs %q", a, b)
	}
}

func TestCanonicalizeRoundTripStability(t *testing.T) {
	// canonicalize(parse(render(c))) == canonicalize(c), per spec §8.
	type doc struct {
		B int    `json:"b"`
		A string `json:"a"`
	}
	c := doc{B: 2, A: "x"}

	first, err := Canonicalize(c)
	if err != nil {
		t.Fatal(err)
	}

	var rendered map[string]any
	if err := unmarshalRoundTrip(first, &rendered); err != nil {
		t.Fatal(err)
	}

	second, err := Canonicalize(rendered)
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Fatalf("round trip not stable: %q vs %q", first, second)
	}
}
