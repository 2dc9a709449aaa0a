// Package certsign implements RFC 8785 JSON canonicalization and Ed25519
// signing/verification over certificate bodies (spec §4.B). It is the only
// package that touches private key bytes, and only for the duration of a
// single Sign call.
package certsign

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonicalize renders value (anything JSON-marshalable) as RFC 8785
// canonical JSON bytes: object keys sorted by code point, no insignificant
// whitespace, canonical number form, UTF-8 output, array order preserved.
//
// String field values are additionally passed through Unicode NFC
// normalization before encoding, so two certificates differing only in
// Unicode representation of the same text (composed vs. decomposed accents
// in, say, a device model string) canonicalize identically. This is an
// addition on top of bare RFC 8785, which does not mandate normal-form
// equivalence — see DESIGN.md's certsign entry.
func Canonicalize(value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("certsign: marshal for canonicalization: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("certsign: decode for canonicalization: %w", err)
	}

	var buf bytes.Buffer
	if err := encodeCanonical(&buf, generic); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case string:
		return encodeCanonicalString(buf, val)
	case json.Number:
		return encodeCanonicalNumber(buf, val)
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		// RFC 8785 §3.2.3: sort by Unicode code point. UTF-8 byte-wise
		// comparison of valid UTF-8 strings is equivalent to code-point
		// order, so a plain string sort suffices.
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeCanonicalString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("certsign: unsupported type %T in canonical body", v)
	}
}

func encodeCanonicalString(buf *bytes.Buffer, s string) error {
	normalized := norm.NFC.String(s)
	encoded, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("certsign: encode string: %w", err)
	}
	buf.Write(encoded)
	return nil
}

// encodeCanonicalNumber renders a JSON number in RFC 8785's canonical form.
// Certificate bodies in this module only ever carry integers (byte counts,
// exit codes, sample counts, millisecond durations); this implementation
// handles those exactly, and falls back to Go's shortest round-trip float
// formatting (still a faithful JSON number) for anything with a fractional
// part, which never occurs in practice here.
func encodeCanonicalNumber(buf *bytes.Buffer, n json.Number) error {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		// Integral literal (JSON never carries a leading "+"): strip any
		// leading zeroes, preserving a single "0" and the sign.
		neg := strings.HasPrefix(s, "-")
		digits := strings.TrimPrefix(s, "-")
		digits = strings.TrimLeft(digits, "0")
		if digits == "" {
			digits = "0"
		}
		if neg && digits != "0" {
			buf.WriteByte('-')
		}
		buf.WriteString(digits)
		return nil
	}

	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("certsign: parse number %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("certsign: non-finite number %q not representable in canonical JSON", s)
	}
	buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	return nil
}
