package matcher

import (
	"bytes"
	"errors"
	"regexp"
	"strings"

	"boardgame-sync/core/utils"

	json "github.com/goccy/go-json"
)

// ErrNoStructuredData is returned when a response holds no usable match list.
var ErrNoStructuredData = errors.New("no structured data in matcher response")

// Method names the extraction step that produced a result.
type Method string

const (
	MethodDirect  Method = "direct"
	MethodFenced  Method = "fenced"
	MethodBracket Method = "bracket"
	MethodNone    Method = "none"
)

// Pair is one pairing read from the matcher response.
// Array answers only carry names; object answers may carry ids too.
type Pair struct {
	AID        string
	AName      string
	BID        string
	BName      string
	Confidence float64
}

// Extraction is the outcome of Extract.
type Extraction struct {
	Pairs  []Pair
	Method Method
}

var fencePattern = regexp.MustCompile("```[A-Za-z0-9_+-]*[ \\t]*\\r?\\n?([\\s\\S]*?)```")

// Extract reads the match list out of a free text response.
//
// It tries, in order: the whole response as JSON; every fenced code block
// holding a bracket, in order of appearance; the first balanced [...] and then
// the first balanced {...} of the text. A candidate is accepted only when it is
// valid JSON of an expected shape:
//
//	[["name from B", "name from A"], ...]
//	[{"aId": "...", "aName": "...", "bId": "...", "bName": "..."}, ...]
//	{"matches": <either of the above>}
//
// Anything else yields ErrNoStructuredData.
func Extract(raw string) (Extraction, error) {
	trimmed := strings.TrimSpace(raw)

	if pairs, ok := decodeShape([]byte(trimmed)); ok {
		return Extraction{Pairs: pairs, Method: MethodDirect}, nil
	}

	for _, m := range fencePattern.FindAllStringSubmatch(trimmed, -1) {
		block := strings.TrimSpace(m[1])
		if !strings.ContainsAny(block, "[{") {
			continue
		}
		if pairs, ok := decodeShape([]byte(block)); ok {
			return Extraction{Pairs: pairs, Method: MethodFenced}, nil
		}
	}

	for _, open := range []byte{'[', '{'} {
		segment, found := balancedSegment(trimmed, open)
		if !found {
			continue
		}
		if pairs, ok := decodeShape([]byte(segment)); ok {
			return Extraction{Pairs: pairs, Method: MethodBracket}, nil
		}
	}

	return Extraction{Method: MethodNone}, ErrNoStructuredData
}

// balancedSegment returns the text from the first open bracket to its matching
// close. Only brackets of the same kind are counted; string literals are skipped.
func balancedSegment(s string, open byte) (string, bool) {
	closing := byte(']')
	if open == '{' {
		closing = '}'
	}

	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

type matchObject struct {
	AID        any     `json:"aId"`
	AName      string  `json:"aName"`
	BID        any     `json:"bId"`
	BName      string  `json:"bName"`
	Confidence float64 `json:"confidence"`
}

type matchEnvelope struct {
	Matches json.RawMessage `json:"matches"`
}

// decodeShape parses data and checks it against the expected shapes.
func decodeShape(data []byte) ([]Pair, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, false
	}

	switch data[0] {
	case '[':
		return decodeList(data)
	case '{':
		var env matchEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, false
		}
		list := bytes.TrimSpace(env.Matches)
		if len(list) == 0 || list[0] != '[' {
			return nil, false
		}
		return decodeList(list)
	default:
		return nil, false
	}
}

// decodeList accepts an array of name pairs and match objects.
// A single malformed element rejects the whole array.
func decodeList(data []byte) ([]Pair, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}

	pairs := make([]Pair, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 {
			return nil, false
		}

		switch item[0] {
		case '[':
			var names []string
			if err := json.Unmarshal(item, &names); err != nil || len(names) != 2 {
				return nil, false
			}
			bName, aName := strings.TrimSpace(names[0]), strings.TrimSpace(names[1])
			if aName == "" || bName == "" {
				return nil, false
			}
			pairs = append(pairs, Pair{AName: aName, BName: bName})
		case '{':
			var obj matchObject
			if err := json.Unmarshal(item, &obj); err != nil {
				return nil, false
			}
			p := Pair{
				AID:        utils.ToString(obj.AID),
				AName:      strings.TrimSpace(obj.AName),
				BID:        utils.ToString(obj.BID),
				BName:      strings.TrimSpace(obj.BName),
				Confidence: obj.Confidence,
			}
			if (p.AID == "" && p.AName == "") || (p.BID == "" && p.BName == "") {
				return nil, false
			}
			pairs = append(pairs, p)
		default:
			return nil, false
		}
	}
	return pairs, true
}
