// Package extract recovers the {steps, code} object from free-form model output.
//
// Models are asked for strict JSON but routinely wrap it in prose or markdown
// fences, so recovery runs an ordered list of strategies and stops at the first
// candidate that parses as a JSON object.
package extract

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

type Strategy string

const (
	StrategyDirect   Strategy = "direct"
	StrategyFenced   Strategy = "fenced"
	StrategyBalanced Strategy = "balanced"
	StrategyGreedy   Strategy = "greedy"
)

var errNoCandidate = errors.New("no JSON object found in response")

// Result is a validated test case.
type Result struct {
	Steps []string `json:"steps"`
	Code  string   `json:"code"`
}

// Extraction is a successful recovery together with how it was found.
type Extraction struct {
	Result   Result
	Strategy Strategy
	Object   map[string]any
}

// outcome is what a single strategy reports back.
type outcome struct {
	object map[string]any
	err    error
	tried  bool
}

type strategy struct {
	name Strategy
	// candidate returns the text to parse, or false when the strategy has
	// nothing to offer for this input.
	candidate func(text string) (string, bool)
}

var strategies = []strategy{
	{StrategyDirect, directCandidate},
	{StrategyFenced, fencedCandidate},
	{StrategyBalanced, balancedObject},
	{StrategyGreedy, greedyObject},
}

// Extract recovers and validates a test case from raw model output.
func Extract(raw string) (*Extraction, error) {
	obj, used, err := Recover(raw)
	if err != nil {
		return nil, err
	}
	res, err := Validate(obj)
	if err != nil {
		return nil, err
	}
	return &Extraction{Result: *res, Strategy: used, Object: obj}, nil
}

// Recover returns the first JSON object any strategy can find in raw.
func Recover(raw string) (map[string]any, Strategy, error) {
	var lastErr error
	for _, s := range strategies {
		out := run(s, raw)
		if !out.tried {
			continue
		}
		if out.err == nil {
			return out.object, s.name, nil
		}
		lastErr = out.err
	}
	if lastErr == nil {
		lastErr = errNoCandidate
	}
	return nil, "", &ExtractionError{Raw: raw, Err: lastErr}
}

func run(s strategy, raw string) outcome {
	text, ok := s.candidate(raw)
	if !ok {
		return outcome{}
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return outcome{tried: true, err: err}
	}
	if obj == nil {
		// "null" unmarshals into a nil map without error
		return outcome{tried: true, err: errNoCandidate}
	}
	return outcome{tried: true, object: obj}
}

func directCandidate(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	return trimmed, trimmed != ""
}

var fenceRe = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \t]*\r?\n?(.*?)```")

func fencedCandidate(text string) (string, bool) {
	m := fenceRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	inner := m[1]
	if obj, ok := balancedObject(inner); ok {
		return obj, true
	}
	inner = strings.TrimSpace(inner)
	return inner, inner != ""
}

// balancedObject scans from the first '{' counting braces until depth
// returns to zero. Braces inside string literals are counted too, so an
// unbalanced brace in a string value defeats the scan; the greedy strategy
// covers that case.
func balancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func greedyObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
