package probe

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Extract pulls a named scalar out of a blob of semi-structured text without
// ever failing: any mismatch, missing container, or malformed input yields
// ok=false. path is a dotted path with optional [n] indices
// ("display[0].size") or a flat key ("MemTotal").
//
// With structured set the blob is decoded as JSON and the path is walked
// through the document; otherwise the blob is treated as raw text and the
// value is located by pattern matching. The two strategies are deliberately
// interchangeable: the structured report tool can be present without its
// output being parseable, and degrading to patterns preserves partial
// functionality.
func Extract(blob []byte, path string, structured bool) (string, bool) {
	if len(blob) == 0 || path == "" {
		return "", false
	}
	if structured {
		return extractStructured(blob, path)
	}
	return extractPattern(blob, path)
}

type pathSegment struct {
	name  string
	index int // -1 when no index was given
}

func parsePath(path string) []pathSegment {
	parts := strings.Split(path, ".")
	segs := make([]pathSegment, 0, len(parts))
	for _, part := range parts {
		seg := pathSegment{name: part, index: -1}
		if open := strings.IndexByte(part, '['); open >= 0 && strings.HasSuffix(part, "]") {
			if n, err := strconv.Atoi(part[open+1 : len(part)-1]); err == nil {
				seg.name = part[:open]
				seg.index = n
			}
		}
		segs = append(segs, seg)
	}
	return segs
}

func extractStructured(blob []byte, path string) (string, bool) {
	var doc any
	if err := json.Unmarshal(blob, &doc); err != nil {
		return "", false
	}
	cur := doc
	for _, seg := range parsePath(path) {
		cur = descend(cur, seg.name)
		if cur == nil {
			return "", false
		}
		if seg.index >= 0 {
			arr, ok := cur.([]any)
			if !ok || seg.index >= len(arr) {
				return "", false
			}
			cur = arr[seg.index]
		}
	}
	return scalarText(cur)
}

// descend finds the child of node addressed by name: a direct key, or —
// for report documents that nest devices in children arrays — the nearest
// sub-object whose id matches.
func descend(node any, name string) any {
	switch n := node.(type) {
	case map[string]any:
		if v, ok := n[name]; ok {
			return v
		}
		return findByID(n, name)
	case []any:
		for _, elem := range n {
			if v := descend(elem, name); v != nil {
				return v
			}
		}
	}
	return nil
}

// findByID walks the subtree depth-first for an object identifying itself
// as name. Report tools suffix instance numbers ("cpu:0"), so an id prefix
// also matches.
func findByID(node map[string]any, name string) any {
	if id, ok := node["id"].(string); ok {
		if id == name || strings.HasPrefix(id, name+":") {
			return node
		}
	}
	for _, v := range node {
		switch child := v.(type) {
		case map[string]any:
			if found := findByID(child, name); found != nil {
				return found
			}
		case []any:
			for _, elem := range child {
				if m, ok := elem.(map[string]any); ok {
					if found := findByID(m, name); found != nil {
						return found
					}
				}
			}
		}
	}
	return nil
}

// scalarText converts a decoded JSON leaf to its raw text form. JSON null
// and the empty string are both absent; containers are never a value.
func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func extractPattern(blob []byte, path string) (string, bool) {
	segs := parsePath(path)
	text := string(blob)

	// Narrow to the innermost container named by the last-but-one segment
	// before searching for the terminal key. A missing container is a miss,
	// not an excuse to scan the whole blob.
	if len(segs) > 1 {
		container := segs[len(segs)-2].name
		idx := strings.Index(text, `"`+container+`"`)
		if idx < 0 {
			return "", false
		}
		text = text[idx:]
	}

	key := segs[len(segs)-1].name

	// Quoted-document form first: "key" : "value" or "key" : 123.
	quoted := regexp.MustCompile(`"` + regexp.QuoteMeta(key) + `"\s*:\s*(?:"((?:[^"\\]|\\.)*)"|(-?[0-9]+(?:\.[0-9]+)?))`)
	if m := quoted.FindStringSubmatch(text); m != nil {
		if m[2] != "" {
			return m[2], true
		}
		if unquoted, err := strconv.Unquote(`"` + m[1] + `"`); err == nil {
			if unquoted == "" {
				return "", false
			}
			return unquoted, true
		}
		return "", false
	}

	// Flat key:value form, as emitted by /proc files and tool output.
	flat := regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(key) + `\s*:\s*(.+)$`)
	if m := flat.FindStringSubmatch(text); m != nil {
		value := strings.TrimSpace(m[1])
		if value == "" || value == "null" {
			return "", false
		}
		return value, true
	}

	return "", false
}
