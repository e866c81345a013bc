package pipeline

import (
	"strings"
)

// Info is a lenient reading of the info-extraction stage output. The raw
// text, not this struct, is what the synthesis stage receives; Info exists
// for logging and for callers that want the fields.
type Info struct {
	Summary      string
	Impact       string // minor, moderate, significant or ""
	Type         string // conventional-commit type or ""
	Scope        string
	Continuation bool
}

var commitTypes = map[string]string{
	"feat":     "feat",
	"feature":  "feat",
	"fix":      "fix",
	"bugfix":   "fix",
	"docs":     "docs",
	"doc":      "docs",
	"style":    "style",
	"refactor": "refactor",
	"test":     "test",
	"tests":    "test",
	"chore":    "chore",
}

var impactLevels = map[string]string{
	"minor":       "minor",
	"low":         "minor",
	"small":       "minor",
	"moderate":    "moderate",
	"medium":      "moderate",
	"significant": "significant",
	"high":        "significant",
	"major":       "significant",
}

// ParseInfo reads "Key: value" lines. Unknown keys, bullets and markdown
// emphasis are ignored; unrecognized values leave the field empty.
func ParseInfo(text string) Info {
	var info Info
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• ")
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.Trim(key, "*_ "))
		value = strings.Trim(value, "*_ ")

		switch key {
		case "summary", "change summary":
			info.Summary = value
		case "impact", "impact level":
			info.Impact = lookup(impactLevels, value)
		case "type", "commit type":
			info.Type = lookup(commitTypes, value)
		case "scope":
			info.Scope = normalizeScope(value)
		case "continuation", "continues task":
			v := strings.ToLower(value)
			info.Continuation = strings.HasPrefix(v, "yes") || strings.HasPrefix(v, "true")
		}
	}
	return info
}

func lookup(table map[string]string, value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.Trim(v, "<>[]().")
	if mapped, ok := table[v]; ok {
		return mapped
	}
	// "feat (new endpoint)" and similar
	if fields := strings.Fields(v); len(fields) > 0 {
		if mapped, ok := table[strings.Trim(fields[0], "<>[]().,")]; ok {
			return mapped
		}
	}
	return ""
}

func normalizeScope(value string) string {
	v := strings.Trim(strings.TrimSpace(value), "<>[]()")
	switch strings.ToLower(v) {
	case "", "none", "n/a", "na", "-", "null":
		return ""
	}
	return v
}

// Header renders the conventional-commit header implied by the fields, or ""
// when the type is unknown.
func (i Info) Header() string {
	if i.Type == "" || i.Summary == "" {
		return ""
	}
	if i.Scope != "" {
		return i.Type + "(" + i.Scope + "): " + i.Summary
	}
	return i.Type + ": " + i.Summary
}
