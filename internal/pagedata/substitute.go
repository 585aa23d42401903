package pagedata

import (
	"strconv"
	"strings"
)

// SubstitutePlaceholders first literal-replaces {page}/{pages}, then scans
// for {kind:key} tokens. Unresolved or malformed tokens are emitted
// verbatim including their braces; an unclosed "{" terminates the scan
// and the remainder is appended unchanged.
func SubstitutePlaceholders(template string, pageNumber, pageCount int, ctx *Context) string {
	rendered := strings.ReplaceAll(template, "{page}", strconv.Itoa(pageNumber))
	rendered = strings.ReplaceAll(rendered, "{pages}", strconv.Itoa(pageCount))

	var out strings.Builder
	rest := rendered

	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:start])
		rest = rest[start+1:]

		end := strings.IndexByte(rest, '}')
		if end < 0 {
			out.WriteByte('{')
			out.WriteString(rest)
			return out.String()
		}

		token := rest[:end]
		if rep, ok := resolveToken(token, pageNumber, ctx); ok {
			out.WriteString(rep)
		} else {
			out.WriteByte('{')
			out.WriteString(token)
			out.WriteByte('}')
		}

		rest = rest[end+1:]
	}

	return out.String()
}

func resolveToken(token string, pageNumber int, ctx *Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if pageNumber < 1 {
		return "", false
	}
	pageIndex := pageNumber - 1

	kind, key, ok := cutOnce(token, ':')
	if !ok {
		return "", false
	}
	kind = strings.TrimSpace(kind)
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}

	switch kind {
	case "sum":
		v, ok := pageValue(ctx, pageIndex, key)
		if !ok || v.Kind != OpSum {
			return "", false
		}
		return FormatScaledInt(v.Sum, v.Scale), true
	case "total":
		v, ok := ctx.Totals[key]
		if !ok || v.Kind != OpSum {
			return "", false
		}
		return FormatScaledInt(v.Sum, v.Scale), true
	case "count":
		v, ok := pageValue(ctx, pageIndex, key)
		if !ok || v.Kind != OpCount {
			return "", false
		}
		return strconv.Itoa(int(v.Count)), true
	case "total_count":
		v, ok := ctx.Totals[key]
		if !ok || v.Kind != OpCount {
			return "", false
		}
		return strconv.Itoa(int(v.Count)), true
	case "every":
		v, ok := pageValue(ctx, pageIndex, key)
		if !ok || v.Kind != OpEvery {
			return "", false
		}
		return strings.Join(v.Every, ","), true
	case "total_every":
		v, ok := ctx.Totals[key]
		if !ok || v.Kind != OpEvery {
			return "", false
		}
		return strings.Join(v.Every, ","), true
	default:
		return "", false
	}
}

func pageValue(ctx *Context, pageIndex int, key string) (Value, bool) {
	if pageIndex < 0 || pageIndex >= len(ctx.Pages) {
		return Value{}, false
	}
	v, ok := ctx.Pages[pageIndex][key]
	return v, ok
}

func cutOnce(s string, sep byte) (before, after string, found bool) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

