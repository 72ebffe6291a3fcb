// SPDX-License-Identifier: MPL-2.0

package recipe

import "strings"

const (
	itemPackage itemKind = iota
	itemEnable
	itemDisable
	itemSet
	itemVersion
	itemCompiler
)

type (
	// Request is a parsed spec string: what the user asked for before
	// defaults are applied.
	Request struct {
		Package         string
		Version         string
		Compiler        string
		CompilerVersion string
		Settings        []Setting
	}

	// Setting assigns a variant. Toggle marks the +name / ~name forms, which
	// only apply to bool variants.
	Setting struct {
		Name   string
		Value  string
		Toggle bool
	}

	itemKind int

	item struct {
		kind  itemKind
		name  string
		value string
		token string
	}
)

// ParseSpec parses spec-string tokens. Tokens may be passed separately
// ("+kokkos", "build_type=Debug") or chained ("+kokkos~openmp").
func ParseSpec(tokens ...string) (Request, error) {
	var req Request
	for _, tok := range splitFields(tokens) {
		items, err := lexToken(tok)
		if err != nil {
			return Request{}, err
		}
		for _, it := range items {
			if err := req.apply(it); err != nil {
				return Request{}, err
			}
		}
	}
	return req, nil
}

func (r *Request) apply(it item) error {
	switch it.kind {
	case itemPackage:
		if r.Package != "" {
			return &InvalidSpecError{Token: it.token, Reason: "only one package name may be given"}
		}
		r.Package = it.name
	case itemEnable:
		r.Settings = append(r.Settings, Setting{Name: it.name, Value: "true", Toggle: true})
	case itemDisable:
		r.Settings = append(r.Settings, Setting{Name: it.name, Value: "false", Toggle: true})
	case itemSet:
		r.Settings = append(r.Settings, Setting{Name: it.name, Value: it.value})
	case itemVersion:
		if r.Version != "" {
			return &InvalidSpecError{Token: it.token, Reason: "only one version may be given"}
		}
		r.Version = it.value
	case itemCompiler:
		r.Compiler, r.CompilerVersion = it.name, it.value
	}
	return nil
}

// String renders the request back into spec form.
func (r Request) String() string {
	var sb strings.Builder
	sb.WriteString(r.Package)
	if r.Version != "" {
		sb.WriteString("@" + r.Version)
	}
	for _, s := range r.Settings {
		switch {
		case s.Toggle && s.Value == "true":
			sb.WriteString(" +" + s.Name)
		case s.Toggle:
			sb.WriteString(" ~" + s.Name)
		default:
			sb.WriteString(" " + s.Name + "=" + s.Value)
		}
	}
	if r.Compiler != "" {
		sb.WriteString(" %" + r.Compiler)
		if r.CompilerVersion != "" {
			sb.WriteString("@" + r.CompilerVersion)
		}
	}
	return strings.TrimSpace(sb.String())
}

func splitFields(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		out = append(out, strings.Fields(t)...)
	}
	return out
}

// lexToken splits one whitespace-free token into items.
func lexToken(tok string) ([]item, error) {
	if name, value, ok := strings.Cut(tok, "="); ok && (name == "" || !isSigil(name[0])) {
		if !validName(name) || value == "" {
			return nil, &InvalidSpecError{Token: tok, Reason: "expected name=value"}
		}
		return []item{{kind: itemSet, name: name, value: value, token: tok}}, nil
	}

	var items []item
	rest := tok
	if rest != "" && !isSigil(rest[0]) {
		end := strings.IndexAny(rest, "+~@%")
		if end < 0 {
			end = len(rest)
		}
		items = append(items, item{kind: itemPackage, name: rest[:end], token: tok})
		rest = rest[end:]
	}

	for rest != "" {
		sigil := rest[0]
		rest = rest[1:]
		var stop string
		switch sigil {
		case '+', '~', '-':
			stop = "+~@%"
		case '@':
			stop = "+~%"
		case '%':
			stop = "+~"
		}
		end := strings.IndexAny(rest, stop)
		if end < 0 {
			end = len(rest)
		}
		body := rest[:end]
		rest = rest[end:]
		if body == "" {
			return nil, &InvalidSpecError{Token: tok, Reason: "dangling " + string(sigil)}
		}

		switch sigil {
		case '+':
			items = append(items, item{kind: itemEnable, name: body, token: tok})
		case '~', '-':
			items = append(items, item{kind: itemDisable, name: body, token: tok})
		case '@':
			items = append(items, item{kind: itemVersion, value: body, token: tok})
		case '%':
			name, version, _ := strings.Cut(body, "@")
			items = append(items, item{kind: itemCompiler, name: name, value: version, token: tok})
		}
	}
	return items, nil
}

func isSigil(c byte) bool {
	return strings.IndexByte("+~@%-", c) >= 0
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !(c == '_' || c == '-' || c == '.' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
