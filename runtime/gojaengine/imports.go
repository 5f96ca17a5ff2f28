package gojaengine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonwraymond/scriptexec/script"
)

var (
	namedImport     = regexp.MustCompile(`^import\s*\{([^}]*)\}\s*from\s*["']([^"']+)["']\s*;?\s*$`)
	namespaceImport = regexp.MustCompile(`^import\s+\*\s*as\s+([\p{L}_$][\p{L}\p{N}_$]*)\s+from\s*["']([^"']+)["']\s*;?\s*$`)
	defaultImport   = regexp.MustCompile(`^import\s+([\p{L}_$][\p{L}\p{N}_$]*)\s+from\s*["']([^"']+)["']\s*;?\s*$`)
	bareImport      = regexp.MustCompile(`^import\s*["']([^"']+)["']\s*;?\s*$`)
	importSpecifier = regexp.MustCompile(`([\p{L}_$][\p{L}\p{N}_$]*)(?:\s+as\s+([\p{L}_$][\p{L}\p{N}_$]*))?`)
	identifier      = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{N}_$]*$`)
)

// importBinding binds one local name to a module export, or to the whole
// module when export is empty.
type importBinding struct {
	local  string
	module string
	export string
}

// imports is the outcome of resolving the import lines of a source.
type imports struct {
	text     string
	bindings []importBinding
	modules  []string
	diags    []script.Diagnostic
}

// resolveImports resolves every import line against the registry and blanks
// it, so that the remaining lines keep their positions.
func (e *Engine) resolveImports(text string, decls []script.Declaration) imports {
	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		declared[d.Name] = true
	}

	r := &importResolver{
		registry: e.cfg.Modules,
		declared: declared,
		locals:   make(map[string]bool),
		loaded:   make(map[string]bool),
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, importPrefix) {
			continue
		}
		r.resolve(i+1, line)
		lines[i] = ""
	}
	r.out.text = strings.Join(lines, "\n")
	return r.out
}

type importResolver struct {
	registry *ModuleRegistry
	declared map[string]bool
	locals   map[string]bool
	loaded   map[string]bool
	out      imports
}

func (r *importResolver) resolve(n int, line string) {
	switch {
	case namedImport.MatchString(line):
		m := namedImport.FindStringSubmatchIndex(line)
		mod, ok := r.module(n, line, m[4], m[5])
		if !ok {
			return
		}
		list := line[m[2]:m[3]]
		for _, s := range importSpecifier.FindAllStringSubmatchIndex(list, -1) {
			export := list[s[2]:s[3]]
			local, start, end := export, m[2]+s[2], m[2]+s[3]
			if s[4] >= 0 {
				local, start, end = list[s[4]:s[5]], m[2]+s[4], m[2]+s[5]
			}
			if !mod.exports(export) {
				es, ee := m[2]+s[2], m[2]+s[3]
				r.fail(n, es, ee, fmt.Sprintf("Unresolved reference '%s' in module '%s'.", export, line[m[4]:m[5]]))
				continue
			}
			r.bind(n, start, end, importBinding{local: local, module: line[m[4]:m[5]], export: export})
		}
	case namespaceImport.MatchString(line):
		m := namespaceImport.FindStringSubmatchIndex(line)
		r.wholeModule(n, line, m)
	case defaultImport.MatchString(line):
		m := defaultImport.FindStringSubmatchIndex(line)
		r.wholeModule(n, line, m)
	case bareImport.MatchString(line):
		m := bareImport.FindStringSubmatchIndex(line)
		r.module(n, line, m[2], m[3])
	default:
		r.fail(n, 0, len(line), "Unsupported import syntax.")
	}
}

func (r *importResolver) wholeModule(n int, line string, m []int) {
	if _, ok := r.module(n, line, m[4], m[5]); !ok {
		return
	}
	r.bind(n, m[2], m[3], importBinding{local: line[m[2]:m[3]], module: line[m[4]:m[5]]})
}

// module looks up the module named by line[start:end].
func (r *importResolver) module(n int, line string, start, end int) (Module, bool) {
	name := line[start:end]
	mod, err := r.registry.Lookup(name)
	if err != nil {
		r.fail(n, start, end, fmt.Sprintf("Unresolved module '%s'.", name))
		return Module{}, false
	}
	if !r.loaded[name] {
		r.loaded[name] = true
		r.out.modules = append(r.out.modules, name)
		r.out.diags = append(r.out.diags, script.Diagnostic{
			Severity: script.SeverityDebug,
			Message:  fmt.Sprintf("Resolved module '%s' (%d exports)", name, len(mod.Exports)),
		})
	}
	return mod, true
}

func (r *importResolver) bind(n, start, end int, b importBinding) {
	switch {
	case r.declared[b.local]:
		r.fail(n, start, end, fmt.Sprintf("Conflicting declarations: '%s' is already bound to a dependency.", b.local))
	case r.locals[b.local]:
		r.fail(n, start, end, fmt.Sprintf("Conflicting import: '%s' is imported twice.", b.local))
	default:
		r.locals[b.local] = true
		r.out.bindings = append(r.out.bindings, b)
	}
}

// fail records an error spanning the byte range [start, end) of line n.
func (r *importResolver) fail(n, start, end int, msg string) {
	r.out.diags = append(r.out.diags, script.Diagnostic{
		Severity: script.SeverityError,
		Message:  msg,
		Location: &script.Location{
			Start: script.Position{Line: n, Column: start + 1},
			End:   &script.Position{Line: n, Column: end + 1},
		},
	})
}
