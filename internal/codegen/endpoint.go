package codegen

import "regexp"

var placeholderPattern = regexp.MustCompile(`\$?\{([^{}]*)\}`)

// endpoint lists the substitutions an api handler URL asks for.
type endpoint struct {
	// Params are the distinct {name} placeholders in order of appearance.
	Params []string
	// Env are the distinct ${NAME} environment references.
	Env []string
}

func parseEndpoint(template string) endpoint {
	var ep endpoint
	seenParam := map[string]bool{}
	seenEnv := map[string]bool{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		name := m[1]
		if m[0][0] == '$' {
			if IsValidIdentifier(name) && !seenEnv[name] {
				seenEnv[name] = true
				ep.Env = append(ep.Env, name)
			}
			continue
		}
		if !seenParam[name] {
			seenParam[name] = true
			ep.Params = append(ep.Params, name)
		}
	}
	return ep
}

// substitutions returns the declared parameters that appear as placeholders,
// in parameter declaration order.
func (ep endpoint) substitutions(declared []string) []string {
	used := make(map[string]bool, len(ep.Params))
	for _, p := range ep.Params {
		used[p] = true
	}
	var out []string
	for _, name := range declared {
		if used[name] {
			out = append(out, name)
		}
	}
	return out
}
