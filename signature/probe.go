package signature

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/astbuild/errors"
)

// Prober invokes a builder with no arguments and returns its failure
type Prober interface {
	Probe(kind string) error
}

// zeroArgKinds take no build parameters. Probing them would succeed, so
// they are answered without calling the builder.
var zeroArgKinds = []string{"ThisExpression", "EmptyStatement"}

var quotedToken = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)

// ProbeProvider discovers signatures by calling the builder with no
// arguments and parsing the parameter list out of the failure message.
type ProbeProvider struct {
	builder Prober
	seeded  map[string][]string
}

// NewProbeProvider returns a provider probing the given builder library
func NewProbeProvider(builder Prober) *ProbeProvider {
	seeded := make(map[string][]string, len(zeroArgKinds))
	for _, kind := range zeroArgKinds {
		seeded[kind] = []string{}
	}
	return &ProbeProvider{builder: builder, seeded: seeded}
}

// Name implements Provider
func (p *ProbeProvider) Name() string {
	return "probe"
}

// Signature implements Provider
func (p *ProbeProvider) Signature(kind string) ([]string, error) {
	if params, ok := p.seeded[kind]; ok {
		return params, nil
	}

	probeErr := p.builder.Probe(kind)
	if probeErr == nil {
		return nil, errors.WithHint(
			errors.NewSchemaDiscoveryError("builder for %s accepted zero arguments", kind),
			"use --provider chain or static, which take zero-parameter builders from the embedded schema")
	}
	return ParseParams(kind, probeErr.Error())
}

// ParseParams extracts the quoted parameter names following "kind(" in a
// builder failure message. The kind must start at an identifier boundary,
// so "Expression(" inside "BinaryExpression(" does not match.
func ParseParams(kind, message string) ([]string, error) {
	pattern := regexp.MustCompile(`(?:^|[^A-Za-z0-9_$])` + regexp.QuoteMeta(kind) + `\(`)
	loc := pattern.FindStringIndex(message)
	if loc == nil {
		return nil, errors.WithDetailf(
			errors.NewSchemaDiscoveryError("builder message does not mention %s(...)", kind),
			"message: %s", message)
	}

	open := loc[1]
	closing := strings.IndexByte(message[open:], ')')
	if closing < 0 {
		return nil, errors.WithDetailf(
			errors.NewSchemaDiscoveryError("no closing parenthesis after %s( in builder message", kind),
			"message: %s", message)
	}

	inner := message[open : open+closing]
	params := []string{}
	for _, tok := range quotedToken.FindAllString(inner, -1) {
		name, err := strconv.Unquote(tok)
		if err != nil {
			return nil, errors.WithDetailf(
				errors.NewSchemaDiscoveryError("malformed parameter %s for %s", tok, kind),
				"message: %s", message)
		}
		params = append(params, name)
	}
	return params, nil
}
