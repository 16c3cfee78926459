package construct

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type (
	// Expression is a deferred value that renders to a fragment of template
	// text only at serialization time. Resolution is pure: the same
	// expression resolved against the same context always yields the same
	// text, and never has side effects.
	//
	// The variant set is closed; the unexported marker keeps callers from
	// introducing open-ended polymorphism into the emitter.
	Expression interface {
		Resolve(ctx *RenderContext) (string, error)
		expression()
	}

	// RenderContext carries the ambient state expressions resolve against:
	// the arena for symbol lookups, the deterministic naming seed expression,
	// and the names of the ambient tags variable and principal parameter in
	// the generated file.
	RenderContext struct {
		Arena          *Arena
		Seed           string
		TagsVar        string
		PrincipalParam string
	}
)

func (ctx *RenderContext) symbol(h Handle) (string, error) {
	if ctx == nil || ctx.Arena == nil {
		return "", errors.New("no arena in render context")
	}
	return ctx.Arena.Symbol(h)
}

type (
	// RawExpr is a verbatim template expression.
	RawExpr struct {
		Text string
	}

	// StrExpr is a single-quoted string literal.
	StrExpr struct {
		Value string
	}

	// ResourceIDExpr renders the deployed id of another node.
	ResourceIDExpr struct {
		Resource Handle
	}

	// PrincipalIDExpr renders the principal id of an identity node, or the
	// ambient principal parameter when Resource is InvalidHandle.
	PrincipalIDExpr struct {
		Resource Handle
	}

	// UniqueNameExpr renders a deterministic name: a hash of the seed
	// truncated to Length characters behind Prefix. Seed defaults to the
	// ambient naming seed of the render context.
	UniqueNameExpr struct {
		Prefix string
		Length int
		Seed   Expression
	}

	// GUIDExpr renders a deterministic GUID over its arguments, so that
	// re-deploying a resource keyed by the same inputs reproduces the same
	// name. The first argument serves as the seed.
	GUIDExpr struct {
		Args []Expression
	}

	// SubscriptionResourceIDExpr renders a subscription-scoped id lookup for
	// built-in constants such as role definitions.
	SubscriptionResourceIDExpr struct {
		ResourceType string
		ConstantName string
	}
)

func Raw(text string) Expression {
	return RawExpr{Text: text}
}

func Str(value string) Expression {
	return StrExpr{Value: value}
}

func ResourceID(h Handle) Expression {
	return ResourceIDExpr{Resource: h}
}

func PrincipalID(h Handle) Expression {
	return PrincipalIDExpr{Resource: h}
}

// AmbientPrincipal references the deployment-wide principal parameter.
func AmbientPrincipal() Expression {
	return PrincipalIDExpr{Resource: InvalidHandle}
}

func UniqueName(prefix string, length int) Expression {
	return UniqueNameExpr{Prefix: prefix, Length: length}
}

func UniqueNameSeeded(prefix string, length int, seed Expression) Expression {
	return UniqueNameExpr{Prefix: prefix, Length: length, Seed: seed}
}

func GUIDName(args ...Expression) Expression {
	return GUIDExpr{Args: args}
}

func SubscriptionResourceID(resourceType string, constantName string) Expression {
	return SubscriptionResourceIDExpr{ResourceType: resourceType, ConstantName: constantName}
}

func (e RawExpr) expression()                    {}
func (e StrExpr) expression()                    {}
func (e ResourceIDExpr) expression()             {}
func (e PrincipalIDExpr) expression()            {}
func (e UniqueNameExpr) expression()             {}
func (e GUIDExpr) expression()                   {}
func (e SubscriptionResourceIDExpr) expression() {}

func (e RawExpr) Resolve(ctx *RenderContext) (string, error) {
	return e.Text, nil
}

func (e StrExpr) Resolve(ctx *RenderContext) (string, error) {
	return QuoteString(e.Value), nil
}

func (e ResourceIDExpr) Resolve(ctx *RenderContext) (string, error) {
	symbol, err := ctx.symbol(e.Resource)
	if err != nil {
		return "", errors.Wrap(err, "cannot resolve resource id reference")
	}
	return symbol + ".id", nil
}

func (e PrincipalIDExpr) Resolve(ctx *RenderContext) (string, error) {
	if e.Resource == InvalidHandle {
		if ctx == nil || ctx.PrincipalParam == "" {
			return "", errors.New("cannot resolve principal id: no ambient principal parameter established")
		}
		return ctx.PrincipalParam, nil
	}
	symbol, err := ctx.symbol(e.Resource)
	if err != nil {
		return "", errors.Wrap(err, "cannot resolve principal id reference")
	}
	return symbol + ".properties.principalId", nil
}

func (e UniqueNameExpr) Resolve(ctx *RenderContext) (string, error) {
	seed := ""
	if e.Seed != nil {
		resolved, err := e.Seed.Resolve(ctx)
		if err != nil {
			return "", errors.Wrapf(err, "cannot resolve seed for unique name %q", e.Prefix)
		}
		seed = resolved
	} else if ctx != nil {
		seed = ctx.Seed
	}
	if seed == "" {
		return "", errors.Errorf("cannot resolve unique name %q: no ambient naming seed established", e.Prefix)
	}
	return fmt.Sprintf("take('%s${uniqueString(%s)}', %d)", e.Prefix, seed, e.Length), nil
}

func (e GUIDExpr) Resolve(ctx *RenderContext) (string, error) {
	if len(e.Args) == 0 {
		return "", errors.New("cannot resolve guid name: no seed arguments given")
	}
	parts := make([]string, 0, len(e.Args))
	for i, arg := range e.Args {
		resolved, err := arg.Resolve(ctx)
		if err != nil {
			return "", errors.Wrapf(err, "cannot resolve guid name argument %d", i)
		}
		parts = append(parts, resolved)
	}
	return fmt.Sprintf("guid(%s)", strings.Join(parts, ", ")), nil
}

func (e SubscriptionResourceIDExpr) Resolve(ctx *RenderContext) (string, error) {
	return fmt.Sprintf("subscriptionResourceId('%s', '%s')", e.ResourceType, e.ConstantName), nil
}

// QuoteString renders s as a single-quoted template string literal.
func QuoteString(s string) string {
	result := strings.Builder{}
	result.WriteRune('\'')
	runes := []rune(s)
	for i, char := range runes {
		switch char {
		case '\'':
			result.WriteString(`\'`)
		case '\\':
			result.WriteString(`\\`)
		case '\n':
			result.WriteString(`\n`)
		case '\r':
			result.WriteString(`\r`)
		case '\t':
			result.WriteString(`\t`)
		case '$':
			// only ${ starts an interpolation; a bare $ has no escape form
			if i+1 < len(runes) && runes[i+1] == '{' {
				result.WriteString(`\$`)
			} else {
				result.WriteRune(char)
			}
		default:
			result.WriteRune(char)
		}
	}
	result.WriteRune('\'')
	return result.String()
}
