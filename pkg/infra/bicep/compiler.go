package bicep

import (
	"bytes"
	"embed"
	"strings"

	"github.com/fabrikplatform/fabrik/pkg/construct"
	kio "github.com/fabrikplatform/fabrik/pkg/io"
	"github.com/fabrikplatform/fabrik/pkg/templateutils"
	"github.com/pkg/errors"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

var (
	entryTemplate  = templateutils.MustTemplate(templateFiles, "templates/main.bicep.tmpl")
	nestedTemplate = templateutils.MustTemplate(templateFiles, "templates/resources.bicep.tmpl")
)

const (
	// EntryFileName is the top-level entry module consumed by the
	// provisioning tool.
	EntryFileName = "main.bicep"
	// NestedFileName holds the resource group subtree.
	NestedFileName = "resources.bicep"

	seedExpression     = "resourceToken"
	tagsVariable       = "tags"
	principalParameter = "principalId"
)

type (
	// Compiler orchestrates one full generation pass over a resource group:
	// it validates the graph, back-fills hosting settings from the
	// aggregated outputs of the rest of the tree, emits the nested module
	// file and composes the entry file that re-exports every output under an
	// environment-variable-shaped name.
	Compiler struct {
		Arena *construct.Arena
		Group *construct.Group

		// Hosting optionally names the compute resource whose settings are
		// derived from the other resources' outputs. The back-fill runs
		// before any emission, so the whole pass stays single-writer.
		Hosting construct.Handle

		// BackfillSettings receives one pair per non-hosting output, keyed by
		// the transformed output name.
		BackfillSettings func(settings []construct.Pair)
	}

	// OutputExport records how one aggregated output key is re-exported.
	OutputExport struct {
		Key     string
		EnvName string
	}

	entryTemplateData struct {
		GroupName  string
		NestedFile string
		Outputs    []OutputExport
	}

	nestedTemplateData struct {
		Body    string
		Outputs []renderedOutput
	}

	renderedOutput struct {
		Key   string
		Value string
	}
)

func NewCompiler(arena *construct.Arena, group *construct.Group) *Compiler {
	return &Compiler{
		Arena:   arena,
		Group:   group,
		Hosting: construct.InvalidHandle,
	}
}

// Compile renders the two template files and returns them together with the
// table of re-exported outputs, in first-seen order.
func (c *Compiler) Compile() ([]kio.File, []OutputExport, error) {
	if err := construct.ValidateGraph(c.Arena, c.Group); err != nil {
		return nil, nil, err
	}
	ctx := &construct.RenderContext{
		Arena:          c.Arena,
		Seed:           seedExpression,
		TagsVar:        tagsVariable,
		PrincipalParam: principalParameter,
	}

	if c.Hosting != construct.InvalidHandle && c.BackfillSettings != nil {
		c.BackfillSettings(c.hostingSettings())
	}

	emitter := NewEmitter(c.Arena, ctx)
	body := new(bytes.Buffer)
	var aggregated []construct.Output
	declaredBy := make(map[string]string)
	for i, member := range c.Group.Members() {
		if i > 0 {
			body.WriteByte('\n')
		}
		outputs, err := emitter.Emit(body, member)
		if err != nil {
			return nil, nil, err
		}
		symbol := c.Arena.Resource(member).Symbol
		for _, o := range outputs {
			if previous, dup := declaredBy[o.Name]; dup {
				return nil, nil, errors.Errorf(
					"output %q is declared by both %s and %s", o.Name, previous, symbol)
			}
			declaredBy[o.Name] = symbol
			aggregated = append(aggregated, o)
		}
	}

	exports, err := exportNames(aggregated)
	if err != nil {
		return nil, nil, err
	}

	rendered := make([]renderedOutput, 0, len(aggregated))
	for _, o := range aggregated {
		value, err := o.Expr.Resolve(ctx)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "cannot resolve output %q", o.Name)
		}
		rendered = append(rendered, renderedOutput{Key: o.Name, Value: value})
	}

	nestedText, err := executeToString(nestedTemplate, nestedTemplateData{
		Body:    strings.TrimRight(body.String(), "\n"),
		Outputs: rendered,
	})
	if err != nil {
		return nil, nil, err
	}
	entryText, err := executeToString(entryTemplate, entryTemplateData{
		GroupName:  c.Group.Name,
		NestedFile: NestedFileName,
		Outputs:    exports,
	})
	if err != nil {
		return nil, nil, err
	}

	files := []kio.File{
		&kio.RawFile{FPath: EntryFileName, Content: []byte(entryText)},
		&kio.RawFile{FPath: NestedFileName, Content: []byte(nestedText)},
	}
	return files, exports, nil
}

// hostingSettings aggregates the outputs of every non-hosting member and maps
// them to settings entries keyed by the transformed output name, so the
// hosting resource sees the same names its runtime configuration loads from
// the environment.
func (c *Compiler) hostingSettings() []construct.Pair {
	var settings []construct.Pair
	for _, member := range c.Group.Members() {
		if member == c.Hosting {
			continue
		}
		for _, o := range c.collectOutputs(member) {
			settings = append(settings, construct.Pair{
				Key:   TransformOutputName(o.Name),
				Value: construct.ExprValue(o.Expr),
			})
		}
	}
	return settings
}

// collectOutputs walks the ownership subtree of h in emission order, without
// emitting anything.
func (c *Compiler) collectOutputs(h construct.Handle) []construct.Output {
	r := c.Arena.Resource(h)
	if r == nil {
		return nil
	}
	outputs := append([]construct.Output{}, r.Outputs()...)
	for _, child := range c.Arena.Children(h) {
		outputs = append(outputs, c.collectOutputs(child)...)
	}
	return outputs
}

// exportNames transforms every aggregated output key into its re-export name
// and rejects transformed-name collisions instead of silently overwriting.
func exportNames(outputs []construct.Output) ([]OutputExport, error) {
	exports := make([]OutputExport, 0, len(outputs))
	byEnvName := make(map[string]string, len(outputs))
	for _, o := range outputs {
		envName := TransformOutputName(o.Name)
		if previous, collision := byEnvName[envName]; collision {
			return nil, errors.Errorf(
				"outputs %q and %q both transform to %s", previous, o.Name, envName)
		}
		byEnvName[envName] = o.Name
		exports = append(exports, OutputExport{Key: o.Name, EnvName: envName})
	}
	return exports, nil
}
