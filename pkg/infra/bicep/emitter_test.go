package bicep

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/fabrikplatform/fabrik/pkg/construct"
	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(a *construct.Arena) *construct.RenderContext {
	return &construct.RenderContext{
		Arena:          a,
		Seed:           "resourceToken",
		TagsVar:        "tags",
		PrincipalParam: "principalId",
	}
}

func emitToString(t *testing.T, a *construct.Arena, h construct.Handle) (string, []construct.Output) {
	t.Helper()
	buf := new(bytes.Buffer)
	outputs, err := NewEmitter(a, testContext(a)).Emit(buf, h)
	require.NoError(t, err)
	return buf.String(), outputs
}

func TestEmitBasicBlock(t *testing.T) {
	assert := assert.New(t)
	a := construct.NewArena()
	h := a.NewResource("storage", "Microsoft.Storage/storageAccounts", "2023-01-01")
	r := a.Resource(h)
	r.SetField("name", construct.ExprValue(construct.UniqueName("st", 24)))
	r.SetField("location", construct.ExprValue(construct.Raw("location")))
	r.SetField("kind", construct.ScalarValue("StorageV2"))
	r.SetField("sku", construct.ObjectValue(
		construct.Field{Name: "name", Value: construct.ScalarValue("Standard_LRS")},
	))

	got, _ := emitToString(t, a, h)
	want := fmt.Sprintf(dedent.Dedent(`
		resource %[1]s 'Microsoft.Storage/storageAccounts@2023-01-01' = {
		  name: take('st${uniqueString(resourceToken)}', 24)
		  location: location
		  kind: 'StorageV2'
		  sku: {
		    name: 'Standard_LRS'
		  }
		}
	`)[1:], r.Symbol)
	assert.Equal(want, got)
}

func TestEmitSentinelOmission(t *testing.T) {
	assert := assert.New(t)
	a := construct.NewArena()
	h := a.NewResource("kv", "Microsoft.KeyVault/vaults", "2023-02-01")
	r := a.Resource(h)
	r.SetField("name", construct.ScalarValue("vault"))
	r.SetField("neverRendered", construct.NeverRender())
	r.SetField("leftUnset", construct.Unset())

	got, _ := emitToString(t, a, h)
	assert.Contains(got, "name: 'vault'")
	assert.NotContains(got, "neverRendered")
	assert.NotContains(got, "leftUnset")
}

func TestEmitEmptyContainerOmission(t *testing.T) {
	assert := assert.New(t)
	a := construct.NewArena()
	h := a.NewResource("sb", "Microsoft.ServiceBus/namespaces", "2021-11-01")
	r := a.Resource(h)
	r.SetField("name", construct.ScalarValue("bus"))
	r.SetField("zones", construct.ListValue())
	r.SetField("annotations", construct.MapValue())

	got, _ := emitToString(t, a, h)
	assert.NotContains(got, "zones")
	assert.NotContains(got, "annotations")
	assert.NotContains(got, "[]")
	assert.NotContains(got, "{}")
}

func TestEmitTags(t *testing.T) {
	t.Run("empty tags reference the ambient variable", func(t *testing.T) {
		assert := assert.New(t)
		a := construct.NewArena()
		h := a.NewResource("storage", "Microsoft.Storage/storageAccounts", "2023-01-01")
		a.Resource(h).SetField("tags", construct.MapValue())

		got, _ := emitToString(t, a, h)
		assert.Contains(got, "\n  tags: tags\n")
		assert.NotContains(got, "union")
	})

	t.Run("populated tags union with the ambient variable", func(t *testing.T) {
		assert := assert.New(t)
		a := construct.NewArena()
		h := a.NewResource("app", "Microsoft.Web/sites", "2024-04-01")
		a.Resource(h).SetField("tags", construct.MapValue(
			construct.Pair{Key: "fabrik-service-name", Value: construct.ScalarValue("web")},
		))

		got, _ := emitToString(t, a, h)
		assert.Contains(got, "tags: union(tags, {\n    'fabrik-service-name': 'web'\n  })")
	})
}

func TestEmitListAndNestedValues(t *testing.T) {
	assert := assert.New(t)
	a := construct.NewArena()
	h := a.NewResource("app", "Microsoft.Web/sites", "2024-04-01")
	r := a.Resource(h)
	r.SetField("properties", construct.ObjectValue(
		construct.Field{Name: "cors", Value: construct.ObjectValue(
			construct.Field{Name: "allowedOrigins", Value: construct.ListValue(
				construct.ScalarValue("https://portal.azure.com"),
				construct.ScalarValue("https://ms.portal.azure.com"),
			)},
		)},
		construct.Field{Name: "httpsOnly", Value: construct.ScalarValue(true)},
		construct.Field{Name: "emptyNested", Value: construct.ListValue()},
	))

	got, _ := emitToString(t, a, h)
	want := fmt.Sprintf(dedent.Dedent(`
		resource %[1]s 'Microsoft.Web/sites@2024-04-01' = {
		  properties: {
		    cors: {
		      allowedOrigins: [
		        'https://portal.azure.com'
		        'https://ms.portal.azure.com'
		      ]
		    }
		    httpsOnly: true
		  }
		}
	`)[1:], r.Symbol)
	assert.Equal(want, got)
}

func TestEmitParentAndScope(t *testing.T) {
	assert := assert.New(t)
	a := construct.NewArena()
	storage := a.NewResource("storage", "Microsoft.Storage/storageAccounts", "2023-01-01")
	blobs := a.NewResource("blobs", "Microsoft.Storage/storageAccounts/blobServices", "2023-01-01")
	require.NoError(t, a.Resource(blobs).SetParent(storage))
	a.Resource(blobs).SetField("name", construct.ScalarValue("default"))

	role := a.NewResource("roleAssignment", "Microsoft.Authorization/roleAssignments", "2022-04-01")
	require.NoError(t, a.Resource(role).SetScope(storage))

	storageSymbol := a.Resource(storage).Symbol

	got, _ := emitToString(t, a, storage)
	assert.Contains(got, fmt.Sprintf("\n\nresource %s 'Microsoft.Storage/storageAccounts/blobServices@2023-01-01' = {\n  parent: %s\n",
		a.Resource(blobs).Symbol, storageSymbol))

	roleText, _ := emitToString(t, a, role)
	assert.Contains(roleText, "  scope: "+storageSymbol+"\n")
}

func TestEmitDependsOn(t *testing.T) {
	assert := assert.New(t)
	a := construct.NewArena()
	sb := a.NewResource("sb", "Microsoft.ServiceBus/namespaces", "2021-11-01")
	app := a.NewResource("app", "Microsoft.Web/sites", "2024-04-01")
	a.Resource(app).AddDependency(sb)

	got, _ := emitToString(t, a, app)
	assert.Contains(got, "  dependsOn: [\n    "+a.Resource(sb).Symbol+"\n  ]\n")
}

func TestEmitAggregatesChildOutputs(t *testing.T) {
	assert := assert.New(t)
	a := construct.NewArena()
	root := a.NewResource("sb", "Microsoft.ServiceBus/namespaces", "2021-11-01")
	child := a.NewResource("topic", "Microsoft.ServiceBus/namespaces/topics", "2021-11-01")
	grandchild := a.NewResource("rule", "Microsoft.ServiceBus/namespaces/topics/authorizationRules", "2021-11-01")
	require.NoError(t, a.Resource(child).SetParent(root))
	require.NoError(t, a.Resource(grandchild).SetParent(child))

	require.NoError(t, a.Resource(root).AddOutput("serviceBusEndpoint", construct.Raw(a.Resource(root).Symbol+".properties.serviceBusEndpoint")))
	require.NoError(t, a.Resource(child).AddOutput("topicName", construct.Raw(a.Resource(child).Symbol+".name")))
	require.NoError(t, a.Resource(grandchild).AddOutput("ruleId", construct.ResourceID(grandchild)))

	_, outputs := emitToString(t, a, root)
	var names []string
	for _, o := range outputs {
		names = append(names, o.Name)
	}
	assert.Equal([]string{"serviceBusEndpoint", "topicName", "ruleId"}, names)
}

func TestEmitRejectsOutputCollision(t *testing.T) {
	assert := assert.New(t)
	a := construct.NewArena()
	root := a.NewResource("storage", "Microsoft.Storage/storageAccounts", "2023-01-01")
	child := a.NewResource("blobs", "Microsoft.Storage/storageAccounts/blobServices", "2023-01-01")
	require.NoError(t, a.Resource(child).SetParent(root))
	require.NoError(t, a.Resource(root).AddOutput("endpoint", construct.Raw("a")))
	require.NoError(t, a.Resource(child).AddOutput("endpoint", construct.Raw("b")))

	buf := new(bytes.Buffer)
	_, err := NewEmitter(a, testContext(a)).Emit(buf, root)
	assert.Error(err)
	assert.Contains(err.Error(), `output "endpoint"`)
}

func TestEmitFieldErrorNamesResource(t *testing.T) {
	assert := assert.New(t)
	a := construct.NewArena()
	h := a.NewResource("storage", "Microsoft.Storage/storageAccounts", "2023-01-01")
	r := a.Resource(h)
	r.SetField("name", construct.ExprValue(construct.UniqueName("st", 24)))

	// no ambient seed established
	buf := new(bytes.Buffer)
	_, err := NewEmitter(a, &construct.RenderContext{Arena: a}).Emit(buf, h)
	assert.Error(err)
	assert.Contains(err.Error(), r.Symbol)
	assert.Contains(err.Error(), "field name")
	assert.Contains(err.Error(), "no ambient naming seed established")
}
