package azure

import (
	"testing"

	"github.com/fabrikplatform/fabrik/pkg/construct"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveCtx(a *construct.Arena) *construct.RenderContext {
	return &construct.RenderContext{
		Arena:          a,
		Seed:           "resourceToken",
		TagsVar:        "tags",
		PrincipalParam: "principalId",
	}
}

func TestNewRoleAssignmentRejectsBadGUID(t *testing.T) {
	a := construct.NewArena()
	storage, err := NewStorageAccount(a, "", nil)
	require.NoError(t, err)

	_, err = NewRoleAssignment(a, storage, construct.AmbientPrincipal(), "not-a-guid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid GUID")
}

func TestNewRoleAssignmentRejectsForeignScope(t *testing.T) {
	a := construct.NewArena()
	_, err := NewRoleAssignment(a, construct.Handle(42), construct.AmbientPrincipal(), RoleStorageBlobDataContributor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not part of the arena")
}

func TestNewRoleAssignmentShape(t *testing.T) {
	assert := assert.New(t)
	a := construct.NewArena()
	storage, err := NewStorageAccount(a, "", nil)
	require.NoError(t, err)
	identity, err := NewUserAssignedIdentity(a)
	require.NoError(t, err)

	assignment, err := NewRoleAssignment(a, storage, construct.PrincipalID(identity), RoleStorageBlobDataContributor)
	require.NoError(t, err)

	r := a.Resource(assignment)
	scope, ok := r.Scope()
	assert.True(ok)
	assert.Equal(storage, scope)
	_, hasParent := r.Parent()
	assert.False(hasParent)

	name, ok := r.Field("name")
	require.True(t, ok)
	resolved, err := name.Expr.Resolve(resolveCtx(a))
	require.NoError(t, err)
	assert.Equal(
		"guid("+a.Resource(storage).Symbol+".id, "+a.Resource(identity).Symbol+".properties.principalId, 'ba92f5b4-2d11-453d-a403-e96b0029c9fe')",
		resolved,
	)
}

func TestNewStorageAccountTree(t *testing.T) {
	assert := assert.New(t)
	a := construct.NewArena()
	storage, err := NewStorageAccount(a, "Premium_LRS", []string{"documents", "embeddings"})
	require.NoError(t, err)

	r := a.Resource(storage)
	sku, ok := r.Field("sku")
	require.True(t, ok)
	assert.Equal("Premium_LRS", sku.Fields[0].Value.Scalar)

	children := a.Children(storage)
	require.Len(t, children, 1)
	blobs := a.Resource(children[0])
	assert.Equal("Microsoft.Storage/storageAccounts/blobServices", blobs.TypeID)

	containers := a.Children(children[0])
	require.Len(t, containers, 2)
	first, _ := a.Resource(containers[0]).Field("name")
	second, _ := a.Resource(containers[1]).Field("name")
	assert.Equal("documents", first.Scalar)
	assert.Equal("embeddings", second.Scalar)

	names := make([]string, 0, len(r.Outputs()))
	for _, o := range r.Outputs() {
		names = append(names, o.Name)
	}
	assert.Equal([]string{"azureStorageAccountId", "azureStorageAccountName", "azureBlobStorageEndpoint"}, names)
}

func TestNewServiceBusNamespaceTopics(t *testing.T) {
	a := construct.NewArena()
	ns, err := NewServiceBusNamespace(a, []string{"ingest", "publish"})
	require.NoError(t, err)

	topics := a.Children(ns)
	require.Len(t, topics, 2)
	name, _ := a.Resource(topics[0]).Field("name")
	assert.Equal(t, "ingest", name.Scalar)
}

func TestNewServiceBusSubscription(t *testing.T) {
	a := construct.NewArena()
	ns, err := NewServiceBusNamespace(a, []string{"ingest"})
	require.NoError(t, err)
	topic := a.Children(ns)[0]

	sub, err := NewServiceBusSubscription(a, topic, "worker")
	require.NoError(t, err)
	assert.Equal(t, []construct.Handle{sub}, a.Children(topic))

	// a subscription must hang off a topic, not the namespace
	_, err = NewServiceBusSubscription(a, ns, "worker")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a service bus topic")
}

func TestNewKeyVaultSuppressesAccessPolicies(t *testing.T) {
	a := construct.NewArena()
	vault, err := NewKeyVault(a)
	require.NoError(t, err)

	props, ok := a.Resource(vault).Field("properties")
	require.True(t, ok)
	var policies *construct.Value
	for i := range props.Fields {
		if props.Fields[i].Name == "accessPolicies" {
			policies = &props.Fields[i].Value
		}
	}
	require.NotNil(t, policies)
	assert.Equal(t, construct.KindNeverRender, policies.Kind)
}

func TestNewAppServiceWiresIdentity(t *testing.T) {
	assert := assert.New(t)
	a := construct.NewArena()
	identity, err := NewUserAssignedIdentity(a)
	require.NoError(t, err)

	site, err := NewAppService(a, identity, "")
	require.NoError(t, err)

	sr := a.Resource(site.App)
	assert.Equal([]construct.Handle{identity}, sr.Dependencies())

	idField, ok := sr.Field("identity")
	require.True(t, ok)
	assigned := idField.Fields[1].Value
	require.Len(t, assigned.Pairs, 1)
	assert.Equal("${"+a.Resource(identity).Symbol+".id}", assigned.Pairs[0].Key)
	assert.Equal(construct.KindObject, assigned.Pairs[0].Value.Kind)

	settings := a.Children(site.App)
	require.Len(t, settings, 1)
	assert.Equal(site.Settings, settings[0])
}

func TestNewAppServiceRejectsForeignIdentity(t *testing.T) {
	a := construct.NewArena()
	_, err := NewAppService(a, construct.Handle(9), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not part of the arena")
}

func TestAddAppSettingsMergesInPlace(t *testing.T) {
	assert := assert.New(t)
	a := construct.NewArena()
	identity, err := NewUserAssignedIdentity(a)
	require.NoError(t, err)
	site, err := NewAppService(a, identity, "")
	require.NoError(t, err)

	require.NoError(t, AddAppSettings(a, site.Settings,
		construct.Pair{Key: "FIRST", Value: construct.ScalarValue("1")},
		construct.Pair{Key: "SECOND", Value: construct.ScalarValue("2")},
	))
	require.NoError(t, AddAppSettings(a, site.Settings,
		construct.Pair{Key: "FIRST", Value: construct.ScalarValue("replaced")},
		construct.Pair{Key: "THIRD", Value: construct.ScalarValue("3")},
	))

	props, ok := a.Resource(site.Settings).Field("properties")
	require.True(t, ok)
	keys := make([]string, 0, len(props.Pairs))
	for _, p := range props.Pairs {
		keys = append(keys, p.Key)
	}
	assert.Equal([]string{"FIRST", "SECOND", "THIRD"}, keys)
	assert.Equal("replaced", props.Pairs[0].Value.Scalar)
}
