package azure

import (
	"github.com/fabrikplatform/fabrik/pkg/construct"
)

const (
	keyVaultType       = "Microsoft.KeyVault/vaults"
	keyVaultAPIVersion = "2023-02-01"
)

// NewKeyVault declares an RBAC-mode vault. Access policies are never
// rendered; grants come from role assignments instead.
func NewKeyVault(a *construct.Arena) (construct.Handle, error) {
	h := a.NewResource("keyvault", keyVaultType, keyVaultAPIVersion)
	r := a.Resource(h)
	r.SetField("name", construct.ExprValue(construct.UniqueName("kv-", 24)))
	r.SetField("location", construct.ExprValue(construct.Raw("location")))
	r.SetField("properties", construct.ObjectValue(
		construct.Field{Name: "tenantId", Value: construct.ExprValue(construct.Raw("subscription().tenantId"))},
		construct.Field{Name: "sku", Value: construct.ObjectValue(
			construct.Field{Name: "family", Value: construct.ScalarValue("A")},
			construct.Field{Name: "name", Value: construct.ScalarValue("standard")},
		)},
		construct.Field{Name: "enableRbacAuthorization", Value: construct.ScalarValue(true)},
		construct.Field{Name: "accessPolicies", Value: construct.NeverRender()},
	))
	r.SetField("tags", construct.MapValue())

	if err := r.AddOutput("azureKeyVaultEndpoint", construct.Raw(r.Symbol+".properties.vaultUri")); err != nil {
		return construct.InvalidHandle, err
	}
	return h, nil
}
