package azure

import (
	"github.com/fabrikplatform/fabrik/pkg/construct"
)

const (
	identityType       = "Microsoft.ManagedIdentity/userAssignedIdentities"
	identityAPIVersion = "2023-01-31"
)

// NewUserAssignedIdentity declares the workload identity every provisioned
// service trusts for data-plane access.
func NewUserAssignedIdentity(a *construct.Arena) (construct.Handle, error) {
	h := a.NewResource("identity", identityType, identityAPIVersion)
	r := a.Resource(h)
	r.SetField("name", construct.ExprValue(construct.UniqueName("id-", 24)))
	r.SetField("location", construct.ExprValue(construct.Raw("location")))
	r.SetField("tags", construct.MapValue())

	if err := r.AddOutput("azureClientId", construct.Raw(r.Symbol+".properties.clientId")); err != nil {
		return construct.InvalidHandle, err
	}
	if err := r.AddOutput("azureIdentityPrincipalId", construct.Raw(r.Symbol+".properties.principalId")); err != nil {
		return construct.InvalidHandle, err
	}
	return h, nil
}
