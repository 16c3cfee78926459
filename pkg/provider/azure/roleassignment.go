package azure

import (
	"github.com/fabrikplatform/fabrik/pkg/construct"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	roleAssignmentType       = "Microsoft.Authorization/roleAssignments"
	roleAssignmentAPIVersion = "2022-04-01"
	roleDefinitionType       = "Microsoft.Authorization/roleDefinitions"
)

// NewRoleAssignment grants principal a built-in role on the resource named by
// scope. The assignment name is a deterministic GUID over (scope, principal,
// role definition), so re-deploying the same grant updates it in place
// instead of duplicating it.
func NewRoleAssignment(a *construct.Arena, scope construct.Handle, principal construct.Expression, roleDefinitionID string) (construct.Handle, error) {
	if _, err := uuid.Parse(roleDefinitionID); err != nil {
		return construct.InvalidHandle, errors.Wrapf(err, "role definition id %q is not a valid GUID", roleDefinitionID)
	}
	if a.Resource(scope) == nil {
		return construct.InvalidHandle, errors.Errorf("role assignment scope handle %d is not part of the arena", scope)
	}

	h := a.NewResource("roleAssignment", roleAssignmentType, roleAssignmentAPIVersion)
	r := a.Resource(h)
	if err := r.SetScope(scope); err != nil {
		return construct.InvalidHandle, err
	}
	r.SetField("name", construct.ExprValue(construct.GUIDName(
		construct.ResourceID(scope),
		principal,
		construct.Str(roleDefinitionID),
	)))
	r.SetField("properties", construct.ObjectValue(
		construct.Field{Name: "principalId", Value: construct.ExprValue(principal)},
		construct.Field{Name: "principalType", Value: construct.ScalarValue("ServicePrincipal")},
		construct.Field{Name: "roleDefinitionId", Value: construct.ExprValue(
			construct.SubscriptionResourceID(roleDefinitionType, roleDefinitionID),
		)},
	))
	return h, nil
}
