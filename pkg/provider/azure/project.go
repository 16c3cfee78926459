package azure

import (
	"fmt"

	"github.com/fabrikplatform/fabrik/pkg/config"
	"github.com/fabrikplatform/fabrik/pkg/construct"
)

const defaultProjectName = "fabrik"

// Deployment is an assembled resource graph ready for compilation. Site is
// nil when the project declares no host.
type Deployment struct {
	Arena *construct.Arena
	Group *construct.Group
	Site  *Site
}

// BuildProject turns a project definition into a resource graph: one workload
// identity, one resource per configured service, a data-plane role assignment
// granting the identity access to each service, and optionally the app
// service that hosts the workload.
func BuildProject(cfg config.Project) (*Deployment, error) {
	name := cfg.Name
	if name == "" {
		name = defaultProjectName
	}

	arena := construct.NewArena()
	group := construct.NewGroup(fmt.Sprintf("rg-%s-${environmentName}", name))
	d := &Deployment{Arena: arena, Group: group}

	identity, err := NewUserAssignedIdentity(arena)
	if err != nil {
		return nil, err
	}
	group.Add(identity)
	principal := construct.PrincipalID(identity)

	if cfg.Storage != nil {
		storage, err := NewStorageAccount(arena, cfg.Storage.Sku, cfg.Storage.Containers)
		if err != nil {
			return nil, err
		}
		group.Add(storage)
		if err := d.grant(storage, principal, RoleStorageBlobDataContributor); err != nil {
			return nil, err
		}
	}

	if cfg.Messaging != nil {
		bus, err := NewServiceBusNamespace(arena, cfg.Messaging.Topics)
		if err != nil {
			return nil, err
		}
		group.Add(bus)
		if err := d.grant(bus, principal, RoleServiceBusDataOwner); err != nil {
			return nil, err
		}
	}

	if cfg.Events != nil {
		events, err := NewEventGridTopic(arena)
		if err != nil {
			return nil, err
		}
		group.Add(events)
		if err := d.grant(events, principal, RoleEventGridDataSender); err != nil {
			return nil, err
		}
	}

	if cfg.KeyVault != nil {
		vault, err := NewKeyVault(arena)
		if err != nil {
			return nil, err
		}
		group.Add(vault)
		if err := d.grant(vault, principal, RoleKeyVaultSecretsUser); err != nil {
			return nil, err
		}
		// The deploying principal administers the vault so secrets can be
		// seeded right after provisioning.
		if err := d.grant(vault, construct.AmbientPrincipal(), RoleKeyVaultAdministrator); err != nil {
			return nil, err
		}
	}

	if cfg.Search != nil {
		search, err := NewSearchService(arena, cfg.Search.Sku)
		if err != nil {
			return nil, err
		}
		group.Add(search)
		if err := d.grant(search, principal, RoleSearchIndexDataContributor); err != nil {
			return nil, err
		}
	}

	if cfg.Host != nil {
		site, err := NewAppService(arena, identity, cfg.Host.Runtime)
		if err != nil {
			return nil, err
		}
		group.Add(site.Plan)
		group.Add(site.App)
		if err := AddAppSettings(arena, site.Settings, construct.Pair{
			Key:   "AZURE_CLIENT_ID",
			Value: construct.ExprValue(construct.Raw(arena.Resource(identity).Symbol + ".properties.clientId")),
		}); err != nil {
			return nil, err
		}
		d.Site = &site
	}

	return d, nil
}

func (d *Deployment) grant(scope construct.Handle, principal construct.Expression, role string) error {
	assignment, err := NewRoleAssignment(d.Arena, scope, principal, role)
	if err != nil {
		return err
	}
	d.Group.Add(assignment)
	return nil
}
