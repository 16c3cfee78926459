package azure

import (
	"fmt"

	"github.com/fabrikplatform/fabrik/pkg/construct"
	"github.com/pkg/errors"
)

const (
	serverFarmType       = "Microsoft.Web/serverfarms"
	siteType             = "Microsoft.Web/sites"
	siteConfigType       = "Microsoft.Web/sites/config"
	appServiceAPIVersion = "2024-04-01"
	defaultSiteRuntime   = "PYTHON|3.12"
	appSettingsFieldName = "properties"
)

// Site bundles the handles of a hosted web app: the plan it runs on, the app
// itself, and the appsettings config child that receives connection settings.
type Site struct {
	Plan     construct.Handle
	App      construct.Handle
	Settings construct.Handle
}

// NewAppService declares a Linux app service plan, a web app bound to the
// workload identity, and an empty appsettings child. Settings accumulate on
// the child via AddAppSettings so every service the app talks to can
// contribute its connection values before rendering.
func NewAppService(a *construct.Arena, identity construct.Handle, runtime string) (Site, error) {
	if runtime == "" {
		runtime = defaultSiteRuntime
	}
	idr := a.Resource(identity)
	if idr == nil {
		return Site{}, errors.Errorf("app service identity handle %d is not part of the arena", identity)
	}

	plan := a.NewResource("plan", serverFarmType, appServiceAPIVersion)
	pr := a.Resource(plan)
	pr.SetField("name", construct.ExprValue(construct.UniqueName("plan-", 24)))
	pr.SetField("location", construct.ExprValue(construct.Raw("location")))
	pr.SetField("kind", construct.ScalarValue("linux"))
	pr.SetField("sku", construct.ObjectValue(
		construct.Field{Name: "name", Value: construct.ScalarValue("B1")},
	))
	pr.SetField("properties", construct.ObjectValue(
		construct.Field{Name: "reserved", Value: construct.ScalarValue(true)},
	))
	pr.SetField("tags", construct.MapValue())

	app := a.NewResource("site", siteType, appServiceAPIVersion)
	sr := a.Resource(app)
	sr.SetField("name", construct.ExprValue(construct.UniqueName("app-", 32)))
	sr.SetField("location", construct.ExprValue(construct.Raw("location")))
	sr.SetField("kind", construct.ScalarValue("app,linux"))
	sr.SetField("identity", construct.ObjectValue(
		construct.Field{Name: "type", Value: construct.ScalarValue("UserAssigned")},
		construct.Field{Name: "userAssignedIdentities", Value: construct.MapValue(
			construct.Pair{
				Key:   fmt.Sprintf("${%s.id}", idr.Symbol),
				Value: construct.ObjectValue(),
			},
		)},
	))
	sr.SetField("properties", construct.ObjectValue(
		construct.Field{Name: "serverFarmId", Value: construct.RefValue(plan)},
		construct.Field{Name: "httpsOnly", Value: construct.ScalarValue(true)},
		construct.Field{Name: "siteConfig", Value: construct.ObjectValue(
			construct.Field{Name: "linuxFxVersion", Value: construct.ScalarValue(runtime)},
			construct.Field{Name: "ftpsState", Value: construct.ScalarValue("Disabled")},
			construct.Field{Name: "minTlsVersion", Value: construct.ScalarValue("1.2")},
		)},
	))
	sr.SetField("tags", construct.MapValue())
	sr.AddDependency(identity)

	if err := sr.AddOutput("azureSiteEndpoint", construct.Raw(
		fmt.Sprintf("'https://${%s.properties.defaultHostName}'", sr.Symbol),
	)); err != nil {
		return Site{}, err
	}

	settings := a.NewResource("appsettings", siteConfigType, appServiceAPIVersion)
	cr := a.Resource(settings)
	cr.SetField("name", construct.ScalarValue("appsettings"))
	cr.SetField(appSettingsFieldName, construct.MapValue())
	if err := cr.SetParent(app); err != nil {
		return Site{}, err
	}

	return Site{Plan: plan, App: app, Settings: settings}, nil
}

// AddAppSettings merges pairs into the appsettings child. A pair whose key is
// already present replaces the previous value in place, so setting order is
// the first-write order.
func AddAppSettings(a *construct.Arena, settings construct.Handle, pairs ...construct.Pair) error {
	r := a.Resource(settings)
	if r == nil {
		return errors.Errorf("appsettings handle %d is not part of the arena", settings)
	}
	current, ok := r.Field(appSettingsFieldName)
	if !ok || current.Kind != construct.KindMap {
		return errors.Errorf("resource %s has no appsettings map to merge into", r.Symbol)
	}

	merged := current.Pairs
next:
	for _, p := range pairs {
		for i := range merged {
			if merged[i].Key == p.Key {
				merged[i].Value = p.Value
				continue next
			}
		}
		merged = append(merged, p)
	}
	r.SetField(appSettingsFieldName, construct.MapValue(merged...))
	return nil
}
