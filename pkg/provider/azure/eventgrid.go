package azure

import (
	"github.com/fabrikplatform/fabrik/pkg/construct"
)

const (
	eventGridTopicType       = "Microsoft.EventGrid/topics"
	eventGridTopicAPIVersion = "2022-06-15"
)

// NewEventGridTopic declares a custom event topic with local auth disabled,
// so publishers must come through the workload identity.
func NewEventGridTopic(a *construct.Arena) (construct.Handle, error) {
	h := a.NewResource("events", eventGridTopicType, eventGridTopicAPIVersion)
	r := a.Resource(h)
	r.SetField("name", construct.ExprValue(construct.UniqueName("evgt-", 24)))
	r.SetField("location", construct.ExprValue(construct.Raw("location")))
	r.SetField("properties", construct.ObjectValue(
		construct.Field{Name: "disableLocalAuth", Value: construct.ScalarValue(true)},
		construct.Field{Name: "publicNetworkAccess", Value: construct.ScalarValue("Enabled")},
	))
	r.SetField("tags", construct.MapValue())

	if err := r.AddOutput("azureEventGridTopicEndpoint", construct.Raw(r.Symbol+".properties.endpoint")); err != nil {
		return construct.InvalidHandle, err
	}
	return h, nil
}
