package azure

import (
	"github.com/fabrikplatform/fabrik/pkg/construct"
	"github.com/pkg/errors"
)

const (
	serviceBusNamespaceType    = "Microsoft.ServiceBus/namespaces"
	serviceBusTopicType        = "Microsoft.ServiceBus/namespaces/topics"
	serviceBusSubscriptionType = "Microsoft.ServiceBus/namespaces/topics/subscriptions"
	serviceBusAPIVersion       = "2021-11-01"
)

// NewServiceBusNamespace declares a messaging namespace with one topic per
// requested name.
func NewServiceBusNamespace(a *construct.Arena, topics []string) (construct.Handle, error) {
	ns := a.NewResource("servicebus", serviceBusNamespaceType, serviceBusAPIVersion)
	r := a.Resource(ns)
	r.SetField("name", construct.ExprValue(construct.UniqueName("sb-", 24)))
	r.SetField("location", construct.ExprValue(construct.Raw("location")))
	r.SetField("sku", construct.ObjectValue(
		construct.Field{Name: "name", Value: construct.ScalarValue("Standard")},
	))
	r.SetField("properties", construct.ObjectValue(
		construct.Field{Name: "disableLocalAuth", Value: construct.ScalarValue(true)},
	))
	r.SetField("tags", construct.MapValue())

	if err := r.AddOutput("azureServiceBusNamespace", construct.Raw(r.Symbol+".name")); err != nil {
		return construct.InvalidHandle, err
	}
	if err := r.AddOutput("azureServiceBusEndpoint", construct.Raw(r.Symbol+".properties.serviceBusEndpoint")); err != nil {
		return construct.InvalidHandle, err
	}

	for _, name := range topics {
		topic := a.NewResource("topic", serviceBusTopicType, serviceBusAPIVersion)
		tr := a.Resource(topic)
		tr.SetField("name", construct.ScalarValue(name))
		tr.SetField("properties", construct.ObjectValue(
			construct.Field{Name: "supportOrdering", Value: construct.ScalarValue(true)},
		))
		if err := tr.SetParent(ns); err != nil {
			return construct.InvalidHandle, err
		}
	}
	return ns, nil
}

// NewServiceBusSubscription declares a named subscription on a topic.
func NewServiceBusSubscription(a *construct.Arena, topic construct.Handle, name string) (construct.Handle, error) {
	tr := a.Resource(topic)
	if tr == nil || tr.TypeID != serviceBusTopicType {
		return construct.InvalidHandle, errors.Errorf("handle %d is not a service bus topic", topic)
	}

	sub := a.NewResource("subscription", serviceBusSubscriptionType, serviceBusAPIVersion)
	sr := a.Resource(sub)
	sr.SetField("name", construct.ScalarValue(name))
	sr.SetField("properties", construct.ObjectValue(
		construct.Field{Name: "maxDeliveryCount", Value: construct.ScalarValue(10)},
		construct.Field{Name: "deadLetteringOnMessageExpiration", Value: construct.ScalarValue(true)},
	))
	if err := sr.SetParent(topic); err != nil {
		return construct.InvalidHandle, err
	}
	return sub, nil
}
