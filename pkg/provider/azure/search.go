package azure

import (
	"fmt"

	"github.com/fabrikplatform/fabrik/pkg/construct"
)

const (
	searchServiceType       = "Microsoft.Search/searchServices"
	searchServiceAPIVersion = "2023-11-01"
	defaultSearchSku        = "basic"
)

// NewSearchService declares a search service. The data-plane endpoint is not
// exposed as a resource property, so the output reconstructs it from the
// service name.
func NewSearchService(a *construct.Arena, sku string) (construct.Handle, error) {
	if sku == "" {
		sku = defaultSearchSku
	}

	h := a.NewResource("search", searchServiceType, searchServiceAPIVersion)
	r := a.Resource(h)
	r.SetField("name", construct.ExprValue(construct.UniqueName("srch-", 24)))
	r.SetField("location", construct.ExprValue(construct.Raw("location")))
	r.SetField("sku", construct.ObjectValue(
		construct.Field{Name: "name", Value: construct.ScalarValue(sku)},
	))
	r.SetField("properties", construct.ObjectValue(
		construct.Field{Name: "disableLocalAuth", Value: construct.ScalarValue(true)},
		construct.Field{Name: "authOptions", Value: construct.NeverRender()},
	))
	r.SetField("tags", construct.MapValue())

	endpoint := fmt.Sprintf("'https://${%s.name}.search.windows.net'", r.Symbol)
	if err := r.AddOutput("azureSearchEndpoint", construct.Raw(endpoint)); err != nil {
		return construct.InvalidHandle, err
	}
	return h, nil
}
