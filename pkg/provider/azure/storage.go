package azure

import (
	"github.com/fabrikplatform/fabrik/pkg/construct"
)

const (
	storageAccountType    = "Microsoft.Storage/storageAccounts"
	storageAPIVersion     = "2023-01-01"
	blobServiceType       = "Microsoft.Storage/storageAccounts/blobServices"
	blobContainerType     = "Microsoft.Storage/storageAccounts/blobServices/containers"
	defaultStorageSku     = "Standard_LRS"
	storageAccountNameMax = 24
)

// NewStorageAccount declares a blob-capable storage account along with its
// default blob service and one container per requested name. Container
// resources hang off the blob service so the emitter renders them inline and
// the deployment orders them after the account.
func NewStorageAccount(a *construct.Arena, sku string, containers []string) (construct.Handle, error) {
	if sku == "" {
		sku = defaultStorageSku
	}

	account := a.NewResource("storage", storageAccountType, storageAPIVersion)
	r := a.Resource(account)
	// Storage account names forbid separators, hence the bare prefix.
	r.SetField("name", construct.ExprValue(construct.UniqueName("st", storageAccountNameMax)))
	r.SetField("location", construct.ExprValue(construct.Raw("location")))
	r.SetField("kind", construct.ScalarValue("StorageV2"))
	r.SetField("sku", construct.ObjectValue(
		construct.Field{Name: "name", Value: construct.ScalarValue(sku)},
	))
	r.SetField("properties", construct.ObjectValue(
		construct.Field{Name: "accessTier", Value: construct.ScalarValue("Hot")},
		construct.Field{Name: "allowBlobPublicAccess", Value: construct.ScalarValue(false)},
		construct.Field{Name: "allowSharedKeyAccess", Value: construct.ScalarValue(false)},
		construct.Field{Name: "minimumTlsVersion", Value: construct.ScalarValue("TLS1_2")},
	))
	r.SetField("tags", construct.MapValue())

	if err := r.AddOutput("azureStorageAccountId", construct.ResourceID(account)); err != nil {
		return construct.InvalidHandle, err
	}
	if err := r.AddOutput("azureStorageAccountName", construct.Raw(r.Symbol+".name")); err != nil {
		return construct.InvalidHandle, err
	}
	if err := r.AddOutput("azureBlobStorageEndpoint", construct.Raw(r.Symbol+".properties.primaryEndpoints.blob")); err != nil {
		return construct.InvalidHandle, err
	}

	blobs := a.NewResource("blobs", blobServiceType, storageAPIVersion)
	br := a.Resource(blobs)
	br.SetField("name", construct.ScalarValue("default"))
	if err := br.SetParent(account); err != nil {
		return construct.InvalidHandle, err
	}

	for _, name := range containers {
		container := a.NewResource("container", blobContainerType, storageAPIVersion)
		cr := a.Resource(container)
		cr.SetField("name", construct.ScalarValue(name))
		cr.SetField("properties", construct.ObjectValue(
			construct.Field{Name: "publicAccess", Value: construct.ScalarValue("None")},
		))
		if err := cr.SetParent(blobs); err != nil {
			return construct.InvalidHandle, err
		}
	}
	return account, nil
}
