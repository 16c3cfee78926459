package azure

// Built-in role definition ids. These are fixed, well-known GUIDs defined by
// the platform; assignments reference them through a subscription-scoped
// lookup so the generated template never hardcodes a full resource id.
const (
	RoleStorageBlobDataContributor  = "ba92f5b4-2d11-453d-a403-e96b0029c9fe"
	RoleStorageBlobDataReader       = "2a2b9908-6ea1-4ae2-8e65-a410df84e7d1"
	RoleStorageQueueDataContributor = "974c5e8b-45b9-4653-ba55-5f855dd0fb88"
	RoleStorageTableDataContributor = "0a9a7e1f-b9d0-4cc4-a60d-0319b160aaa3"
	RoleServiceBusDataOwner         = "090c5cfd-751d-490a-894a-3ce6f1109419"
	RoleServiceBusDataSender        = "69a216fc-b8fb-44d8-bc22-1f3c2cd27a39"
	RoleServiceBusDataReceiver      = "4f6d3b9b-027b-4f4c-9142-0e5a2a2247e0"
	RoleEventGridDataSender         = "d5a91429-5739-47e2-a06b-3470a27159e7"
	RoleKeyVaultAdministrator       = "00482a5a-887f-4fb3-b363-3b7fe8e74483"
	RoleKeyVaultSecretsUser         = "4633458b-17de-408a-b874-0445c86b69e6"
	RoleSearchIndexDataContributor  = "8ebe5a00-799e-43f5-93ac-243d3dce84a7"
	RoleSearchServiceContributor    = "7ca78c08-252a-4471-8644-bb5ff32d4ba0"
)
