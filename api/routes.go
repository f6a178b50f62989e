package api

const (
	// PingEndpoint is the endpoint for checking the API status.
	PingEndpoint = "/ping"
	// InitializeEndpoint bootstraps the tally state, owned by the caller.
	InitializeEndpoint = "/tally/initialize"
	// ConfigEndpoint returns the public tally configuration.
	ConfigEndpoint = "/tally/config"
	// CooldownEndpoint updates the provider cooldown.
	CooldownEndpoint = "/tally/cooldown"
	// PauseEndpoint and UnpauseEndpoint flip the pause flag.
	PauseEndpoint   = "/tally/pause"
	UnpauseEndpoint = "/tally/unpause"
	// ProvidersEndpoint adds a provider; ProviderEndpoint removes or
	// inspects one.
	ProvidersEndpoint  = "/tally/providers"
	ProviderURLParam   = "address"
	ProviderEndpoint   = "/tally/providers/{" + ProviderURLParam + "}"
	// BatchesEndpoint opens a batch; BatchEndpoint returns its state.
	BatchesEndpoint = "/tally/batches"
	BatchURLParam   = "batchId"
	BatchEndpoint   = "/tally/batches/{" + BatchURLParam + "}"
	// BatchCloseEndpoint closes a batch permanently.
	BatchCloseEndpoint = "/tally/batches/{" + BatchURLParam + "}/close"
	// EntriesEndpoint commits an encrypted entry to a batch.
	EntriesEndpoint = "/tally/batches/{" + BatchURLParam + "}/entries"
	// DecryptEndpoint requests the decryption of a batch aggregate.
	DecryptEndpoint = "/tally/batches/{" + BatchURLParam + "}/decrypt"
	// CallbackEndpoint receives the oracle decryption results.
	CallbackEndpoint = "/tally/callback"
	// RequestsEndpoint returns the state of a decryption request.
	RequestURLParam  = "requestId"
	RequestsEndpoint = "/tally/requests/{" + RequestURLParam + "}"
)
