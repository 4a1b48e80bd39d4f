// Package registry provides an interface to interact with the on-chain ARC
// name registry contract.
//
// The registry contract exposes two methods:
//
//	function register(string name) public
//	function resolve(string name) public view returns (address)
//
// OnchainNameRegistryClient implements interfaces.NameRegistry on top of the
// generated binding in bindings/arcns. RegistryFactory hands out clients bound
// to the configured contract address, read-only or with a signer attached.
//
// # Transaction Operations
//
// Register requires transaction options. Call SetTransactOpts with a signer
// obtained from a wallet before registering; read-only clients return
// ErrNoTransactOpts. Register only sends the transaction, WaitMined blocks
// until it is included and returns the receipt without checking its status.
//
// Resolve does not require transaction options. Unregistered names resolve
// to the zero address.
//
// # Testing Helpers
//
// MockRegistry and MockRegistryFactory are testify mocks. MockRegistryClient
// is an in-memory registry that also acts as a RegistryFactory. MockBackend
// is an in-process ledger executing the registry ABI so the binding and real
// signers can be exercised end to end.
//
// # Usage Example
//
//	client, err := registry.NewOnchainNameRegistryClient(ethClient, ethClient, contractAddress)
//	if err != nil {
//	    log.Fatalf("Failed to create registry client: %v", err)
//	}
//
//	owner, err := client.Resolve(ctx, "sercan.arc")
//
//	client.SetTransactOpts(auth)
//	tx, err := client.Register(ctx, "sercan.arc")
//	receipt, err := client.WaitMined(ctx, tx)
package registry
