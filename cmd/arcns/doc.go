/*
Arcns registers and resolves names in the .arc name registry.

Names are completed with the ".arc" suffix when it is missing, so "sercan" and
"sercan.arc" are the same name.

Usage:

	arcns [global options] resolve <name>
	arcns [global options] register [wallet options] <name>
	arcns [global options] serve [server options] [wallet options]

The registry contract and RPC endpoint come from --contract and --rpc-addr, or
from ARC_CONTRACT_ADDRESS and ARC_RPC.

Registration needs a wallet, picked in this order:

	--private-key (or ARC_PRIVATE_KEY)   raw hex key
	--private-key-file                   file holding a raw hex key
	--keystore [--password-file]         encrypted keystore, password prompted when no file is given
	--clef-url [--account]               external Clef signer, which asks its operator to approve

Examples:

	$ arcns resolve sercan
	sercan.arc address: Not registered

	$ arcns register --keystore ./key.json sercan
	Keystore password:
	sercan.arc has been successfully registered!
*/
package main
