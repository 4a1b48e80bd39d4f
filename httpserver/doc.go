/*
Package httpserver exposes the name service over HTTP.

Each operation kind is a panel backed by its own controller.Controller, so a
registration waiting for inclusion never delays a lookup, and a second
registration sent while one is pending is refused with 409 Conflict.

# Endpoints

	POST /api/register/{name}   register name, blocking until mined
	GET  /api/resolve/{name}    resolve name to its owner
	GET  /api/state/{panel}     snapshot of the register or resolve panel
	GET  /livez, /readyz        health checks
	GET  /drain, /undrain       readiness toggles for load balancers

Both operations accept ?async=true, in which case they return 202 with the
panel state and the outcome is read from /api/state/{panel}.

Names are canonicalized the same way as on the command line: "sercan" and
"sercan.arc" refer to the same entry.

# Responses

Settled operations are returned as OutcomeResponse. Failed operations carry
the underlying message in "error"; the status code tells failure classes apart:

	400  blank name
	503  no wallet configured for registration
	502  ledger, RPC or signer failure
*/
package httpserver
