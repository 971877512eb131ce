// Package harness runs storefront scenarios: YAML files that seed a
// catalog and a stored cart, drive a session through a flow of intents,
// and assert on the resulting trace and final state.
//
// Every scenario runs against fresh in-memory backends and goes through
// the same session loop the HTTP API uses. Traces are deterministic and
// are compared against golden files.
package harness
