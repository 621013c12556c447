/*
Package whitelist serves whitelisted withdrawal addresses and smart
contracts. Every entry travels inside a signed envelope; an entry is
released to the caller only after the full chain of custody verified, and
always rebuilt from the verified payload. Display fields the platform
repeats next to the envelope are treated as untrusted decoration.
*/
package whitelist
