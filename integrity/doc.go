/*
Package integrity implements the cryptographic controls every verified
entity passes through: the M-of-N signature threshold check and the payload
hash check.

Both checks fail loud. The only accepted way to run without signature
verification is an explicit threshold of zero in the Config; an empty
trusted key set combined with a positive threshold is an integrity failure,
not a pass.
*/
package integrity
