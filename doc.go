/*

Package protect verifies the cryptographic chain of custody of platform
entities before any of their data is exposed.

Every entity (whitelisted address, whitelisted contract, transaction request)
travels inside an Envelope: the canonical payload text, its sha256 hash, the
entity level user signatures, and the governance rules container in effect
together with the signatures over it. The Verifier checks the whole chain and
only then hands the payload to a caller supplied decode function. Domain
objects are built from the verified payload alone; structured convenience
fields on transports never reach them.

Subpackages hold the building blocks: rules decodes containers, integrity
implements the threshold and hash checks, whitelist, request and governance
wrap the pipeline for their entity kinds.

*/

package protect
