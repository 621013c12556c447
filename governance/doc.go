/*
Package governance serves the platform's rule containers: the current one,
the proposed one awaiting activation and the version history. A container is
decoded only after enough trusted platform keys signed its exact bytes, so
callers always inspect authenticated governance state.
*/
package governance
