/*
Package rules implements the wire codec and decoder for the platform
governance rules container.

The container is a protobuf encoded document carrying the user directory,
the approval groups and one rule matrix per guarded domain (transactions,
address whitelisting, contract whitelisting). Matrix cells are independently
serialized tagged messages so that new source kinds can ship without breaking
old readers: the decoder drops cells it does not understand and keeps the
rest of the line.

DecodeContainer is the only way to obtain a Container. The outer document
either parses and validates completely or the decode fails, there is no
partial container. DecodeUserSignatures parses the detached signature lists
the platform distributes next to container documents.
*/
package rules
