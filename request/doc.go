/*
Package request serves transaction requests awaiting approval and submits
signed approval decisions. Requests travel inside signed envelopes and are
released only after verification; an approval signature always covers the
verified platform hashes, never content the approver did not check.
*/
package request
