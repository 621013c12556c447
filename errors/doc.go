/*
Package errors implements the coded error space used across the SDK.

The idea is to reuse as many errors from this package as possible and define
custom package errors only when absolutely necessary. Every root error carries
a numeric code so callers can distinguish error classes without string
matching: decode failures (ErrDecode), integrity violations (ErrIntegrity)
and bad caller input (ErrInput) each have their own root.

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New and Errxxx.Newf, or wrap the root with
additional context: errors.Wrap(err, "fetching rules").

There is also support for stacktraces. Please ensure you create the error
using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of creation
to ensure we attach a stacktrace. If you wrap multiple times, we only record
the first wrap with the stacktrace. (And don't do this as a global
`var ErrFoo = errors.ErrInput.New("foo")` or you will get a useless
stacktrace).

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
