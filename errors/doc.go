/*
Package errors implements custom error interfaces for the vault.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. An extension that needs its
own error kind (x/timelock declares the confirmation and time-lock errors)
registers it with Register(code, description). Codes must be unique and a
duplicate registration panics during the program start.

There is also support for stacktraces. Please ensure you create the custom error using
errors.Wrap(ErrXyz, "...") at the point of creation to ensure we attach
a stacktrace. If you wrap multiple times, we only record the first wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context for the error
	%s is just the error message
	%+v is the full stack trace
*/
package errors
