package errors

import goerrors "errors"

// Forwards to the standard library so callers import a single errors package.
var (
	Unwrap = goerrors.Unwrap
	Is     = goerrors.Is
	As     = goerrors.As
	Join   = goerrors.Join
)
