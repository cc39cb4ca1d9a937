// Package errs provides the error types shared by the meal-order domain,
// its use cases and its adapters.
//
// Every error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrConcurrentUpdate) used for classification
//   - a struct type carrying the details of the failure
//   - constructor functions with and without cause
//   - an Error() method for formatting and an Unwrap() method returning the sentinel
//
// Callers classify errors with errors.Is against the sentinels or with the
// Is* helpers. The HTTP adapter maps the classes to status codes:
// not found to 404, concurrent update and already exists to 409,
// invalid state and validation failures to 400.
package errs
