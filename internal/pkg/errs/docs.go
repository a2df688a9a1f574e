// Package errs provides standardized error types for the fulfillment service.
//
// Two families live here:
//   - Value errors shared by constructors and repositories: ValueIsRequiredError,
//     ValueIsInvalidError, ValueIsOutOfRangeError and ObjectNotFoundError.
//   - The workflow taxonomy: invalid transitions, validation code failures, driver
//     availability, balance checks, settlement duplicates, optimistic lock conflicts
//     and actor permission failures.
//
// Every typed error unwraps to a package-level sentinel, so callers classify with
// errors.Is and extract details with errors.As. The HTTP adapter maps sentinels to
// status codes; nothing else in the service inspects error strings.
package errs
