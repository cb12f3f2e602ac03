// Package errors provides the classified error primitives used across themebridge.
//
// Every failure that crosses a package boundary is a ClassifiedError carrying a
// category (what kind of input or subsystem failed), a severity and structured
// context. Adapters turn classified errors into CLI exit codes or HTTP payloads.
//
// Example usage:
//
//	err := errors.NavigationError("list item has no anchor").
//		WithContext("position", "2.1").
//		Build()
//
// Nothing in themebridge retries: translation is a pure function of its inputs, so a
// failed page is reported, never re-attempted.
package errors
