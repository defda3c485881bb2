// Package validation validates inkflow settings.
//
// Struct tags cover per-field rules through go-playground/validator. The
// chained Validator covers rules that need outside knowledge, such as whether
// a provider id exists in the registry:
//
//	if err := validation.Validate(settings); err != nil { ... }
//
//	v := validation.New().OneOf("provider", id, ids).OptionalURL("endpoint", ep)
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
