// Package validation validates settings and control-server input.
//
// Struct tag validation backs the persisted settings:
//
//	type Settings struct {
//	    BackendURL string `json:"backendUrl" validate:"required,url"`
//	}
//	err := validation.Validate(settings)
//
// The fluent Validator covers ad-hoc request checks:
//
//	v := validation.New()
//	v.Required("id", id).Pattern("id", id, commandIDPattern)
//	if err := v.Validate(); err != nil { ... }
package validation
