// SPDX-License-Identifier: Apache-2.0

// Package validators enforces the relay's input rules before a request ever
// reaches the service layer: fixed-width hex fields, the standardized
// donation denominations, base58 address and signature shapes.
//
// Validation is decoupled from transport and storage through the generic
// [Validator] interface, with optional field-level scoping for targeted
// checks.
package validators

import "context"

// Validator validates arbitrary input values. Implementations may perform
// structural validation, semantic checks, cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally restricts
	// validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
