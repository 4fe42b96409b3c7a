// Package apicommon provides common types, constants, and helper functions for the API.
package apicommon

// MetadataKey is a type to define the key for the metadata stored in the
// context.
type MetadataKey string

// UserMetadataKey is the key used to store the user in the context.
const UserMetadataKey MetadataKey = "user"

const (
	// MaxWebhookBodySize limits webhook payloads to protect the signature
	// verification path from oversized bodies
	MaxWebhookBodySize = 64 * 1024
	// MaxPaymentsPageSize is the maximum number of payments returned by the
	// payment history endpoint
	MaxPaymentsPageSize = 100
)
