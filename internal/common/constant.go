// Package common contains constants and sentinel errors shared by the budget
// client, server and asset proxy.
package common

// AuthorizationHeaderName carries "Bearer <token>" on API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// OfflineQueueKey is the durable key holding the pending action list.
const OfflineQueueKey = "budget-offline-queue"

// AccessTokenKey is the metadata key of a bearer token saved with
// "budget auth token".
const AccessTokenKey = "access-token"
