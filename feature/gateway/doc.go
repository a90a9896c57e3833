// Package gateway exposes the application over a single GraphQL endpoint.
//
// The schema is a thin dispatch layer: every resolver delegates to a feature
// service and tags failures with their stable error code in the GraphQL error
// extensions. The verified identity from the auth middleware is mirrored into
// the user store once per request and carried to resolvers on the context.
package gateway
