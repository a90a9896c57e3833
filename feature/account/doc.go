// Package account maintains library member records.
//
// Identities arrive already verified from the external identity provider;
// this package only mirrors them into the relational store (Ensure) and
// serves the caller's own record (Me). The context helpers carry the
// resolved record from the transport layer to the resolvers.
package account
