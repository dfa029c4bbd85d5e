// Package stepupsdk holds the wire types and error vocabulary of the step-up
// verification service, shared between the server handlers and Go clients.
package stepupsdk
