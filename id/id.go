// Package id derives the stable identifiers used to address delivery
// service entities.
//
// Every identifier is a version-5 UUID computed over the DNS namespace, so
// the same name always maps to the same identifier no matter which process
// derived it. This is what makes endpoint creation idempotent and lets two
// deployments share one delivery service without coordination.
package id

import "github.com/google/uuid"

// Derive returns the version-5 UUID of name over the DNS namespace.
func Derive(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(name)).String()
}

// AppUID returns the identifier of the application (container) backing an
// event type. One application is allocated per event type and groups all
// endpoints subscribed to it.
func AppUID(eventTypeName string) string {
	return Derive(eventTypeName)
}

// EndpointUID returns the identifier of an endpoint, derived from the
// (event type, url, channel) triple. Creating the same endpoint twice
// yields the same uid while varying the channel yields a distinct one.
// An endpoint without a channel contributes an empty channel segment.
func EndpointUID(eventTypeName, url, channel string) string {
	return Derive(eventTypeName + "-" + url + "-" + channel)
}

// ChannelToken maps an arbitrary channel name to a transport-safe
// identifier. The delivery service restricts channel charset and length;
// the original name is kept in endpoint metadata keyed by this token.
func ChannelToken(channel string) string {
	return Derive(channel)
}
