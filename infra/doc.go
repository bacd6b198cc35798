// Package infra contains technical adapters: the GraphQL backend client, the
// MQTT publisher, metrics exporters, the submission journal and error
// monitoring. These packages depend only on the interfaces defined in the
// core packages.
package infra
