// Package owner provides the custom owner registry.
//
// Custom owners are local aliases that may hold reservations without being
// Slack users, such as CI bots or shared team handles. Names and recipients
// are stored lowercased. A custom owner cannot be renamed or deleted while
// any device is reserved under its name; those guards run in the same
// transaction as the write.
package owner
