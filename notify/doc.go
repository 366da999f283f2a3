// Package notify delivers user notices as desktop notifications.
package notify
