// Package domain contains the entities exchanged between the waitlist form
// and the email relay. They are transient: nothing here is ever persisted.
package domain
