// Package platform binds the monitor to a target: the AVR chip itself, or a
// simulated device for host builds and tests.
package platform
