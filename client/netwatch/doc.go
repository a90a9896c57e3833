// Package netwatch turns raw connectivity events into the single signal the
// sync ledger cares about: the moment the device comes back online.
package netwatch
