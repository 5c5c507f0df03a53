// Package fluxerr collects the error variants a Fluxion codec can
// fail with. Each variant is a sentinel [error] value; variants that
// carry data (a bad version byte, a mismatched type, ...) are produced
// by a constructor function that wraps the sentinel with
// [fmt.Errorf]'s %w verb, so callers discriminate failures with
// [errors.Is] regardless of which variant fired.
//
// Every error from this package is fatal to the operation in progress:
// a decode that fails never hands back a partially built tree, and a
// write that fails never hands back a partially written stream that
// the caller should trust.
package fluxerr
