// Package engineconfig provides layered configuration for the webcam capture
// engine: Viper-backed defaults plus an optional YAML file plus WEBCAM_-prefixed
// environment variables, with an fsnotify-based Watcher that re-loads the
// whole file on change and hands the full Config to its callback; it does
// not filter keys, and the engine does not start a Watcher itself. Resolution
// *selections* themselves are governed by the in-process API, never by
// editing a file underneath the running engine.
package engineconfig
