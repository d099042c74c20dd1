// Package logging provides a small leveled logger on top of the standard
// log package.
//
// Levels are DEBUG, INFO, WARN and ERROR, plus FATAL which exits. The initial
// level comes from the environment: DEBUG=true forces debug, otherwise
// GALLERY_LOG_LEVEL or LOG_LEVEL is used, defaulting to info. SetLevel lets
// the configuration layer override it at startup.
package logging
