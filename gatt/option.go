package gatt

import "github.com/sirupsen/logrus"

// An Option configures a Server.
// See http://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis for more discussion.
type Option func(*Server)

// WithLogger makes the server log through l instead of the logrus
// standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) { s.log = l }
}

// WithAdvertising makes the server register an LE advertisement for the
// application's primary services under the given local name.
func WithAdvertising(localName string) Option {
	return func(s *Server) { s.advName = localName }
}
