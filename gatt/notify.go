package gatt

import "github.com/sirupsen/logrus"

// NotifyState is the per-characteristic notification switch. It has two
// states, off and on, and starts off. Transitions happen only through
// Start and Stop; calling either in a state it cannot leave is
// idempotent, with a logged warning as the only observable effect.
//
// Handlers for characteristics that advertise the notify flag hold a
// NotifyState and route their StartNotify/StopNotify operations to it.
type NotifyState struct {
	// Log is the logger used for idempotent-transition warnings.
	// If nil, the logrus standard logger is used.
	Log logrus.FieldLogger

	on bool
}

// Start turns notifications on.
func (s *NotifyState) Start() error {
	if s.on {
		s.logger().Warn("already notifying, nothing to do")
		return nil
	}
	s.on = true
	return nil
}

// Stop turns notifications off.
func (s *NotifyState) Stop() error {
	if !s.on {
		s.logger().Warn("not notifying, nothing to do")
		return nil
	}
	s.on = false
	return nil
}

// Notifying reports whether notifications are on.
func (s *NotifyState) Notifying() bool {
	return s.on
}

func (s *NotifyState) logger() logrus.FieldLogger {
	if s.Log != nil {
		return s.Log
	}
	return logrus.StandardLogger()
}
