package gatt

import (
	"errors"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
)

// ErrNoGattManager is the error returned by Run when no object on the
// bus exposes org.bluez.GattManager1.
var ErrNoGattManager = errors.New("gatt: no GattManager1 object found")

// A Server registers a GATT application with BlueZ and drives its event
// loop. Servers are single-shot: once Run has returned, create a new
// Server to register again.
type Server struct {
	conn *dbus.Conn
	app  *Application
	log  logrus.FieldLogger

	advName string
	adv     *Advertisement

	manager dbus.ObjectPath
}

// NewServer creates a Server for app on the given bus connection with
// the specified options.
func NewServer(conn *dbus.Conn, app *Application, opts ...Option) *Server {
	s := &Server{conn: conn, app: app, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run locates the bus object exposing org.bluez.GattManager1, exports
// the tree, registers the application asynchronously and runs the event
// loop until Stop is called or registration is rejected. If no GATT
// manager is found the failure is fatal: it is logged, there is no
// retry, and Run returns at once.
func (s *Server) Run() error {
	manager, err := s.findManager()
	if err != nil {
		s.log.WithError(err).Error("could not locate a GATT manager")
		return s.fail(err)
	}
	s.manager = manager
	s.log.WithField("manager", manager).Debug("found GATT manager")

	if err := s.app.export(s.conn); err != nil {
		s.log.WithError(err).Error("could not export application tree")
		return s.fail(err)
	}

	s.log.Info("registering GATT application")
	ch := make(chan *dbus.Call, 1)
	s.object().Go(ifaceGattManager+".RegisterApplication", 0, ch,
		s.app.Path(), map[string]dbus.Variant{})
	go s.awaitRegistration(ch)

	if s.advName != "" {
		s.advertise()
	}

	return s.app.loop.Run()
}

// Stop unregisters the application (and advertisement, if any) and
// stops the event loop, making Run return nil.
func (s *Server) Stop() {
	s.app.loop.Do(func() {
		if s.adv != nil {
			call := s.object().Call(ifaceAdvManager+".UnregisterAdvertisement", 0, s.adv.Path())
			if call.Err != nil {
				s.log.WithError(call.Err).Warn("could not unregister advertisement")
			}
		}
		if s.manager != "" {
			call := s.object().Call(ifaceGattManager+".UnregisterApplication", 0, s.app.Path())
			if call.Err != nil {
				s.log.WithError(call.Err).Warn("could not unregister application")
			}
		}
		s.app.loop.Stop(nil)
	})
}

// fail routes a startup error through the loop so that armed timers are
// released; the loop exits immediately with err.
func (s *Server) fail(err error) error {
	s.app.loop.Stop(err)
	return s.app.loop.Run()
}

// awaitRegistration forwards the asynchronous RegisterApplication reply
// to the event loop. A rejection terminates the loop; there is no
// partial-success state.
func (s *Server) awaitRegistration(ch chan *dbus.Call) {
	call := <-ch
	s.app.loop.Do(func() {
		if call.Err != nil {
			s.log.WithError(call.Err).Error("failed to register application")
			s.app.loop.Stop(call.Err)
			return
		}
		s.log.Info("GATT application registered")
	})
}

// advertise exports and registers an LE advertisement for the
// application's primary services. Advertising failures are logged but
// not fatal; the GATT tree stays registered either way.
func (s *Server) advertise() {
	var uuids []string
	for _, svc := range s.app.Services() {
		if svc.Primary() {
			uuids = append(uuids, svc.UUID())
		}
	}
	adv := &Advertisement{
		path:         dbus.ObjectPath("/advertisement0"),
		localName:    s.advName,
		serviceUUIDs: uuids,
		loop:         s.app.loop,
		log:          s.log,
	}
	if err := adv.export(s.conn); err != nil {
		s.log.WithError(err).Warn("could not export advertisement")
		return
	}
	ch := make(chan *dbus.Call, 1)
	s.object().Go(ifaceAdvManager+".RegisterAdvertisement", 0, ch,
		adv.Path(), map[string]dbus.Variant{})
	go func() {
		call := <-ch
		s.app.loop.Do(func() {
			if call.Err != nil {
				s.log.WithError(call.Err).Warn("failed to register advertisement")
				return
			}
			s.adv = adv
			s.log.WithField("name", s.advName).Info("advertisement registered")
		})
	}()
}

// findManager scans the objects exposed by org.bluez for one that
// implements org.bluez.GattManager1.
func (s *Server) findManager() (dbus.ObjectPath, error) {
	var objs map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	err := s.conn.Object(bluezBusName, "/").
		Call(ifaceObjectManager+".GetManagedObjects", 0).
		Store(&objs)
	if err != nil {
		return "", err
	}
	p, ok := gattManagerPath(objs)
	if !ok {
		return "", ErrNoGattManager
	}
	return p, nil
}

// gattManagerPath picks the GattManager1-capable object from a managed
// object map, lowest path first so repeated startups bind the same
// adapter.
func gattManagerPath(objs map[dbus.ObjectPath]map[string]map[string]dbus.Variant) (dbus.ObjectPath, bool) {
	var best dbus.ObjectPath
	for p, ifaces := range objs {
		if _, ok := ifaces[ifaceGattManager]; !ok {
			continue
		}
		if best == "" || p < best {
			best = p
		}
	}
	return best, best != ""
}

func (s *Server) object() dbus.BusObject {
	return s.conn.Object(bluezBusName, s.manager)
}
