package gatt

import (
	"github.com/godbus/dbus/v5"
)

// A Service is a GATT service: a UUID, a primary flag and an ordered
// list of characteristics. Calls to AddCharacteristic must occur before
// the service is used by a running server.
type Service struct {
	path    dbus.ObjectPath
	uuid    string
	primary bool
	app     *Application
	chars   []*Characteristic
}

// UUID returns the service's UUID.
func (s *Service) UUID() string {
	return s.uuid
}

// Primary reports whether this is a primary service.
func (s *Service) Primary() bool {
	return s.primary
}

// Path returns the service's object path.
func (s *Service) Path() dbus.ObjectPath {
	return s.path
}

// AddCharacteristic adds a characteristic with the given UUID and
// capability flags to the service and returns it. AddCharacteristic
// panics if the service already contains another characteristic with
// the same UUID.
func (s *Service) AddCharacteristic(uuid string, flags ...string) *Characteristic {
	u := mustNormalize(uuid)
	for _, c := range s.chars {
		if c.uuid == u {
			panic("gatt: service already contains a characteristic with uuid " + u)
		}
	}
	c := &Characteristic{
		path:    dbus.ObjectPath(childPath(s.path, "char", len(s.chars))),
		uuid:    u,
		flags:   flags,
		service: s,
		handler: Unsupported{},
	}
	s.chars = append(s.chars, c)
	return c
}

// Characteristics returns the service's characteristics in the order
// they were added.
func (s *Service) Characteristics() []*Characteristic {
	return s.chars
}

// GetAll implements org.freedesktop.DBus.Properties for the service. A
// query for any interface other than org.bluez.GattService1 fails with
// ErrInvalidArgs.
func (s *Service) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	var props map[string]dbus.Variant
	var err error
	if !s.app.loop.Do(func() {
		if iface != InterfaceGattService {
			err = ErrInvalidArgs
			return
		}
		props = s.properties()
	}) {
		return nil, dbusError(ErrFailed)
	}
	if err != nil {
		return nil, dbusError(err)
	}
	return props, nil
}

func (s *Service) properties() map[string]dbus.Variant {
	paths := make([]dbus.ObjectPath, 0, len(s.chars))
	for _, c := range s.chars {
		paths = append(paths, c.path)
	}
	return map[string]dbus.Variant{
		"UUID":            dbus.MakeVariant(s.uuid),
		"Primary":         dbus.MakeVariant(s.primary),
		"Characteristics": dbus.MakeVariant(paths),
	}
}
