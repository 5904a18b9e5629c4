package gatt

import (
	"strconv"

	"github.com/godbus/dbus/v5"
)

// An Application is the root of a GATT object tree. It owns an ordered
// list of services and the event loop that serializes all activity on
// the tree. The tree shape is fixed once a server starts running; only
// per-characteristic notify state changes afterwards.
type Application struct {
	path     dbus.ObjectPath
	loop     *Loop
	services []*Service
}

// NewApplication creates an empty application rooted at the object
// path "/".
func NewApplication() *Application {
	return &Application{
		path: dbus.ObjectPath("/"),
		loop: NewLoop(),
	}
}

// Path returns the application's root object path. Paths are assigned at
// construction and never reused or reassigned.
func (a *Application) Path() dbus.ObjectPath {
	return a.path
}

// Loop returns the event loop driving the tree.
func (a *Application) Loop() *Loop {
	return a.loop
}

// AddService adds a service to the application and returns it. The
// service's object path is derived from its construction index. All
// services must be added before the server is started.
func (a *Application) AddService(uuid string, primary bool) *Service {
	svc := &Service{
		path:    dbus.ObjectPath(childPath(a.path, "service", len(a.services))),
		uuid:    mustNormalize(uuid),
		primary: primary,
		app:     a,
	}
	a.services = append(a.services, svc)
	return svc
}

// Services returns the application's services in registration order.
func (a *Application) Services() []*Service {
	return a.services
}

// GetManagedObjects implements org.freedesktop.DBus.ObjectManager for
// the application root. BlueZ calls it during registration to discover
// the tree.
func (a *Application) GetManagedObjects() (map[dbus.ObjectPath]map[string]map[string]dbus.Variant, *dbus.Error) {
	var objs map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	if !a.loop.Do(func() { objs = a.managedObjects() }) {
		return nil, dbusError(ErrFailed)
	}
	return objs, nil
}

// managedObjects walks the whole tree and maps every service,
// characteristic and descriptor path to its interface properties. The
// mapping is computed fresh on every call.
func (a *Application) managedObjects() map[dbus.ObjectPath]map[string]map[string]dbus.Variant {
	objs := make(map[dbus.ObjectPath]map[string]map[string]dbus.Variant)
	for _, svc := range a.services {
		objs[svc.path] = map[string]map[string]dbus.Variant{
			InterfaceGattService: svc.properties(),
		}
		for _, c := range svc.chars {
			objs[c.path] = map[string]map[string]dbus.Variant{
				InterfaceGattCharacteristic: c.properties(),
			}
			for _, d := range c.descs {
				objs[d.path] = map[string]map[string]dbus.Variant{
					InterfaceGattDescriptor: d.properties(),
				}
			}
		}
	}
	return objs
}

// export publishes the application root and every node of the tree on
// conn feature by feature: the root as ObjectManager, each node under
// its GATT interface and org.freedesktop.DBus.Properties.
func (a *Application) export(conn *dbus.Conn) error {
	if err := conn.Export(a, a.path, ifaceObjectManager); err != nil {
		return err
	}
	for _, svc := range a.services {
		if err := conn.Export(svc, svc.path, ifaceProperties); err != nil {
			return err
		}
		for _, c := range svc.chars {
			c.conn = conn
			if err := conn.Export(c, c.path, InterfaceGattCharacteristic); err != nil {
				return err
			}
			if err := conn.Export(c, c.path, ifaceProperties); err != nil {
				return err
			}
			for _, d := range c.descs {
				if err := conn.Export(d, d.path, InterfaceGattDescriptor); err != nil {
					return err
				}
				if err := conn.Export(d, d.path, ifaceProperties); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// childPath derives a node path from its parent path, kind and
// construction index, e.g. /service0/char1.
func childPath(parent dbus.ObjectPath, kind string, index int) string {
	base := string(parent)
	if base == "/" {
		base = ""
	}
	return base + "/" + kind + strconv.Itoa(index)
}
