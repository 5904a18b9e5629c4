package gatt

import (
	"errors"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
)

// A Handler replies to the GATT operations addressed to a
// characteristic or descriptor. Concrete handlers embed Unsupported and
// override only the operations their capability flags advertise; this
// is the sole extension point, there is no branching on node type.
type Handler interface {
	// ReadValue returns the current value. The options carry BlueZ
	// request metadata such as the requesting device's object path.
	ReadValue(options map[string]dbus.Variant) ([]byte, error)

	// WriteValue replaces the value.
	WriteValue(value []byte, options map[string]dbus.Variant) error

	// StartNotify subscribes the peer to value-change notifications.
	StartNotify() error

	// StopNotify cancels the subscription.
	StopNotify() error
}

// Unsupported implements Handler by logging and failing every operation
// with ErrNotSupported.
type Unsupported struct {
	// Log is the logger used when an unhandled operation is called.
	// If nil, the logrus standard logger is used.
	Log logrus.FieldLogger
}

func (u Unsupported) logger() logrus.FieldLogger {
	if u.Log != nil {
		return u.Log
	}
	return logrus.StandardLogger()
}

func (u Unsupported) ReadValue(map[string]dbus.Variant) ([]byte, error) {
	u.logger().Error("default ReadValue called, returning error")
	return nil, ErrNotSupported
}

func (u Unsupported) WriteValue([]byte, map[string]dbus.Variant) error {
	u.logger().Error("default WriteValue called, returning error")
	return ErrNotSupported
}

func (u Unsupported) StartNotify() error {
	u.logger().Error("default StartNotify called, returning error")
	return ErrNotSupported
}

func (u Unsupported) StopNotify() error {
	u.logger().Error("default StopNotify called, returning error")
	return ErrNotSupported
}

// A Characteristic is a GATT characteristic: a UUID, an immutable set of
// capability flags, an ordered list of descriptors and a handler that
// answers its operations. The inbound bus methods trampoline onto the
// application's event loop before touching the handler.
type Characteristic struct {
	path    dbus.ObjectPath
	uuid    string
	flags   []string
	service *Service
	descs   []*Descriptor
	handler Handler

	conn *dbus.Conn // set when the tree is exported
}

// UUID returns the characteristic's UUID.
func (c *Characteristic) UUID() string {
	return c.uuid
}

// Path returns the characteristic's object path.
func (c *Characteristic) Path() dbus.ObjectPath {
	return c.path
}

// Flags returns the characteristic's capability flags.
func (c *Characteristic) Flags() []string {
	return c.flags
}

// Service returns the service this characteristic belongs to.
func (c *Characteristic) Service() *Service {
	return c.service
}

// Handle routes the characteristic's operations to h. Handle must be
// called before any server using the characteristic has been started.
func (c *Characteristic) Handle(h Handler) {
	c.handler = h
}

// AddDescriptor adds a descriptor with the given UUID and flags to the
// characteristic and returns it.
func (c *Characteristic) AddDescriptor(uuid string, flags ...string) *Descriptor {
	d := &Descriptor{
		path:    dbus.ObjectPath(childPath(c.path, "desc", len(c.descs))),
		uuid:    mustNormalize(uuid),
		flags:   flags,
		char:    c,
		handler: Unsupported{},
	}
	c.descs = append(c.descs, d)
	return d
}

// Descriptors returns the characteristic's descriptors in the order
// they were added.
func (c *Characteristic) Descriptors() []*Descriptor {
	return c.descs
}

// Notify broadcasts a value change to subscribed centrals by emitting
// PropertiesChanged for the characteristic's Value. It is the handler's
// job to consult its notify state before calling Notify.
func (c *Characteristic) Notify(value []byte) error {
	if c.conn == nil {
		return errors.New("gatt: characteristic is not exported on a bus")
	}
	return c.conn.Emit(c.path, signalPropertiesChanged,
		InterfaceGattCharacteristic,
		map[string]dbus.Variant{"Value": dbus.MakeVariant(value)},
		[]string{})
}

// GetAll implements org.freedesktop.DBus.Properties for the
// characteristic; only org.bluez.GattCharacteristic1 may be queried.
func (c *Characteristic) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	var props map[string]dbus.Variant
	var err error
	if !c.loop().Do(func() {
		if iface != InterfaceGattCharacteristic {
			err = ErrInvalidArgs
			return
		}
		props = c.properties()
	}) {
		return nil, dbusError(ErrFailed)
	}
	if err != nil {
		return nil, dbusError(err)
	}
	return props, nil
}

// ReadValue implements org.bluez.GattCharacteristic1.ReadValue.
func (c *Characteristic) ReadValue(options map[string]dbus.Variant) ([]byte, *dbus.Error) {
	var value []byte
	var err error
	if !c.loop().Do(func() { value, err = c.handler.ReadValue(options) }) {
		return nil, dbusError(ErrFailed)
	}
	if err != nil {
		return nil, dbusError(err)
	}
	return value, nil
}

// WriteValue implements org.bluez.GattCharacteristic1.WriteValue.
func (c *Characteristic) WriteValue(value []byte, options map[string]dbus.Variant) *dbus.Error {
	var err error
	if !c.loop().Do(func() { err = c.handler.WriteValue(value, options) }) {
		return dbusError(ErrFailed)
	}
	if err != nil {
		return dbusError(err)
	}
	return nil
}

// StartNotify implements org.bluez.GattCharacteristic1.StartNotify.
func (c *Characteristic) StartNotify() *dbus.Error {
	var err error
	if !c.loop().Do(func() { err = c.handler.StartNotify() }) {
		return dbusError(ErrFailed)
	}
	if err != nil {
		return dbusError(err)
	}
	return nil
}

// StopNotify implements org.bluez.GattCharacteristic1.StopNotify.
func (c *Characteristic) StopNotify() *dbus.Error {
	var err error
	if !c.loop().Do(func() { err = c.handler.StopNotify() }) {
		return dbusError(ErrFailed)
	}
	if err != nil {
		return dbusError(err)
	}
	return nil
}

func (c *Characteristic) loop() *Loop {
	return c.service.app.loop
}

// properties exposes the characteristic's static construction fields.
// Notify state is internal and never appears here.
func (c *Characteristic) properties() map[string]dbus.Variant {
	paths := make([]dbus.ObjectPath, 0, len(c.descs))
	for _, d := range c.descs {
		paths = append(paths, d.path)
	}
	return map[string]dbus.Variant{
		"Service":     dbus.MakeVariant(c.service.path),
		"UUID":        dbus.MakeVariant(c.uuid),
		"Flags":       dbus.MakeVariant(c.flags),
		"Descriptors": dbus.MakeVariant(paths),
	}
}
