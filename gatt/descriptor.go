package gatt

import (
	"github.com/godbus/dbus/v5"
)

// A Descriptor is a GATT descriptor attached to a characteristic. Like
// characteristics, descriptors answer operations through a Handler;
// only ReadValue and WriteValue are reachable from the bus.
type Descriptor struct {
	path    dbus.ObjectPath
	uuid    string
	flags   []string
	char    *Characteristic
	handler Handler
}

// UUID returns the descriptor's UUID.
func (d *Descriptor) UUID() string {
	return d.uuid
}

// Path returns the descriptor's object path.
func (d *Descriptor) Path() dbus.ObjectPath {
	return d.path
}

// Flags returns the descriptor's capability flags.
func (d *Descriptor) Flags() []string {
	return d.flags
}

// Characteristic returns the characteristic this descriptor belongs to.
func (d *Descriptor) Characteristic() *Characteristic {
	return d.char
}

// Handle routes the descriptor's operations to h.
func (d *Descriptor) Handle(h Handler) {
	d.handler = h
}

// GetAll implements org.freedesktop.DBus.Properties for the descriptor;
// only org.bluez.GattDescriptor1 may be queried.
func (d *Descriptor) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	var props map[string]dbus.Variant
	var err error
	if !d.loop().Do(func() {
		if iface != InterfaceGattDescriptor {
			err = ErrInvalidArgs
			return
		}
		props = d.properties()
	}) {
		return nil, dbusError(ErrFailed)
	}
	if err != nil {
		return nil, dbusError(err)
	}
	return props, nil
}

// ReadValue implements org.bluez.GattDescriptor1.ReadValue.
func (d *Descriptor) ReadValue(options map[string]dbus.Variant) ([]byte, *dbus.Error) {
	var value []byte
	var err error
	if !d.loop().Do(func() { value, err = d.handler.ReadValue(options) }) {
		return nil, dbusError(ErrFailed)
	}
	if err != nil {
		return nil, dbusError(err)
	}
	return value, nil
}

// WriteValue implements org.bluez.GattDescriptor1.WriteValue.
func (d *Descriptor) WriteValue(value []byte, options map[string]dbus.Variant) *dbus.Error {
	var err error
	if !d.loop().Do(func() { err = d.handler.WriteValue(value, options) }) {
		return dbusError(ErrFailed)
	}
	if err != nil {
		return dbusError(err)
	}
	return nil
}

func (d *Descriptor) loop() *Loop {
	return d.char.service.app.loop
}

func (d *Descriptor) properties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"Characteristic": dbus.MakeVariant(d.char.path),
		"UUID":           dbus.MakeVariant(d.uuid),
		"Flags":          dbus.MakeVariant(d.flags),
	}
}
