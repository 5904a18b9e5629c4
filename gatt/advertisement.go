package gatt

import (
	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
)

// An Advertisement is an org.bluez.LEAdvertisement1 object announcing
// the application's primary services. It is exported beside the GATT
// tree and registered with the adapter's LEAdvertisingManager1.
type Advertisement struct {
	path         dbus.ObjectPath
	localName    string
	serviceUUIDs []string
	loop         *Loop
	log          logrus.FieldLogger
}

// Path returns the advertisement's object path.
func (a *Advertisement) Path() dbus.ObjectPath {
	return a.path
}

// GetAll implements org.freedesktop.DBus.Properties for the
// advertisement; only org.bluez.LEAdvertisement1 may be queried.
func (a *Advertisement) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	var props map[string]dbus.Variant
	var err error
	if !a.loop.Do(func() {
		if iface != InterfaceAdvertisement {
			err = ErrInvalidArgs
			return
		}
		props = a.properties()
	}) {
		return nil, dbusError(ErrFailed)
	}
	if err != nil {
		return nil, dbusError(err)
	}
	return props, nil
}

// Release implements org.bluez.LEAdvertisement1.Release. BlueZ calls it
// when the advertisement is withdrawn; there is nothing to clean up.
func (a *Advertisement) Release() *dbus.Error {
	a.log.Debug("advertisement released")
	return nil
}

func (a *Advertisement) properties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"Type":           dbus.MakeVariant("peripheral"),
		"LocalName":      dbus.MakeVariant(a.localName),
		"ServiceUUIDs":   dbus.MakeVariant(a.serviceUUIDs),
		"IncludeTxPower": dbus.MakeVariant(true),
	}
}

func (a *Advertisement) export(conn *dbus.Conn) error {
	if err := conn.Export(a, a.path, InterfaceAdvertisement); err != nil {
		return err
	}
	return conn.Export(a, a.path, ifaceProperties)
}
