// Package gatt implements a Bluetooth Low Energy GATT peripheral on top
// of the BlueZ D-Bus API.
//
// Gatt (Generic Attribute Profile) is the protocol used to expose
// structured data from BLE peripherals (servers) to centrals (clients).
// Rather than driving the HCI device directly, this package hands a tree
// of GATT objects to bluetoothd: the application root implements
// org.freedesktop.DBus.ObjectManager, every service, characteristic and
// descriptor implements org.freedesktop.DBus.Properties plus its BlueZ
// GATT interface, and the tree is registered with the adapter's
// org.bluez.GattManager1.
//
// USAGE
//
// Peripherals are constructed by creating an application, adding services
// and characteristics, and then running a server on a system bus
// connection:
//
//	app := gatt.NewApplication()
//	svc := app.AddService("180f", true)
//	c := svc.AddCharacteristic("2a19", gatt.FlagRead)
//	c.Handle(batteryLevel{})
//
//	conn, err := dbus.SystemBus()
//	...
//	srv := gatt.NewServer(conn, app)
//	log.Fatal(srv.Run())
//
// A handler implements the four GATT operations; embed Unsupported and
// override only the operations the characteristic's flags advertise:
//
//	type batteryLevel struct{ gatt.Unsupported }
//
//	func (batteryLevel) ReadValue(options map[string]dbus.Variant) ([]byte, error) {
//		return []byte{100}, nil
//	}
//
// All operations are dispatched on a single-threaded event loop, so
// handlers never run concurrently and need no locking.
//
// gatt only supports Linux, with BlueZ installed and bluetoothd running.
// The process needs permission to talk to org.bluez on the system bus;
// stock D-Bus policies allow this for root.
package gatt
