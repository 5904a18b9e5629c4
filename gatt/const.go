package gatt

// This file includes identifiers from the BlueZ D-Bus API.

const (
	bluezBusName = "org.bluez"

	ifaceObjectManager = "org.freedesktop.DBus.ObjectManager"
	ifaceProperties    = "org.freedesktop.DBus.Properties"

	ifaceGattManager = "org.bluez.GattManager1"
	ifaceAdvManager  = "org.bluez.LEAdvertisingManager1"

	signalPropertiesChanged = "org.freedesktop.DBus.Properties.PropertiesChanged"
)

// Interfaces declared by the nodes of a GATT object tree. Each node
// answers Properties.GetAll for exactly its own interface.
const (
	InterfaceGattService        = "org.bluez.GattService1"
	InterfaceGattCharacteristic = "org.bluez.GattCharacteristic1"
	InterfaceGattDescriptor     = "org.bluez.GattDescriptor1"
	InterfaceAdvertisement      = "org.bluez.LEAdvertisement1"
)

// Characteristic and descriptor capability flags, as BlueZ spells them.
const (
	FlagRead                 = "read"
	FlagWrite                = "write"
	FlagWriteWithoutResponse = "write-without-response"
	FlagNotify               = "notify"
	FlagIndicate             = "indicate"
)
