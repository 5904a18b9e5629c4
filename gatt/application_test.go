package gatt

import (
	"reflect"
	"testing"

	"github.com/godbus/dbus/v5"
)

// testTree builds an application with one service, two characteristics
// and one descriptor, and starts its loop.
func testTree(t *testing.T) *Application {
	t.Helper()
	app := NewApplication()
	svc := app.AddService("1805", true)
	c := svc.AddCharacteristic("2a2B", FlagRead, FlagNotify)
	c.AddDescriptor("2901", FlagRead)
	svc.AddCharacteristic("2a0f", FlagRead)
	go app.Loop().Run()
	t.Cleanup(func() { app.Loop().Stop(nil) })
	return app
}

func TestTreePathsDistinctAndStable(t *testing.T) {
	app := testTree(t)
	svc := app.Services()[0]
	chars := svc.Characteristics()

	paths := []dbus.ObjectPath{
		svc.Path(),
		chars[0].Path(),
		chars[0].Descriptors()[0].Path(),
		chars[1].Path(),
	}
	want := []dbus.ObjectPath{"/service0", "/service0/char0", "/service0/char0/desc0", "/service0/char1"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths: got %v want %v", paths, want)
	}

	seen := make(map[dbus.ObjectPath]bool)
	for _, p := range paths {
		if seen[p] {
			t.Errorf("duplicate path %q", p)
		}
		seen[p] = true
	}

	// Stable across repeated queries.
	for i, p := range paths {
		var again dbus.ObjectPath
		switch i {
		case 0:
			again = svc.Path()
		case 1:
			again = chars[0].Path()
		case 2:
			again = chars[0].Descriptors()[0].Path()
		case 3:
			again = chars[1].Path()
		}
		if again != p {
			t.Errorf("path changed between queries: %q then %q", p, again)
		}
	}
}

func TestGetManagedObjects(t *testing.T) {
	app := testTree(t)

	objs, derr := app.GetManagedObjects()
	if derr != nil {
		t.Fatalf("GetManagedObjects: %v", derr)
	}

	want := map[dbus.ObjectPath]string{
		"/service0":             InterfaceGattService,
		"/service0/char0":       InterfaceGattCharacteristic,
		"/service0/char0/desc0": InterfaceGattDescriptor,
		"/service0/char1":       InterfaceGattCharacteristic,
	}
	if len(objs) != len(want) {
		t.Fatalf("GetManagedObjects: got %d objects want %d", len(objs), len(want))
	}
	for path, iface := range want {
		ifaces, ok := objs[path]
		if !ok {
			t.Errorf("GetManagedObjects: missing %q", path)
			continue
		}
		if len(ifaces) != 1 {
			t.Errorf("%q: got %d interfaces want 1", path, len(ifaces))
		}
		if _, ok := ifaces[iface]; !ok {
			t.Errorf("%q: missing interface %q", path, iface)
		}
	}

	// Repeated calls see the same key set.
	again, _ := app.GetManagedObjects()
	if len(again) != len(objs) {
		t.Errorf("repeated GetManagedObjects: got %d objects want %d", len(again), len(objs))
	}
	for path := range objs {
		if _, ok := again[path]; !ok {
			t.Errorf("repeated GetManagedObjects: missing %q", path)
		}
	}
}

func TestServiceProperties(t *testing.T) {
	app := testTree(t)
	svc := app.Services()[0]

	props, derr := svc.GetAll(InterfaceGattService)
	if derr != nil {
		t.Fatalf("GetAll: %v", derr)
	}
	if got := props["UUID"].Value(); got != "1805" {
		t.Errorf("UUID: got %v want 1805", got)
	}
	if got := props["Primary"].Value(); got != true {
		t.Errorf("Primary: got %v want true", got)
	}
	want := []dbus.ObjectPath{"/service0/char0", "/service0/char1"}
	if got := props["Characteristics"].Value(); !reflect.DeepEqual(got, want) {
		t.Errorf("Characteristics: got %v want %v", got, want)
	}
}

func TestCharacteristicProperties(t *testing.T) {
	app := testTree(t)
	c := app.Services()[0].Characteristics()[0]

	props, derr := c.GetAll(InterfaceGattCharacteristic)
	if derr != nil {
		t.Fatalf("GetAll: %v", derr)
	}
	if got := props["UUID"].Value(); got != "2a2b" {
		t.Errorf("UUID: got %v want 2a2b (normalized)", got)
	}
	if got := props["Service"].Value(); got != dbus.ObjectPath("/service0") {
		t.Errorf("Service: got %v want /service0", got)
	}
	if got := props["Flags"].Value(); !reflect.DeepEqual(got, []string{FlagRead, FlagNotify}) {
		t.Errorf("Flags: got %v", got)
	}
	if got := props["Descriptors"].Value(); !reflect.DeepEqual(got, []dbus.ObjectPath{"/service0/char0/desc0"}) {
		t.Errorf("Descriptors: got %v", got)
	}
	if _, ok := props["Notifying"]; ok {
		t.Error("Notifying must not be exposed as a property")
	}
}

func TestDescriptorProperties(t *testing.T) {
	app := testTree(t)
	d := app.Services()[0].Characteristics()[0].Descriptors()[0]

	props, derr := d.GetAll(InterfaceGattDescriptor)
	if derr != nil {
		t.Fatalf("GetAll: %v", derr)
	}
	if got := props["UUID"].Value(); got != "2901" {
		t.Errorf("UUID: got %v want 2901", got)
	}
	if got := props["Characteristic"].Value(); got != dbus.ObjectPath("/service0/char0") {
		t.Errorf("Characteristic: got %v want /service0/char0", got)
	}
}

func TestGetAllWrongInterface(t *testing.T) {
	app := testTree(t)
	svc := app.Services()[0]
	c := svc.Characteristics()[0]
	d := c.Descriptors()[0]

	cases := []struct {
		name string
		call func(string) (map[string]dbus.Variant, *dbus.Error)
	}{
		{name: "service", call: svc.GetAll},
		{name: "characteristic", call: c.GetAll},
		{name: "descriptor", call: d.GetAll},
	}

	for _, tt := range cases {
		_, derr := tt.call("org.bluez.Adapter1")
		if derr == nil {
			t.Errorf("%s GetAll with wrong interface: got nil error", tt.name)
			continue
		}
		if derr.Name != ErrInvalidArgs.Name {
			t.Errorf("%s GetAll with wrong interface: got %q want %q", tt.name, derr.Name, ErrInvalidArgs.Name)
		}
	}
}

func TestAddCharacteristicDuplicateUUID(t *testing.T) {
	app := NewApplication()
	svc := app.AddService("1805", true)
	svc.AddCharacteristic("2a2b", FlagRead)

	defer func() {
		if recover() == nil {
			t.Error("AddCharacteristic with duplicate uuid should panic")
		}
	}()
	svc.AddCharacteristic("2A2B", FlagRead)
}
