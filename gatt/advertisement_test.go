package gatt

import (
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestAdvertisementProperties(t *testing.T) {
	app := NewApplication()
	go app.Loop().Run()
	defer app.Loop().Stop(nil)

	adv := &Advertisement{
		path:         "/advertisement0",
		localName:    "Wall Clock",
		serviceUUIDs: []string{"1805"},
		loop:         app.Loop(),
		log:          logrus.StandardLogger(),
	}

	props, derr := adv.GetAll(InterfaceAdvertisement)
	if derr != nil {
		t.Fatalf("GetAll: %v", derr)
	}
	if got := props["Type"].Value(); got != "peripheral" {
		t.Errorf("Type: got %v want peripheral", got)
	}
	if got := props["LocalName"].Value(); got != "Wall Clock" {
		t.Errorf("LocalName: got %v want Wall Clock", got)
	}
	if got := props["ServiceUUIDs"].Value(); !reflect.DeepEqual(got, []string{"1805"}) {
		t.Errorf("ServiceUUIDs: got %v want [1805]", got)
	}
	if got := props["IncludeTxPower"].Value(); got != true {
		t.Errorf("IncludeTxPower: got %v want true", got)
	}

	if _, derr := adv.GetAll("org.bluez.Adapter1"); derr == nil {
		t.Error("GetAll with wrong interface: got nil error")
	} else if derr.Name != ErrInvalidArgs.Name {
		t.Errorf("GetAll with wrong interface: got %q want %q", derr.Name, ErrInvalidArgs.Name)
	}

	if derr := adv.Release(); derr != nil {
		t.Errorf("Release: %v", derr)
	}
}
