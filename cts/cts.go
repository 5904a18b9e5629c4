// Package cts implements the Bluetooth SIG Current Time Service
// (v1.1.0) as a GATT service: a readable, notifying Current Time
// characteristic and a readable Local Time Information characteristic.
package cts

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"

	"github.com/XC-/gatt-cts/gatt"
)

// UUIDs assigned by the Bluetooth SIG.
const (
	// ServiceUUID identifies the Current Time Service.
	ServiceUUID = "1805"

	// CurrentTimeUUID identifies the Current Time characteristic.
	CurrentTimeUUID = "2a2b"

	// LocalTimeInformationUUID identifies the Local Time Information
	// characteristic.
	LocalTimeInformationUUID = "2a0f"
)

// An Option configures the service.
type Option func(*config)

type config struct {
	period time.Duration
	log    logrus.FieldLogger
}

// NotifyPeriod makes the service proactively notify subscribed centrals
// of the current time every d. This is non-conformant: the
// specification only mandates notifications on time changes. d <= 0
// disables the timer.
func NotifyPeriod(d time.Duration) Option {
	return func(c *config) { c.period = d }
}

// WithLogger makes the service log through l instead of the logrus
// standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) { c.log = l }
}

// AddService builds the Current Time Service and adds it to app as a
// primary service. The whole subtree is fixed after this call.
func AddService(app *gatt.Application, opts ...Option) *gatt.Service {
	cfg := config{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	svc := app.AddService(ServiceUUID, true)

	ct := &currentTime{log: cfg.log.WithField("char", "current_time")}
	ct.Unsupported.Log = ct.log
	ct.state.Log = ct.log
	ct.char = svc.AddCharacteristic(CurrentTimeUUID, gatt.FlagRead, gatt.FlagNotify)
	ct.char.Handle(ct)
	if cfg.period > 0 {
		app.Loop().Every(cfg.period, ct.notifyTime)
	}

	lti := &localTimeInformation{log: cfg.log.WithField("char", "local_time_information")}
	lti.Unsupported.Log = lti.log
	svc.AddCharacteristic(LocalTimeInformationUUID, gatt.FlagRead).Handle(lti)

	return svc
}

// currentTime answers the Current Time characteristic's read, start
// notify and stop notify operations; writes keep the Unsupported
// default.
type currentTime struct {
	gatt.Unsupported
	char  *gatt.Characteristic
	state gatt.NotifyState
	now   func() time.Time // test seam; nil means wall clock
	log   logrus.FieldLogger
}

func (c *currentTime) instant() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now().In(reloadLocal())
}

func (c *currentTime) ReadValue(options map[string]dbus.Variant) ([]byte, error) {
	value := currentTimeBytes(c.instant())
	c.log.WithField("device", peerDevice(options)).Info("supplying current time")
	return value, nil
}

func (c *currentTime) StartNotify() error {
	return c.state.Start()
}

func (c *currentTime) StopNotify() error {
	return c.state.Stop()
}

// notifyCurrentTime broadcasts a freshly encoded payload, or does
// nothing when notifications are off. The payload is never cached.
func (c *currentTime) notifyCurrentTime() {
	if !c.state.Notifying() {
		return
	}
	if err := c.char.Notify(currentTimeBytes(c.instant())); err != nil {
		c.log.WithError(err).Warn("could not broadcast current time")
	}
}

// notifyTime is the recurring timer callback. It always keeps the timer
// armed; when notifications are off it is a no-op.
func (c *currentTime) notifyTime() bool {
	if !c.state.Notifying() {
		return true
	}
	c.log.Info("notifying current local time")
	c.notifyCurrentTime()
	return true
}

// localTimeInformation answers the Local Time Information
// characteristic's read operation; everything else keeps the
// Unsupported default.
type localTimeInformation struct {
	gatt.Unsupported
	now func() time.Time
	log logrus.FieldLogger
}

func (c *localTimeInformation) instant() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now().In(reloadLocal())
}

func (c *localTimeInformation) ReadValue(options map[string]dbus.Variant) ([]byte, error) {
	value := localTimeInformationBytes(c.instant())
	c.log.WithField("device", peerDevice(options)).Info("supplying local time information")
	return value, nil
}

// peerDevice extracts the requesting device's object path from the
// request options. It only ever feeds logging; the payload never
// depends on the peer.
func peerDevice(options map[string]dbus.Variant) string {
	v, ok := options["device"]
	if !ok {
		return "unknown"
	}
	if p, ok := v.Value().(dbus.ObjectPath); ok {
		return string(p)
	}
	return fmt.Sprint(v.Value())
}
