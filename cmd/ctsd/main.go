// ctsd exposes a Bluetooth Current Time Service through BlueZ, so that
// any connecting BLE central can read the date and time of this machine
// and subscribe to time notifications.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"
	log "github.com/sirupsen/logrus"

	"github.com/XC-/gatt-cts/cts"
	"github.com/XC-/gatt-cts/gatt"
)

var (
	notifyPeriod = flag.Duration("notify-period", 0,
		"notify subscribed centrals of the time periodically (N.B. this is non-conformant); 0 disables")
	logLevel = flag.String("log-level", "info",
		"console log level: error, warning, info or debug")
	name = flag.String("name", "",
		"local name to advertise; empty disables advertising")
)

func main() {
	flag.Parse()

	lvl, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("Bad log level: %s", err)
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})

	conn, err := dbus.SystemBus()
	if err != nil {
		log.Fatalf("Failed to connect to system bus: %s", err)
	}
	defer conn.Close()

	app := gatt.NewApplication()
	cts.AddService(app, cts.NotifyPeriod(*notifyPeriod))

	var opts []gatt.Option
	if *name != "" {
		opts = append(opts, gatt.WithAdvertising(*name))
	}
	srv := gatt.NewServer(conn, app, opts...)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		srv.Stop()
	}()

	if err := srv.Run(); err != nil {
		log.Fatalf("Server exited: %s", err)
	}
}
