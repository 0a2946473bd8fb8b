//go:build avr

// Command demo dumps any saved crash reports, enables a 4 s watchdog and
// then blinks while counting down to a deliberate lock-up. The watchdog
// catches the lock-up, saves its address and the iteration count, and resets
// the board; the next boot prints the new report.
package main

import (
	"machine"
	"time"

	"crashtrack-go/monitor"
	"crashtrack-go/platform"
	"crashtrack-go/watchdog"
)

func main() {
	mon := platform.Boot(monitor.DefaultConfig(platform.PCSize))

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	println("[demo] ready")
	mon.Dump(machine.Serial, true)
	mon.EnableWatchdog(watchdog.Timeout4s)
	println("[demo] watchdog armed:", watchdog.Timeout4s.String())

	countdown := 15
	for iter := uint32(0); ; iter++ {
		mon.KeepAlive()
		mon.SetData(iter)

		led.High()
		time.Sleep(200 * time.Millisecond)
		led.Low()
		time.Sleep(200 * time.Millisecond)

		if countdown == 0 {
			println("[demo] locking up at iteration", iter)
			for {
			}
		}
		countdown--
	}
}
