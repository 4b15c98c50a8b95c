//go:build tinygo && rp2040

package hal

import (
	"machine"

	"tinygo.org/x/drivers/lsm6ds3tr"
)

// newThermometer probes for an LSM6DS3TR on I2C0 and falls back to the
// RP2040's on-die sensor when nothing answers.
func newThermometer() Thermometer {
	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz}); err == nil {
		dev := lsm6ds3tr.New(i2c)
		if err := dev.Configure(lsm6ds3tr.Configuration{}); err == nil {
			return &lsmTherm{dev: dev}
		}
	}
	return onDieTherm{}
}

type lsmTherm struct {
	dev *lsm6ds3tr.Device
}

func (t *lsmTherm) ReadCelsius() (float32, error) {
	milli, err := t.dev.ReadTemperature()
	if err != nil {
		return 0, err
	}
	return float32(milli) / 1000, nil
}

// onDieTherm reads the internal temperature sensor via the ADC.
type onDieTherm struct{}

func (onDieTherm) ReadCelsius() (float32, error) {
	return float32(machine.ReadTemperature()) / 1000, nil
}
