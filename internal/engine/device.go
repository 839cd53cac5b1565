package engine

// Device is a preview viewport in the editor canvas.
type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceTablet  Device = "tablet"
	DeviceMobile  Device = "mobile"
)

// Devices lists the preview viewports in toolbar order.
var Devices = []Device{DeviceDesktop, DeviceTablet, DeviceMobile}

// ParseDevice maps a toolbar value to a Device, defaulting to desktop.
func ParseDevice(s string) Device {
	switch Device(s) {
	case DeviceTablet:
		return DeviceTablet
	case DeviceMobile:
		return DeviceMobile
	}
	return DeviceDesktop
}

// Width is the canvas width used to preview the device.
func (d Device) Width() string {
	switch d {
	case DeviceTablet:
		return "768px"
	case DeviceMobile:
		return "375px"
	}
	return "100%"
}
