package domain

import "time"

// SalonSettings are salon-wide scheduling settings
type SalonSettings struct {
	BufferTimeHours int
	BusinessHours   map[time.Weekday]BusinessHours
	UpdatedAt       time.Time
}

// SettingKeyBufferTimeHours key of the buffer setting in salon_settings
const SettingKeyBufferTimeHours = "buffer_time_hours"
