// File: utils/constants.go
package utils

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// ClockLayout is the wire format for local clock times.
const ClockLayout = "15:04"

// MinutesPerDay bounds minutes-from-midnight values.
const MinutesPerDay = 24 * 60
