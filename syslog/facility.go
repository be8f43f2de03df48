// Package syslog provides a record sink that speaks the BSD syslog
// protocol (RFC 3164) over local unix sockets, TCP or UDP. The sink is
// normally wrapped in a sink.RetrySink so a restarted or unreachable
// syslog daemon costs dropped messages, never a broken producer.
package syslog

import (
	"fmt"
	"strings"

	"github.com/linchenxuan/relog/log"
)

// Facility classifies the source of a syslog message, per RFC 3164.
type Facility int

const (
	FacilityKern Facility = iota
	FacilityUser
	FacilityMail
	FacilityDaemon
	FacilityAuth
	FacilitySyslog
	FacilityLpr
	FacilityNews
	FacilityUucp
	FacilityCron
	FacilityAuthpriv
	FacilityFtp
)

// Local-use facilities.
const (
	FacilityLocal0 Facility = iota + 16
	FacilityLocal1
	FacilityLocal2
	FacilityLocal3
	FacilityLocal4
	FacilityLocal5
	FacilityLocal6
	FacilityLocal7
)

var facilityNames = map[string]Facility{
	"kern":     FacilityKern,
	"user":     FacilityUser,
	"mail":     FacilityMail,
	"daemon":   FacilityDaemon,
	"auth":     FacilityAuth,
	"syslog":   FacilitySyslog,
	"lpr":      FacilityLpr,
	"news":     FacilityNews,
	"uucp":     FacilityUucp,
	"cron":     FacilityCron,
	"authpriv": FacilityAuthpriv,
	"ftp":      FacilityFtp,
	"local0":   FacilityLocal0,
	"local1":   FacilityLocal1,
	"local2":   FacilityLocal2,
	"local3":   FacilityLocal3,
	"local4":   FacilityLocal4,
	"local5":   FacilityLocal5,
	"local6":   FacilityLocal6,
	"local7":   FacilityLocal7,
}

// ParseFacility converts a facility name ("daemon", "local0", ...) to its
// Facility value, case-insensitively.
func ParseFacility(name string) (Facility, error) {
	f, ok := facilityNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown syslog facility %q", name)
	}
	return f, nil
}

// severityOf maps log levels to syslog severities. Trace and Debug share
// the debug severity; Fatal maps to critical.
func severityOf(level log.Level) int {
	switch level {
	case log.FatalLevel:
		return 2 // crit
	case log.ErrorLevel:
		return 3 // err
	case log.WarnLevel:
		return 4 // warning
	case log.InfoLevel:
		return 6 // info
	default:
		return 7 // debug
	}
}

// priority computes the RFC 3164 PRI value for a facility and level.
func priority(f Facility, level log.Level) int {
	return int(f)<<3 | severityOf(level)
}
