// Copyright 2024 Real-Time Innovations, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"flag"
	"fmt"

	log "github.com/golang/glog"
)

// Severity is a log level understood by the model packages. The default
// threshold is Notice: Notice, Warning and Error are always emitted, Info
// and Debug only at raised verbosity.
type Severity int

const (
	// SeverityDebug is trace-level output (glog verbosity 2).
	SeverityDebug Severity = iota
	// SeverityInfo is informational output (glog verbosity 1).
	SeverityInfo
	// SeverityNotice is the default threshold; notices always print.
	SeverityNotice
	// SeverityWarning marks recoverable problems.
	SeverityWarning
	// SeverityError marks failures the caller will also see as errors.
	SeverityError
)

// Debug logs v at debug severity. v has the same format as Printf.
func Debug(format string, v ...interface{}) {
	log.V(2).Infof(format, v...)
}

// Info logs v at info severity.
func Info(format string, v ...interface{}) {
	log.V(1).Infof(format, v...)
}

// Notice logs v at notice severity. Coercion warnings from the const
// builders are routed here per the coercion contract.
func Notice(format string, v ...interface{}) {
	log.Infof(format, v...)
}

// Warning logs v at warning severity.
func Warning(format string, v ...interface{}) {
	log.Warningf(format, v...)
}

// Error logs v at error severity.
func Error(format string, v ...interface{}) {
	log.Errorf(format, v...)
}

// Logf logs v at severity s.
func Logf(s Severity, format string, v ...interface{}) {
	switch s {
	case SeverityDebug:
		Debug(format, v...)
	case SeverityInfo:
		Info(format, v...)
	case SeverityNotice:
		Notice(format, v...)
	case SeverityWarning:
		Warning(format, v...)
	default:
		Error(format, v...)
	}
}

// RaiseVerbosity sets the glog verbosity so that severities below the
// default Notice threshold are emitted. Used by xml2idl -d.
func RaiseVerbosity(s Severity) error {
	v := "0"
	switch s {
	case SeverityDebug:
		v = "2"
	case SeverityInfo:
		v = "1"
	}
	if err := flag.Set("v", v); err != nil {
		return fmt.Errorf("cannot raise log verbosity: %v", err)
	}
	return nil
}
