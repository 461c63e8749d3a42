package util

import "log"

var flagEnableTrace bool = false

func EnableTrace() {
	flagEnableTrace = true
}

func DisableTrace() {
	flagEnableTrace = false
}

func TraceEnabled() bool {
	return flagEnableTrace
}

func Trace(format string, v ...interface{}) {
	if flagEnableTrace {
		log.Printf(format, v...)
	}
}

// The fixed-arity variants keep the hot paths free of slice allocations
// while tracing is off.

func Trace0(format string) {
	if flagEnableTrace {
		log.Print(format)
	}
}

func Trace1(format string, a interface{}) {
	if flagEnableTrace {
		log.Printf(format, a)
	}
}

func Trace2(format string, a, b interface{}) {
	if flagEnableTrace {
		log.Printf(format, a, b)
	}
}

func Trace3(format string, a, b, c interface{}) {
	if flagEnableTrace {
		log.Printf(format, a, b, c)
	}
}
