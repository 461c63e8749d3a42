// Package statsview serves runtime statistics (heap, goroutines, GC) over
// HTTP while the emulator runs. It is only functional when built with the
// statsview tag:
//
//	go build -tags statsview
//
// Charts are then served at http://localhost:12600/debug/statsview.
package statsview
