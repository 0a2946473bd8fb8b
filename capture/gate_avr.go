//go:build avr

package capture

/*
#include <stdint.h>
extern uint8_t *appmon_frame;
*/
import "C"

import "unsafe"

// appmonGate is called from the naked WDT vector with interrupts still off.
//
//export appmon_gate
func appmonGate() {
	Dispatch(unsafe.Slice((*byte)(unsafe.Pointer(C.appmon_frame)), width))
}
